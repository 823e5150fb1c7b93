// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketing_messages_sent_total",
		Help: "Outbound messages successfully handed to the send provider.",
	}, []string{"channel"})

	MessagesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketing_messages_failed_total",
		Help: "Outbound messages the send provider rejected.",
	}, []string{"channel"})

	CampaignsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketing_campaigns_started_total",
		Help: "Campaigns transitioned to running.",
	})

	CampaignsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketing_campaigns_completed_total",
		Help: "Campaigns transitioned to completed.",
	})

	SchedulerTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketing_scheduler_ticks_total",
		Help: "Executions of the campaign scheduler body.",
	})

	TrackingOpens = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketing_tracking_opens_total",
		Help: "Open-pixel hits recorded.",
	})

	TrackingClicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketing_tracking_clicks_total",
		Help: "Click-redirect hits recorded.",
	})

	SegmentationRecordsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketing_segmentation_records_added_total",
		Help: "Customers classified by the segmentation sync.",
	})
)

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
