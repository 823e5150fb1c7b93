// internal/controller/tracking_controller.go
package controller

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mayfashion/marketing-backend/internal/metrics"
	"github.com/mayfashion/marketing-backend/internal/repository"
	"github.com/mayfashion/marketing-backend/internal/tracking"
)

type TrackingController struct {
	CampaignRepo repository.CampaignRepositoryInterface
	// DefaultRedirectURL is used when a click carries no destination or the
	// campaign lookup fails.
	DefaultRedirectURL string
}

// TrackOpen records an email open and returns the 1x1 pixel. The pixel is
// served unconditionally — a broken campaign id must never break the mail
// client's rendering.
func (c *TrackingController) TrackOpen(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaignId")
	customerID := chi.URLParam(r, "customerId")

	if err := c.CampaignRepo.IncrementOpened(campaignID); err != nil {
		log.Printf("⚠️ tracking open for campaign %s failed: %v", campaignID, err)
	} else {
		metrics.TrackingOpens.Inc()
		log.Printf("📧 Email opened - Campaign: %s, Customer: %s", campaignID, customerID)
	}

	pixel := tracking.PixelGIF()
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Content-Length", strconv.Itoa(len(pixel)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	w.Write(pixel)
}

// TrackClick records a link click and redirects to the original destination.
func (c *TrackingController) TrackClick(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaignId")
	customerID := chi.URLParam(r, "customerId")
	destination := r.URL.Query().Get("url")

	if err := c.CampaignRepo.IncrementClicked(campaignID); err != nil {
		log.Printf("⚠️ tracking click for campaign %s failed: %v", campaignID, err)
	} else {
		metrics.TrackingClicks.Inc()
		log.Printf("🖱️ Link clicked - Campaign: %s, Customer: %s", campaignID, customerID)
	}

	if destination == "" {
		destination = c.DefaultRedirectURL
	}
	http.Redirect(w, r, destination, http.StatusFound)
}

// TrackingStats returns the engagement counters for one campaign.
func (c *TrackingController) TrackingStats(w http.ResponseWriter, r *http.Request) {
	campaign, err := c.CampaignRepo.GetByID(chi.URLParam(r, "campaignId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"campaign_id": campaign.ID,
		"title":       campaign.Title,
		"sent":        campaign.Metrics.Sent,
		"delivered":   campaign.Metrics.Delivered,
		"opened":      campaign.Metrics.Opened,
		"clicked":     campaign.Metrics.Clicked,
	})
}
