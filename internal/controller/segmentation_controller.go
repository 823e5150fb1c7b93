// internal/controller/segmentation_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/mayfashion/marketing-backend/internal/service"
)

// SegmentationController exposes the sync trigger and the cron-style
// endpoints an external scheduler can call.
type SegmentationController struct {
	Segmentation *service.SegmentationService
	Scheduler    *service.Scheduler
}

// TriggerSync classifies all newly observed customers.
func (c *SegmentationController) TriggerSync(w http.ResponseWriter, r *http.Request) {
	result, err := c.Segmentation.Sync()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// TriggerCampaignTick runs one scheduler pass on demand.
func (c *SegmentationController) TriggerCampaignTick(w http.ResponseWriter, r *http.Request) {
	result := c.Scheduler.Tick(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"result":    result,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
