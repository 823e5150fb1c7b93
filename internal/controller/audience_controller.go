// internal/controller/audience_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/mayfashion/marketing-backend/internal/repository"
	"github.com/mayfashion/marketing-backend/internal/segments"
	"github.com/mayfashion/marketing-backend/internal/service"
)

type AudienceController struct {
	Audience         *service.AudienceService
	SegmentationRepo repository.SegmentationRepositoryInterface
}

type audienceRequest struct {
	SegmentLabels []string `json:"segment_labels"`
	RecencyDays   int      `json:"recency_days"`
}

// ResolveAudience returns the concrete recipient list for a label set.
func (c *AudienceController) ResolveAudience(w http.ResponseWriter, r *http.Request) {
	var body audienceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	recipients, err := c.Audience.Resolve(body.SegmentLabels, body.RecencyDays)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(recipients),
		"recipients": recipients,
	})
}

// PreviewAudience returns the combined count and a per-label breakdown
// without fetching contact data.
func (c *AudienceController) PreviewAudience(w http.ResponseWriter, r *http.Request) {
	var body audienceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	preview, err := c.Audience.PreviewCounts(body.SegmentLabels)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// ListSegments returns every known segment label.
func (c *AudienceController) ListSegments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"segments": segments.Labels()})
}

// SegmentationStats returns the classification distribution.
func (c *AudienceController) SegmentationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.SegmentationRepo.Stats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
