// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mayfashion/marketing-backend/internal/model"
	"github.com/mayfashion/marketing-backend/internal/repository"
	"github.com/mayfashion/marketing-backend/internal/service"
)

type CampaignController struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Lifecycle    *service.LifecycleService
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title            string     `json:"title"`
		Description      string     `json:"description"`
		StartDate        *time.Time `json:"start_date"`
		EndDate          *time.Time `json:"end_date"`
		CustomerSegments []string   `json:"customer_segments"`
		EmailSubject     string     `json:"email_subject"`
		EmailContent     string     `json:"email_content"`
		SMSContent       string     `json:"sms_content"`
		TemplateName     string     `json:"template_name"`
		CreatedBy        string     `json:"created_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.Title == "" || body.CreatedBy == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "title and created_by are required"})
		return
	}

	campaign := &model.Campaign{
		Title:            body.Title,
		Description:      body.Description,
		StartDate:        body.StartDate,
		EndDate:          body.EndDate,
		CustomerSegments: body.CustomerSegments,
		EmailSubject:     body.EmailSubject,
		EmailContent:     body.EmailContent,
		SMSContent:       body.SMSContent,
		TemplateName:     body.TemplateName,
		CreatedBy:        body.CreatedBy,
		Status:           model.StatusDraft,
	}
	if err := c.CampaignRepo.Create(campaign); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	status := r.URL.Query().Get("status")
	createdBy := r.URL.Query().Get("created_by")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	campaigns, total, err := c.CampaignRepo.List((page-1)*pageSize, pageSize, status, createdBy)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":       campaigns,
		"total":       total,
		"page":        page,
		"total_pages": int(math.Ceil(float64(total) / float64(pageSize))),
	})
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := c.CampaignRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) ListByStatus(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.CampaignRepo.ListByStatus(model.CampaignStatus(chi.URLParam(r, "status")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// campaignPatch is the explicit partial-update shape: only fields present in
// the request body are applied.
type campaignPatch struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	CustomerSegments *[]string  `json:"customer_segments"`
	EmailSubject     *string    `json:"email_subject"`
	EmailContent     *string    `json:"email_content"`
	SMSContent       *string    `json:"sms_content"`
	TemplateName     *string    `json:"template_name"`
}

func (c *CampaignController) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var patch campaignPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if patch.Title != nil {
		campaign.Title = *patch.Title
	}
	if patch.Description != nil {
		campaign.Description = *patch.Description
	}
	if patch.StartDate != nil {
		campaign.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		campaign.EndDate = patch.EndDate
	}
	if patch.CustomerSegments != nil {
		campaign.CustomerSegments = *patch.CustomerSegments
	}
	if patch.EmailSubject != nil {
		campaign.EmailSubject = *patch.EmailSubject
	}
	if patch.EmailContent != nil {
		campaign.EmailContent = *patch.EmailContent
	}
	if patch.SMSContent != nil {
		campaign.SMSContent = *patch.SMSContent
	}
	if patch.TemplateName != nil {
		campaign.TemplateName = *patch.TemplateName
	}

	if err := c.CampaignRepo.Update(campaign); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := c.CampaignRepo.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Campaign deleted successfully"})
}

// ====================== Transitions ======================

func (c *CampaignController) SubmitCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := c.Lifecycle.Submit(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) ApproveCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, result, err := c.Lifecycle.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"campaign": campaign,
		"dispatch": result,
	})
}

func (c *CampaignController) RejectCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string              `json:"reason"`
		Type   model.RejectionKind `json:"type"`
		Note   string              `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	campaign, err := c.Lifecycle.Reject(chi.URLParam(r, "id"), body.Reason, body.Type, body.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) StartCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := c.Lifecycle.Start(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) CompleteCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := c.Lifecycle.Complete(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) ExecuteCampaign(w http.ResponseWriter, r *http.Request) {
	result, err := c.Lifecycle.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (c *CampaignController) ResolveCampaignAudience(w http.ResponseWriter, r *http.Request) {
	recencyDays, _ := strconv.Atoi(r.URL.Query().Get("recency_days"))

	campaign, recipients, err := c.Lifecycle.ResolveNow(chi.URLParam(r, "id"), recencyDays)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"campaign":   campaign,
		"count":      len(recipients),
		"recipients": recipients,
	})
}
