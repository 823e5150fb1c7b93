package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mayfashion/marketing-backend/internal/model"
	"github.com/mayfashion/marketing-backend/internal/service"
)

func newCampaignRouter(repo *memCampaignRepo) http.Handler {
	lifecycle := &service.LifecycleService{
		CampaignRepo: repo,
		Now:          func() time.Time { return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC) },
	}
	cc := &CampaignController{CampaignRepo: repo, Lifecycle: lifecycle}

	r := chi.NewRouter()
	r.Route("/api/campaigns", func(r chi.Router) {
		r.Post("/", cc.CreateCampaign)
		r.Get("/", cc.ListCampaigns)
		r.Get("/{id}", cc.GetCampaign)
		r.Patch("/{id}", cc.UpdateCampaign)
		r.Delete("/{id}", cc.DeleteCampaign)
		r.Post("/{id}/submit", cc.SubmitCampaign)
		r.Post("/{id}/reject", cc.RejectCampaign)
		r.Post("/{id}/complete", cc.CompleteCampaign)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateCampaign(t *testing.T) {
	repo := newMemCampaignRepo()
	router := newCampaignRouter(repo)

	rec := doJSON(t, router, http.MethodPost, "/api/campaigns",
		`{"title":"Avurudu Sale","description":"Seasonal push","created_by":"team-member","customer_segments":["Loyal Customers"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var created model.Campaign
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" {
		t.Error("created campaign has no id")
	}
	if created.Status != model.StatusDraft {
		t.Errorf("status = %s, want draft", created.Status)
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	router := newCampaignRouter(newMemCampaignRepo())

	rec := doJSON(t, router, http.MethodPost, "/api/campaigns", `{"description":"no title"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetCampaignNotFound(t *testing.T) {
	router := newCampaignRouter(newMemCampaignRepo())

	rec := doJSON(t, router, http.MethodGet, "/api/campaigns/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateCampaignAppliesOnlyProvidedFields(t *testing.T) {
	repo := newMemCampaignRepo()
	repo.put(&model.Campaign{
		ID:          "c1",
		Title:       "Original",
		Description: "Keep me",
		Status:      model.StatusDraft,
		CreatedBy:   "team-member",
	})
	router := newCampaignRouter(repo)

	rec := doJSON(t, router, http.MethodPatch, "/api/campaigns/c1", `{"title":"Renamed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	stored, _ := repo.GetByID("c1")
	if stored.Title != "Renamed" {
		t.Errorf("title = %q, want Renamed", stored.Title)
	}
	if stored.Description != "Keep me" {
		t.Errorf("description = %q, fields absent from the patch must not change", stored.Description)
	}
}

func TestDeleteCampaign(t *testing.T) {
	repo := newMemCampaignRepo()
	repo.put(&model.Campaign{ID: "c1", Title: "Old", Status: model.StatusDraft, CreatedBy: "x"})
	router := newCampaignRouter(repo)

	rec := doJSON(t, router, http.MethodDelete, "/api/campaigns/c1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if _, err := repo.GetByID("c1"); err == nil {
		t.Error("campaign still present after delete")
	}
}

func TestListCampaignsPagination(t *testing.T) {
	repo := newMemCampaignRepo()
	for i := 0; i < 5; i++ {
		repo.Create(&model.Campaign{Title: "Campaign", Status: model.StatusDraft, CreatedBy: "x"})
	}
	router := newCampaignRouter(repo)

	rec := doJSON(t, router, http.MethodGet, "/api/campaigns?page=1&page_size=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Items      []model.Campaign `json:"items"`
		Total      int              `json:"total"`
		Page       int              `json:"page"`
		TotalPages int              `json:"total_pages"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 2 || body.Total != 5 || body.TotalPages != 3 {
		t.Errorf("items=%d total=%d pages=%d, want 2/5/3", len(body.Items), body.Total, body.TotalPages)
	}
}

func TestSubmitCampaignEndpoint(t *testing.T) {
	repo := newMemCampaignRepo()
	repo.put(&model.Campaign{
		ID:          "c1",
		Title:       "Avurudu Sale",
		Description: "Seasonal push",
		Status:      model.StatusDraft,
		CreatedBy:   "team-member",
	})
	router := newCampaignRouter(repo)

	rec := doJSON(t, router, http.MethodPost, "/api/campaigns/c1/submit", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	stored, _ := repo.GetByID("c1")
	if stored.Status != model.StatusPendingApproval {
		t.Errorf("status = %s, want pending_approval", stored.Status)
	}
}

func TestInvalidTransitionMapsToConflict(t *testing.T) {
	repo := newMemCampaignRepo()
	repo.put(&model.Campaign{
		ID:          "c1",
		Title:       "Avurudu Sale",
		Description: "Seasonal push",
		Status:      model.StatusDraft,
		CreatedBy:   "team-member",
	})
	router := newCampaignRouter(repo)

	// Completing a draft is an illegal edge.
	rec := doJSON(t, router, http.MethodPost, "/api/campaigns/c1/complete", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
}

func TestRejectCampaignEndpoint(t *testing.T) {
	repo := newMemCampaignRepo()
	repo.put(&model.Campaign{
		ID:          "c1",
		Title:       "Avurudu Sale",
		Description: "Seasonal push",
		Status:      model.StatusPendingApproval,
		CreatedBy:   "team-member",
	})
	router := newCampaignRouter(repo)

	rec := doJSON(t, router, http.MethodPost, "/api/campaigns/c1/reject",
		`{"reason":"budget too high","type":"resubmit","note":"narrow the audience"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	stored, _ := repo.GetByID("c1")
	if stored.Status != model.StatusRejected {
		t.Errorf("status = %s, want rejected", stored.Status)
	}
	if stored.ResubmissionNote != "narrow the audience" {
		t.Errorf("note = %q", stored.ResubmissionNote)
	}
}
