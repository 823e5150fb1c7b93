// internal/service/lifecycle_service.go
package service

import (
	"context"
	"time"

	"github.com/mayfashion/marketing-backend/internal/apperrors"
	"github.com/mayfashion/marketing-backend/internal/metrics"
	"github.com/mayfashion/marketing-backend/internal/model"
	"github.com/mayfashion/marketing-backend/internal/repository"
)

// LifecycleService owns the campaign status model and its transitions.
// Every operation loads the campaign, checks the edge, mutates the single
// row, and persists it.
type LifecycleService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Dispatch     *DispatchService
	Audience     *AudienceService

	Now func() time.Time
}

func (s *LifecycleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Submit moves a campaign into pending_approval. Title and description are
// required. Accepted from draft and from either rejected state; terminal
// enforcement of rejected_final is a consumer policy, not blocked here.
func (s *LifecycleService) Submit(id string) (*model.Campaign, error) {
	c, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	switch c.Status {
	case model.StatusDraft, model.StatusRejected, model.StatusRejectedFinal, model.StatusPendingApproval:
	default:
		return nil, apperrors.NewInvalidTransition(id, string(c.Status), "submit",
			"only draft or rejected campaigns can be submitted")
	}

	if c.Title == "" || c.Description == "" {
		return nil, apperrors.NewValidation("title and description are required for submission")
	}

	c.Status = model.StatusPendingApproval
	if c.SubmittedAt == nil {
		now := s.now()
		c.SubmittedAt = &now
	}

	if err := s.CampaignRepo.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Approve accepts a pending campaign. If its start date is unset or already
// past it begins running immediately and the dispatch engine is invoked
// synchronously; otherwise it waits for the scheduler in approved.
func (s *LifecycleService) Approve(ctx context.Context, id string) (*model.Campaign, *DispatchResult, error) {
	c, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}

	if c.Status != model.StatusPendingApproval {
		return nil, nil, apperrors.NewInvalidTransition(id, string(c.Status), "approve",
			"only pending_approval campaigns can be approved")
	}

	now := s.now()
	c.Status = model.StatusApproved
	if c.ApprovedAt == nil {
		c.ApprovedAt = &now
	}
	if err := s.CampaignRepo.Update(c); err != nil {
		return nil, nil, err
	}

	if !c.ShouldStartNow(now) {
		return c, nil, nil
	}

	result, err := s.Dispatch.Execute(ctx, c)
	if err != nil {
		// Dispatch failed wholesale; the campaign stays approved and the
		// error goes to the caller.
		return c, nil, err
	}
	return c, result, nil
}

// Start moves an approved campaign to running. Unlike the approve-time fast
// path, the explicit start requires both dates to be present.
func (s *LifecycleService) Start(id string) (*model.Campaign, error) {
	c, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if c.Status != model.StatusApproved {
		return nil, apperrors.NewInvalidTransition(id, string(c.Status), "start",
			"only approved campaigns can be started")
	}
	if c.StartDate == nil || c.EndDate == nil {
		return nil, apperrors.NewInvalidTransition(id, string(c.Status), "start",
			"start and end dates must be set")
	}

	c.Status = model.StatusRunning
	if err := s.CampaignRepo.Update(c); err != nil {
		return nil, err
	}
	metrics.CampaignsStarted.Inc()
	return c, nil
}

// Complete finishes a running (or still-approved) campaign.
func (s *LifecycleService) Complete(id string) (*model.Campaign, error) {
	c, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if c.Status != model.StatusRunning && c.Status != model.StatusApproved {
		return nil, apperrors.NewInvalidTransition(id, string(c.Status), "complete",
			"only running or approved campaigns can be completed")
	}

	c.Status = model.StatusCompleted
	if c.CompletedAt == nil {
		now := s.now()
		c.CompletedAt = &now
	}
	if err := s.CampaignRepo.Update(c); err != nil {
		return nil, err
	}
	metrics.CampaignsCompleted.Inc()
	return c, nil
}

// Reject declines a pending campaign. kind=resubmit leaves the door open for
// the team to edit and submit again; kind=final is terminal by policy.
func (s *LifecycleService) Reject(id, reason string, kind model.RejectionKind, note string) (*model.Campaign, error) {
	c, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if c.Status != model.StatusPendingApproval {
		return nil, apperrors.NewInvalidTransition(id, string(c.Status), "reject",
			"only pending_approval campaigns can be rejected")
	}

	if c.RejectedAt == nil {
		now := s.now()
		c.RejectedAt = &now
	}
	c.RejectionReason = reason

	switch kind {
	case model.RejectFinal:
		c.Status = model.StatusRejectedFinal
	case model.RejectResubmit, "":
		c.Status = model.StatusRejected
		c.ResubmissionNote = note
	default:
		return nil, apperrors.NewValidation("unknown rejection type %q", kind)
	}

	if err := s.CampaignRepo.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Execute runs a dispatch batch on demand for an approved or running
// campaign.
func (s *LifecycleService) Execute(ctx context.Context, id string) (*DispatchResult, error) {
	c, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.Dispatch.Execute(ctx, c)
}

// ResolveNow re-resolves the campaign's segments against the live
// segmentation store and overwrites the audience snapshot. This is the only
// path that refreshes a populated snapshot; dispatch always sends to the
// stored one.
func (s *LifecycleService) ResolveNow(id string, recencyDays int) (*model.Campaign, []model.Recipient, error) {
	c, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}

	recipients, err := s.Audience.Resolve(c.CustomerSegments, recencyDays)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]string, len(recipients))
	for i, r := range recipients {
		ids[i] = r.CustomerID
	}
	if err := s.CampaignRepo.SetAudienceSnapshot(id, ids); err != nil {
		return nil, nil, err
	}

	c.TargetedCustomerIDs = ids
	c.TargetedCustomerCount = len(ids)
	return c, recipients, nil
}
