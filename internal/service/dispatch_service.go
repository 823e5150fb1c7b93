// internal/service/dispatch_service.go
package service

import (
	"context"
	"log"

	"golang.org/x/time/rate"

	"github.com/mayfashion/marketing-backend/internal/apperrors"
	"github.com/mayfashion/marketing-backend/internal/metrics"
	"github.com/mayfashion/marketing-backend/internal/model"
	"github.com/mayfashion/marketing-backend/internal/provider"
	"github.com/mayfashion/marketing-backend/internal/repository"
	"github.com/mayfashion/marketing-backend/internal/tracking"
)

// DispatchService sends a campaign's messages to its resolved audience and
// writes engagement metrics back onto the campaign.
type DispatchService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Audience     *AudienceService
	Provider     provider.SendProvider

	// BaseURL is the public address baked into tracking pixels and links.
	BaseURL string
	// Limiter paces individual sends; nil means no delay.
	Limiter *rate.Limiter
}

// RecipientFailure records one per-recipient send error. Failures never
// abort the batch.
type RecipientFailure struct {
	CustomerID string `json:"customer_id"`
	Channel    string `json:"channel"`
	Error      string `json:"error"`
}

// DispatchResult summarizes one dispatch batch.
type DispatchResult struct {
	CampaignID      string             `json:"campaign_id"`
	TotalRecipients int                `json:"total_recipients"`
	EmailSent       int                `json:"email_sent"`
	EmailFailed     int                `json:"email_failed"`
	SMSSent         int                `json:"sms_sent"`
	SMSFailed       int                `json:"sms_failed"`
	Failures        []RecipientFailure `json:"failures,omitempty"`
}

// Sent is the total across channels.
func (r *DispatchResult) Sent() int { return r.EmailSent + r.SMSSent }

// Execute runs one dispatch batch for the campaign. The audience is the
// campaign's stored snapshot — dispatch never re-resolves segments, so the
// approver's preview and the send list stay identical. With no snapshot the
// batch fails with NoAudience and the campaign is left untouched.
func (s *DispatchService) Execute(ctx context.Context, campaign *model.Campaign) (*DispatchResult, error) {
	if !campaign.Dispatchable() {
		return nil, apperrors.NewInvalidTransition(campaign.ID, string(campaign.Status),
			"execute", "campaign must be approved or running")
	}
	if len(campaign.TargetedCustomerIDs) == 0 {
		return nil, apperrors.NewNoAudience(campaign.ID)
	}

	recipients, err := s.Audience.Enrich(campaign.TargetedCustomerIDs)
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{
		CampaignID:      campaign.ID,
		TotalRecipients: len(recipients),
	}

	if campaign.HasEmailContent() {
		s.sendEmailBatch(ctx, campaign, recipients, result)
	}
	if campaign.HasSMSContent() {
		s.sendSMSBatch(ctx, campaign, recipients, result)
	}

	sent := result.Sent()
	// Delivered mirrors sent; there is no bounce feedback from the provider.
	if err := s.CampaignRepo.AddSendMetrics(campaign.ID, sent, sent); err != nil {
		return result, apperrors.NewUpstream("metric update", err)
	}
	campaign.Metrics.Sent += sent
	campaign.Metrics.Delivered += sent

	if campaign.Status == model.StatusApproved {
		campaign.Status = model.StatusRunning
		if err := s.CampaignRepo.Update(campaign); err != nil {
			return result, apperrors.NewUpstream("status update", err)
		}
		metrics.CampaignsStarted.Inc()
	}

	log.Printf("📨 Dispatched campaign %s: %d email, %d sms, %d failed",
		campaign.ID, result.EmailSent, result.SMSSent, result.EmailFailed+result.SMSFailed)
	return result, nil
}

func (s *DispatchService) sendEmailBatch(ctx context.Context, c *model.Campaign, recipients []model.Recipient, result *DispatchResult) {
	for _, r := range recipients {
		if r.Email == "" {
			continue
		}
		html := tracking.Inject(c.EmailContent, s.BaseURL, c.ID, r.CustomerID)
		if err := s.Provider.SendEmail(ctx, r.Email, c.EmailSubject, html); err != nil {
			result.EmailFailed++
			result.Failures = append(result.Failures, RecipientFailure{
				CustomerID: r.CustomerID, Channel: "email", Error: err.Error(),
			})
			metrics.MessagesFailed.WithLabelValues("email").Inc()
			log.Printf("⚠️ email to customer %s failed: %v", r.CustomerID, err)
		} else {
			result.EmailSent++
			metrics.MessagesSent.WithLabelValues("email").Inc()
		}
		s.wait(ctx)
	}
}

func (s *DispatchService) sendSMSBatch(ctx context.Context, c *model.Campaign, recipients []model.Recipient, result *DispatchResult) {
	for _, r := range recipients {
		if r.Phone == "" {
			continue
		}
		if err := s.Provider.SendSMS(ctx, r.Phone, c.SMSContent); err != nil {
			result.SMSFailed++
			result.Failures = append(result.Failures, RecipientFailure{
				CustomerID: r.CustomerID, Channel: "sms", Error: err.Error(),
			})
			metrics.MessagesFailed.WithLabelValues("sms").Inc()
			log.Printf("⚠️ SMS to customer %s failed: %v", r.CustomerID, err)
		} else {
			result.SMSSent++
			metrics.MessagesSent.WithLabelValues("sms").Inc()
		}
		s.wait(ctx)
	}
}

// wait applies the inter-send delay that keeps the downstream provider
// within its rate limits.
func (s *DispatchService) wait(ctx context.Context) {
	if s.Limiter == nil {
		return
	}
	if err := s.Limiter.Wait(ctx); err != nil {
		log.Printf("⚠️ send pacing interrupted: %v", err)
	}
}
