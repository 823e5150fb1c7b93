// internal/model/campaign.go
package model

import "time"

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	StatusDraft           CampaignStatus = "draft"
	StatusPendingApproval CampaignStatus = "pending_approval"
	StatusApproved        CampaignStatus = "approved"
	StatusRunning         CampaignStatus = "running"
	StatusCompleted       CampaignStatus = "completed"
	StatusRejected        CampaignStatus = "rejected"
	StatusRejectedFinal   CampaignStatus = "rejected_final"
)

// RejectionKind distinguishes a rejection the team can fix and resubmit
// from a final one.
type RejectionKind string

const (
	RejectResubmit RejectionKind = "resubmit"
	RejectFinal    RejectionKind = "final"
)

// PerformanceMetrics are cumulative engagement counters for a campaign.
// They only ever go up.
type PerformanceMetrics struct {
	Sent        int     `json:"sent"`
	Delivered   int     `json:"delivered"`
	Opened      int     `json:"opened"`
	Clicked     int     `json:"clicked"`
	Conversions int     `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

type Campaign struct {
	ID          string `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`

	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`

	// CustomerSegments holds the human-facing segment labels picked at
	// creation time. TargetedCustomerIDs is the resolved audience snapshot;
	// once populated it is what dispatch sends to.
	CustomerSegments      []string `db:"customer_segments" json:"customer_segments"`
	TargetedCustomerIDs   []string `db:"targeted_customer_ids" json:"targeted_customer_ids"`
	TargetedCustomerCount int      `db:"targeted_customer_count" json:"targeted_customer_count"`

	EmailSubject string `db:"email_subject" json:"email_subject"`
	EmailContent string `db:"email_content" json:"email_content"`
	SMSContent   string `db:"sms_content" json:"sms_content"`
	TemplateName string `db:"template_name" json:"template_name"`

	Status    CampaignStatus `db:"status" json:"status"`
	CreatedBy string         `db:"created_by" json:"created_by"`

	SubmittedAt *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`
	ApprovedAt  *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	RejectedAt  *time.Time `db:"rejected_at" json:"rejected_at,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`

	RejectionReason  string `db:"rejection_reason" json:"rejection_reason,omitempty"`
	ResubmissionNote string `db:"resubmission_note" json:"resubmission_note,omitempty"`

	Metrics PerformanceMetrics `json:"performance_metrics"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// HasEmailContent reports whether the campaign carries an email message.
func (c *Campaign) HasEmailContent() bool {
	return c.EmailSubject != "" && c.EmailContent != ""
}

// HasSMSContent reports whether the campaign carries an SMS message.
func (c *Campaign) HasSMSContent() bool {
	return c.SMSContent != ""
}

// Dispatchable reports whether the dispatch engine accepts the campaign.
func (c *Campaign) Dispatchable() bool {
	return c.Status == StatusRunning || c.Status == StatusApproved
}

// ShouldStartNow is the approve-time check: a campaign with no start date,
// or one whose start date has already passed, begins running immediately.
func (c *Campaign) ShouldStartNow(now time.Time) bool {
	return c.StartDate == nil || !c.StartDate.After(now)
}
