// internal/repository/campaign_repository.go
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mayfashion/marketing-backend/internal/apperrors"
	"github.com/mayfashion/marketing-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id string) (*model.Campaign, error)
	List(offset, limit int, status, createdBy string) ([]*model.Campaign, int, error)
	ListByStatus(status model.CampaignStatus) ([]*model.Campaign, error)
	Update(c *model.Campaign) error
	Delete(id string) error

	// Scheduler predicates
	FindDueToStart(now time.Time) ([]*model.Campaign, error)
	FindDueToComplete(now time.Time) ([]*model.Campaign, error)

	// Metric updates run as single UPDATE increments so concurrent writers
	// never lose counts.
	AddSendMetrics(id string, sent, delivered int) error
	IncrementOpened(id string) error
	IncrementClicked(id string) error

	SetAudienceSnapshot(id string, customerIDs []string) error
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, title, description, start_date, end_date,
	customer_segments, targeted_customer_ids, targeted_customer_count,
	email_subject, email_content, sms_content, template_name,
	status, created_by,
	submitted_at, approved_at, rejected_at, completed_at,
	rejection_reason, resubmission_note,
	sent, delivered, opened, clicked, conversions, revenue,
	created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.StartDate, &c.EndDate,
		pq.Array(&c.CustomerSegments), pq.Array(&c.TargetedCustomerIDs), &c.TargetedCustomerCount,
		&c.EmailSubject, &c.EmailContent, &c.SMSContent, &c.TemplateName,
		&c.Status, &c.CreatedBy,
		&c.SubmittedAt, &c.ApprovedAt, &c.RejectedAt, &c.CompletedAt,
		&c.RejectionReason, &c.ResubmissionNote,
		&c.Metrics.Sent, &c.Metrics.Delivered, &c.Metrics.Opened,
		&c.Metrics.Clicked, &c.Metrics.Conversions, &c.Metrics.Revenue,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = model.StatusDraft
	}
	c.CreatedAt = time.Now()

	query := `
        INSERT INTO campaigns (
            id, title, description, start_date, end_date,
            customer_segments, targeted_customer_ids, targeted_customer_count,
            email_subject, email_content, sms_content, template_name,
            status, created_by, created_at
        )
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
    `
	_, err := r.DB.Exec(query,
		c.ID, c.Title, c.Description, c.StartDate, c.EndDate,
		pq.Array(c.CustomerSegments), pq.Array(c.TargetedCustomerIDs), c.TargetedCustomerCount,
		c.EmailSubject, c.EmailContent, c.SMSContent, c.TemplateName,
		c.Status, c.CreatedBy, c.CreatedAt,
	)
	return err
}

func (r *CampaignRepository) GetByID(id string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1`
	c, err := scanCampaign(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

// Update persists every mutable field. Campaign mutation is last-write-wins
// at the row level; metric counters are excluded and only move through the
// increment methods below.
func (r *CampaignRepository) Update(c *model.Campaign) error {
	query := `
        UPDATE campaigns SET
            title=$1, description=$2, start_date=$3, end_date=$4,
            customer_segments=$5, targeted_customer_ids=$6, targeted_customer_count=$7,
            email_subject=$8, email_content=$9, sms_content=$10, template_name=$11,
            status=$12,
            submitted_at=$13, approved_at=$14, rejected_at=$15, completed_at=$16,
            rejection_reason=$17, resubmission_note=$18,
            updated_at=NOW()
        WHERE id=$19
    `
	res, err := r.DB.Exec(query,
		c.Title, c.Description, c.StartDate, c.EndDate,
		pq.Array(c.CustomerSegments), pq.Array(c.TargetedCustomerIDs), c.TargetedCustomerCount,
		c.EmailSubject, c.EmailContent, c.SMSContent, c.TemplateName,
		c.Status,
		c.SubmittedAt, c.ApprovedAt, c.RejectedAt, c.CompletedAt,
		c.RejectionReason, c.ResubmissionNote,
		c.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewCampaignNotFound(c.ID)
	}
	return nil
}

func (r *CampaignRepository) Delete(id string) error {
	res, err := r.DB.Exec(`DELETE FROM campaigns WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewCampaignNotFound(id)
	}
	return nil
}

func (r *CampaignRepository) List(offset, limit int, status, createdBy string) ([]*model.Campaign, int, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	args := []any{}
	argPos := 1

	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}
	if createdBy != "" {
		query += fmt.Sprintf(" AND created_by=$%d", argPos)
		args = append(args, createdBy)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY COALESCE(updated_at, created_at) DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
	countArgs := []any{}
	argPos = 1
	if status != "" {
		countQuery += fmt.Sprintf(" AND status=$%d", argPos)
		countArgs = append(countArgs, status)
		argPos++
	}
	if createdBy != "" {
		countQuery += fmt.Sprintf(" AND created_by=$%d", argPos)
		countArgs = append(countArgs, createdBy)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

func (r *CampaignRepository) ListByStatus(status model.CampaignStatus) ([]*model.Campaign, error) {
	return r.queryCampaigns(
		`SELECT `+campaignColumns+` FROM campaigns WHERE status=$1 ORDER BY COALESCE(updated_at, created_at) DESC`,
		string(status),
	)
}

func (r *CampaignRepository) FindDueToStart(now time.Time) ([]*model.Campaign, error) {
	return r.queryCampaigns(
		`SELECT `+campaignColumns+` FROM campaigns WHERE status=$1 AND start_date IS NOT NULL AND start_date <= $2`,
		string(model.StatusApproved), now,
	)
}

func (r *CampaignRepository) FindDueToComplete(now time.Time) ([]*model.Campaign, error) {
	return r.queryCampaigns(
		`SELECT `+campaignColumns+` FROM campaigns WHERE status=$1 AND end_date IS NOT NULL AND end_date <= $2`,
		string(model.StatusRunning), now,
	)
}

func (r *CampaignRepository) queryCampaigns(query string, args ...any) ([]*model.Campaign, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) AddSendMetrics(id string, sent, delivered int) error {
	query := `UPDATE campaigns SET sent = sent + $1, delivered = delivered + $2, updated_at=NOW() WHERE id=$3`
	_, err := r.DB.Exec(query, sent, delivered, id)
	return err
}

func (r *CampaignRepository) IncrementOpened(id string) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET opened = opened + 1, updated_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *CampaignRepository) IncrementClicked(id string) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET clicked = clicked + 1, updated_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *CampaignRepository) SetAudienceSnapshot(id string, customerIDs []string) error {
	query := `UPDATE campaigns SET targeted_customer_ids=$1, targeted_customer_count=$2, updated_at=NOW() WHERE id=$3`
	res, err := r.DB.Exec(query, pq.Array(customerIDs), len(customerIDs), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewCampaignNotFound(id)
	}
	return nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
