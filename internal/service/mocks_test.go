package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mayfashion/marketing-backend/internal/apperrors"
	"github.com/mayfashion/marketing-backend/internal/model"
	"github.com/mayfashion/marketing-backend/internal/repository"
)

// ---- In-memory campaign repository ----

type mockCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[string]*model.Campaign
	nextID    int
}

func newMockCampaignRepo() *mockCampaignRepo {
	return &mockCampaignRepo{campaigns: map[string]*model.Campaign{}}
}

func (m *mockCampaignRepo) put(c *model.Campaign) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.campaigns[c.ID] = &cp
}

func (m *mockCampaignRepo) Create(c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		m.nextID++
		c.ID = fmt.Sprintf("cmp-%d", m.nextID)
	}
	if c.Status == "" {
		c.Status = model.StatusDraft
	}
	c.CreatedAt = time.Now()
	cp := *c
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *mockCampaignRepo) GetByID(id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, apperrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (m *mockCampaignRepo) List(offset, limit int, status, createdBy string) ([]*model.Campaign, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Campaign{}
	for _, c := range m.campaigns {
		if status != "" && string(c.Status) != status {
			continue
		}
		if createdBy != "" && c.CreatedBy != createdBy {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *mockCampaignRepo) ListByStatus(status model.CampaignStatus) ([]*model.Campaign, error) {
	all, _, err := m.List(0, 1000, string(status), "")
	return all, err
}

func (m *mockCampaignRepo) Update(c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.campaigns[c.ID]
	if !ok {
		return apperrors.NewCampaignNotFound(c.ID)
	}
	cp := *c
	cp.Metrics = stored.Metrics // counters move only through the increments
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *mockCampaignRepo) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[id]; !ok {
		return apperrors.NewCampaignNotFound(id)
	}
	delete(m.campaigns, id)
	return nil
}

func (m *mockCampaignRepo) FindDueToStart(now time.Time) ([]*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Campaign{}
	for _, c := range m.campaigns {
		if c.Status == model.StatusApproved && c.StartDate != nil && !c.StartDate.After(now) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCampaignRepo) FindDueToComplete(now time.Time) ([]*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Campaign{}
	for _, c := range m.campaigns {
		if c.Status == model.StatusRunning && c.EndDate != nil && !c.EndDate.After(now) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCampaignRepo) AddSendMetrics(id string, sent, delivered int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return apperrors.NewCampaignNotFound(id)
	}
	c.Metrics.Sent += sent
	c.Metrics.Delivered += delivered
	return nil
}

func (m *mockCampaignRepo) IncrementOpened(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return apperrors.NewCampaignNotFound(id)
	}
	c.Metrics.Opened++
	return nil
}

func (m *mockCampaignRepo) IncrementClicked(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return apperrors.NewCampaignNotFound(id)
	}
	c.Metrics.Clicked++
	return nil
}

func (m *mockCampaignRepo) SetAudienceSnapshot(id string, customerIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return apperrors.NewCampaignNotFound(id)
	}
	c.TargetedCustomerIDs = append([]string{}, customerIDs...)
	c.TargetedCustomerCount = len(customerIDs)
	return nil
}

var _ repository.CampaignRepositoryInterface = (*mockCampaignRepo)(nil)

// ---- In-memory segmentation repository ----

type mockSegmentationRepo struct {
	records []*model.SegmentationRecord
}

func (m *mockSegmentationRepo) fieldValue(r *model.SegmentationRecord, field string) string {
	switch field {
	case "purchase_frequency":
		return r.PurchaseFrequency
	case "spending":
		return r.Spending
	case "category":
		return r.Category
	}
	return ""
}

func (m *mockSegmentationRepo) FindCustomerIDs(filters map[string][]string) ([]string, error) {
	ids := []string{}
	for _, r := range m.records {
		match := true
		for field, values := range filters {
			got := m.fieldValue(r, field)
			in := false
			for _, v := range values {
				if got == v {
					in = true
					break
				}
			}
			if !in {
				match = false
				break
			}
		}
		if match {
			ids = append(ids, r.CustomerID)
		}
	}
	return ids, nil
}

func (m *mockSegmentationRepo) CountByFilter(field, value string) (int, error) {
	count := 0
	for _, r := range m.records {
		if m.fieldValue(r, field) == value {
			count++
		}
	}
	return count, nil
}

func (m *mockSegmentationRepo) ExistingCustomerIDs() (map[string]bool, error) {
	out := map[string]bool{}
	for _, r := range m.records {
		out[r.CustomerID] = true
	}
	return out, nil
}

func (m *mockSegmentationRepo) Insert(records []*model.SegmentationRecord) (int, error) {
	existing, _ := m.ExistingCustomerIDs()
	added := 0
	for _, r := range records {
		if existing[r.CustomerID] {
			continue
		}
		m.records = append(m.records, r)
		added++
	}
	return added, nil
}

func (m *mockSegmentationRepo) Stats() (*repository.SegmentationStats, error) {
	stats := &repository.SegmentationStats{
		TotalCustomers: len(m.records),
		ByFrequency:    map[string]int{},
		BySpending:     map[string]int{},
		ByCategory:     map[string]int{},
	}
	for _, r := range m.records {
		stats.ByFrequency[r.PurchaseFrequency]++
		stats.BySpending[r.Spending]++
		stats.ByCategory[r.Category]++
	}
	return stats, nil
}

var _ repository.SegmentationRepositoryInterface = (*mockSegmentationRepo)(nil)

// ---- In-memory transaction repository ----

type mockTransactionRepo struct {
	txs []model.Transaction
}

func (m *mockTransactionRepo) DistinctCustomerIDs() ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, t := range m.txs {
		if !seen[t.CustomerID] {
			seen[t.CustomerID] = true
			out = append(out, t.CustomerID)
		}
	}
	return out, nil
}

func (m *mockTransactionRepo) ListByCustomer(customerID string) ([]model.Transaction, error) {
	out := []model.Transaction{}
	for _, t := range m.txs {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}

func (m *mockTransactionRepo) CustomerIDsSince(cutoff time.Time) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, t := range m.txs {
		if !t.OrderDate.Before(cutoff) && !seen[t.CustomerID] {
			seen[t.CustomerID] = true
			out = append(out, t.CustomerID)
		}
	}
	return out, nil
}

func (m *mockTransactionRepo) ContactsFor(customerIDs []string) (map[string]model.Contact, error) {
	out := map[string]model.Contact{}
	for _, id := range customerIDs {
		txs, _ := m.ListByCustomer(id)
		if len(txs) == 0 {
			continue
		}
		var c model.Contact
		for _, t := range txs { // newest first; keep first non-empty per field
			if c.Name == "" {
				c.Name = t.CustomerName
			}
			if c.Email == "" {
				c.Email = t.Email
			}
			if c.Phone == "" {
				c.Phone = t.Phone
			}
		}
		out[id] = c
	}
	return out, nil
}

var _ repository.TransactionRepositoryInterface = (*mockTransactionRepo)(nil)

// ---- Recording send provider ----

type sentMessage struct {
	To      string
	Subject string
	Body    string
}

type recordingProvider struct {
	mu        sync.Mutex
	Emails    []sentMessage
	SMS       []sentMessage
	FailEmail map[string]bool
	FailSMS   map[string]bool
}

func (p *recordingProvider) SendEmail(ctx context.Context, to, subject, html string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailEmail[to] {
		return fmt.Errorf("provider rejected email to %s", to)
	}
	p.Emails = append(p.Emails, sentMessage{To: to, Subject: subject, Body: html})
	return nil
}

func (p *recordingProvider) SendSMS(ctx context.Context, to, body string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailSMS[to] {
		return fmt.Errorf("provider rejected SMS to %s", to)
	}
	p.SMS = append(p.SMS, sentMessage{To: to, Body: body})
	return nil
}
