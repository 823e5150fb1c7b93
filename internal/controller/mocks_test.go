package controller

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mayfashion/marketing-backend/internal/apperrors"
	"github.com/mayfashion/marketing-backend/internal/model"
	"github.com/mayfashion/marketing-backend/internal/repository"
)

// memCampaignRepo is the in-memory repository the handler tests run against.
type memCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[string]*model.Campaign
	nextID    int
}

func newMemCampaignRepo() *memCampaignRepo {
	return &memCampaignRepo{campaigns: map[string]*model.Campaign{}}
}

func (m *memCampaignRepo) put(c *model.Campaign) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.campaigns[c.ID] = &cp
}

func (m *memCampaignRepo) Create(c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		m.nextID++
		c.ID = fmt.Sprintf("cmp-%d", m.nextID)
	}
	c.CreatedAt = time.Now()
	cp := *c
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *memCampaignRepo) GetByID(id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, apperrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (m *memCampaignRepo) List(offset, limit int, status, createdBy string) ([]*model.Campaign, int, error) {
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
	total := len(out)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *memCampaignRepo) ListByStatus(status model.CampaignStatus) ([]*model.Campaign, error) {
	all, _, err := m.List(0, 1000, string(status), "")
	return all, err
}

func (m *memCampaignRepo) Update(c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.campaigns[c.ID]
	if !ok {
		return apperrors.NewCampaignNotFound(c.ID)
	}
	cp := *c
	cp.Metrics = stored.Metrics
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *memCampaignRepo) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[id]; !ok {
		return apperrors.NewCampaignNotFound(id)
	}
	delete(m.campaigns, id)
	return nil
}

func (m *memCampaignRepo) FindDueToStart(now time.Time) ([]*model.Campaign, error) {
	return nil, nil
}

func (m *memCampaignRepo) FindDueToComplete(now time.Time) ([]*model.Campaign, error) {
	return nil, nil
}

func (m *memCampaignRepo) AddSendMetrics(id string, sent, delivered int) error {
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

func (m *memCampaignRepo) IncrementOpened(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return apperrors.NewCampaignNotFound(id)
	}
	c.Metrics.Opened++
	return nil
}

func (m *memCampaignRepo) IncrementClicked(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return apperrors.NewCampaignNotFound(id)
	}
	c.Metrics.Clicked++
	return nil
}

func (m *memCampaignRepo) SetAudienceSnapshot(id string, customerIDs []string) error {
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

var _ repository.CampaignRepositoryInterface = (*memCampaignRepo)(nil)
