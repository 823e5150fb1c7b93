// internal/service/audience_service.go
package service

import (
	"time"

	"github.com/mayfashion/marketing-backend/internal/apperrors"
	"github.com/mayfashion/marketing-backend/internal/model"
	"github.com/mayfashion/marketing-backend/internal/repository"
	"github.com/mayfashion/marketing-backend/internal/segments"
)

// DefaultRecencyDays is the lookback window applied to the "New Customers"
// label when the caller does not supply one.
const DefaultRecencyDays = 14

// AudienceService turns segment labels into concrete recipient lists.
type AudienceService struct {
	SegmentationRepo repository.SegmentationRepositoryInterface
	TransactionRepo  repository.TransactionRepositoryInterface

	// Now is swappable in tests; defaults to time.Now.
	Now func() time.Time
}

// PreviewResult is the per-label audience breakdown shown before a campaign
// commits to its snapshot.
type PreviewResult struct {
	Count     int            `json:"count"`
	Breakdown map[string]int `json:"breakdown"`
}

func (s *AudienceService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Resolve maps the labels to classification filters, runs the combined
// filter, applies the recency restriction for "New Customers", and enriches
// the matches with contact data. Unknown labels are dropped without error;
// an empty label list resolves to an empty audience.
func (s *AudienceService) Resolve(labels []string, recencyDays int) ([]model.Recipient, error) {
	filters := segments.BuildFilters(labels)
	if len(filters) == 0 {
		return []model.Recipient{}, nil
	}

	ids, err := s.SegmentationRepo.FindCustomerIDs(filters)
	if err != nil {
		return nil, apperrors.NewUpstream("segmentation query", err)
	}

	if containsLabel(labels, segments.LabelNewCustomers) {
		if recencyDays <= 0 {
			recencyDays = DefaultRecencyDays
		}
		cutoff := s.now().AddDate(0, 0, -recencyDays)
		recent, err := s.TransactionRepo.CustomerIDsSince(cutoff)
		if err != nil {
			return nil, apperrors.NewUpstream("recency query", err)
		}
		ids = intersect(ids, recent)
	}

	return s.Enrich(ids)
}

// Enrich joins contact data onto customer ids. A customer the orders source
// no longer knows still appears, with empty contact fields; dispatch counts
// them but cannot deliver to them.
func (s *AudienceService) Enrich(customerIDs []string) ([]model.Recipient, error) {
	contacts, err := s.TransactionRepo.ContactsFor(customerIDs)
	if err != nil {
		return nil, apperrors.NewUpstream("contact join", err)
	}

	recipients := make([]model.Recipient, 0, len(customerIDs))
	for _, id := range customerIDs {
		c := contacts[id]
		recipients = append(recipients, model.Recipient{
			CustomerID: id,
			Name:       c.Name,
			Email:      c.Email,
			Phone:      c.Phone,
		})
	}
	return recipients, nil
}

// PreviewCounts returns the total matching the combined filter plus a
// per-label count, without fetching contact data.
func (s *AudienceService) PreviewCounts(labels []string) (*PreviewResult, error) {
	result := &PreviewResult{Breakdown: map[string]int{}}

	filters := segments.BuildFilters(labels)
	if len(filters) == 0 {
		return result, nil
	}

	ids, err := s.SegmentationRepo.FindCustomerIDs(filters)
	if err != nil {
		return nil, apperrors.NewUpstream("segmentation query", err)
	}
	result.Count = len(ids)

	for _, label := range labels {
		f, ok := segments.Lookup(label)
		if !ok {
			continue
		}
		count, err := s.SegmentationRepo.CountByFilter(f.Field, f.Value)
		if err != nil {
			return nil, apperrors.NewUpstream("segmentation count", err)
		}
		result.Breakdown[label] = count
	}

	return result, nil
}

func containsLabel(labels []string, target string) bool {
	for _, l := range labels {
		if l == target {
			return true
		}
	}
	return false
}

func intersect(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, id := range b {
		set[id] = true
	}
	out := []string{}
	for _, id := range a {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}
