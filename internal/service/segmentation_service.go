// internal/service/segmentation_service.go
package service

import (
	"log"
	"strings"
	"time"

	"github.com/mayfashion/marketing-backend/internal/apperrors"
	"github.com/mayfashion/marketing-backend/internal/metrics"
	"github.com/mayfashion/marketing-backend/internal/model"
	"github.com/mayfashion/marketing-backend/internal/repository"
)

// Spending thresholds, minor-currency-unit agnostic.
const (
	highValueTotal = 50000
	highValueAvg   = 20000
	midValueTotal  = 10000
	midValueAvg    = 3000
)

// SegmentationService classifies newly observed customers from their raw
// transaction history.
type SegmentationService struct {
	SegmentationRepo repository.SegmentationRepositoryInterface
	TransactionRepo  repository.TransactionRepositoryInterface

	Now func() time.Time
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

func (s *SegmentationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Sync classifies every customer present in the orders source but absent
// from the segmentation store. Already-classified customers are never
// touched, so running it again with no new transactions adds nothing.
func (s *SegmentationService) Sync() (*SyncResult, error) {
	allIDs, err := s.TransactionRepo.DistinctCustomerIDs()
	if err != nil {
		return nil, apperrors.NewUpstream("orders scan", err)
	}

	existing, err := s.SegmentationRepo.ExistingCustomerIDs()
	if err != nil {
		return nil, apperrors.NewUpstream("segmentation scan", err)
	}

	result := &SyncResult{Total: len(allIDs)}
	records := []*model.SegmentationRecord{}
	now := s.now()

	for _, id := range allIDs {
		if existing[id] {
			continue
		}

		txs, err := s.TransactionRepo.ListByCustomer(id)
		if err != nil {
			return nil, apperrors.NewUpstream("orders fetch", err)
		}
		if len(txs) == 0 {
			// Observed id with no loadable transactions; not classifiable.
			result.Skipped++
			continue
		}

		records = append(records, &model.SegmentationRecord{
			CustomerID:        id,
			PurchaseFrequency: ClassifyFrequency(txs, now),
			Spending:          ClassifySpending(txs),
			Category:          ClassifyCategory(txs),
		})
	}

	added, err := s.SegmentationRepo.Insert(records)
	if err != nil {
		return nil, apperrors.NewUpstream("segmentation insert", err)
	}
	result.Added = added
	metrics.SegmentationRecordsAdded.Add(float64(added))

	if added > 0 {
		log.Printf("🔄 Segmentation sync: %d new customer(s) classified, %d skipped, %d total",
			result.Added, result.Skipped, result.Total)
	}
	return result, nil
}

// ClassifyFrequency derives the purchase-frequency tier. Transactions must be
// sorted most recent first.
func ClassifyFrequency(txs []model.Transaction, now time.Time) string {
	if len(txs) == 0 {
		return model.FrequencyNew
	}

	daysSinceLast := now.Sub(txs[0].OrderDate).Hours() / 24
	oldest := txs[len(txs)-1].OrderDate
	daysSinceFirst := now.Sub(oldest).Hours() / 24
	total := len(txs)

	switch {
	case total == 1 && daysSinceLast <= 30:
		return model.FrequencyNew
	case daysSinceLast > 180:
		return model.FrequencyLapsed
	case total >= 5 && daysSinceFirst > 90:
		return model.FrequencyLoyal
	}

	// Orders concentrated in a few calendar months suggest seasonal buying.
	months := map[time.Month]bool{}
	for _, t := range txs {
		months[t.OrderDate.Month()] = true
	}
	if len(months) <= 3 && total >= 3 {
		return model.FrequencySeasonal
	}
	return model.FrequencyNew
}

// ClassifySpending derives the spending tier from total and average
// transaction value.
func ClassifySpending(txs []model.Transaction) string {
	if len(txs) == 0 {
		return model.SpendingLow
	}

	var total float64
	for _, t := range txs {
		total += t.Amount
	}
	avg := total / float64(len(txs))

	switch {
	case total >= highValueTotal || avg >= highValueAvg:
		return model.SpendingHigh
	case total >= midValueTotal || avg >= midValueAvg:
		return model.SpendingMedium
	default:
		return model.SpendingLow
	}
}

// ClassifyCategory buckets transactions by category/gender signal. Customers
// spanning more than two buckets are Family; otherwise the most frequent
// bucket wins, first seen breaking ties.
func ClassifyCategory(txs []model.Transaction) string {
	counts := map[string]int{}
	order := []string{}

	bump := func(bucket string) {
		if counts[bucket] == 0 {
			order = append(order, bucket)
		}
		counts[bucket]++
	}

	for _, t := range txs {
		signal := t.Category
		if signal == "" {
			signal = t.Gender
		}
		if signal == "" {
			continue
		}
		bump(categoryBucket(signal))
	}

	if len(counts) > 2 {
		return model.CategoryFamily
	}
	if len(counts) == 0 {
		return model.CategoryFamily
	}

	best := order[0]
	for _, bucket := range order[1:] {
		if counts[bucket] > counts[best] {
			best = bucket
		}
	}
	return best
}

func categoryBucket(signal string) string {
	s := strings.ToLower(signal)
	switch {
	// "women"/"female" must be tested before "men"/"male" — both are
	// substrings of their counterparts.
	case strings.Contains(s, "women") || strings.Contains(s, "female"):
		return model.CategoryWomens
	case strings.Contains(s, "men") || strings.Contains(s, "male"):
		return model.CategoryMens
	case strings.Contains(s, "kid") || strings.Contains(s, "child"):
		return model.CategoryKids
	default:
		return model.CategoryFamily
	}
}
