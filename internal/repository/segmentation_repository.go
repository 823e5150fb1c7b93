// internal/repository/segmentation_repository.go
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mayfashion/marketing-backend/internal/model"
	"github.com/mayfashion/marketing-backend/internal/segments"
)

// SegmentationRepositoryInterface is the read/write surface of the
// customer_segmentation table.
type SegmentationRepositoryInterface interface {
	// FindCustomerIDs runs the combined segment filter: values within one
	// field are ORed, distinct fields are ANDed.
	FindCustomerIDs(filters map[string][]string) ([]string, error)
	CountByFilter(field, value string) (int, error)
	ExistingCustomerIDs() (map[string]bool, error)
	Insert(records []*model.SegmentationRecord) (int, error)
	Stats() (*SegmentationStats, error)
}

// SegmentationStats is the distribution of classifications across all
// segmented customers.
type SegmentationStats struct {
	TotalCustomers int            `json:"total_customers"`
	ByFrequency    map[string]int `json:"by_frequency"`
	BySpending     map[string]int `json:"by_spending"`
	ByCategory     map[string]int `json:"by_category"`
}

type SegmentationRepository struct {
	DB *sql.DB
}

// filterColumns whitelists the columns segment filters may touch. Filter
// field names come from the static label mapping, but the query is built
// dynamically, so guard anyway.
var filterColumns = map[string]bool{
	segments.FieldPurchaseFrequency: true,
	segments.FieldSpending:          true,
	segments.FieldCategory:          true,
}

func (r *SegmentationRepository) FindCustomerIDs(filters map[string][]string) ([]string, error) {
	query := `SELECT customer_id FROM customer_segmentation WHERE 1=1`
	args := []any{}
	argPos := 1

	for field, values := range filters {
		if !filterColumns[field] || len(values) == 0 {
			continue
		}
		query += fmt.Sprintf(" AND %s = ANY($%d)", field, argPos)
		args = append(args, pq.Array(values))
		argPos++
	}

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SegmentationRepository) CountByFilter(field, value string) (int, error) {
	if !filterColumns[field] {
		return 0, fmt.Errorf("unknown segmentation field %q", field)
	}
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM customer_segmentation WHERE %s = $1`, field)
	err := r.DB.QueryRow(query, value).Scan(&count)
	return count, err
}

func (r *SegmentationRepository) ExistingCustomerIDs() (map[string]bool, error) {
	rows, err := r.DB.Query(`SELECT customer_id FROM customer_segmentation`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

// Insert writes new segmentation records. ON CONFLICT DO NOTHING keeps the
// sync idempotent: a customer classified once stays classified.
func (r *SegmentationRepository) Insert(records []*model.SegmentationRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	query := `
        INSERT INTO customer_segmentation
            (customer_id, purchase_frequency, spending, category, created_at, last_updated)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (customer_id) DO NOTHING
    `
	inserted := 0
	now := time.Now()
	for _, rec := range records {
		res, err := r.DB.Exec(query,
			rec.CustomerID, rec.PurchaseFrequency, rec.Spending, rec.Category, now, now)
		if err != nil {
			return inserted, err
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func (r *SegmentationRepository) Stats() (*SegmentationStats, error) {
	stats := &SegmentationStats{
		ByFrequency: map[string]int{},
		BySpending:  map[string]int{},
		ByCategory:  map[string]int{},
	}

	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM customer_segmentation`).Scan(&stats.TotalCustomers); err != nil {
		return nil, err
	}

	for field, dest := range map[string]map[string]int{
		segments.FieldPurchaseFrequency: stats.ByFrequency,
		segments.FieldSpending:          stats.BySpending,
		segments.FieldCategory:          stats.ByCategory,
	} {
		query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM customer_segmentation GROUP BY %s`, field, field)
		rows, err := r.DB.Query(query)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var value string
			var count int
			if err := rows.Scan(&value, &count); err != nil {
				rows.Close()
				return nil, err
			}
			dest[value] = count
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return stats, nil
}

var _ SegmentationRepositoryInterface = (*SegmentationRepository)(nil)
