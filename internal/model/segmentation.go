// internal/model/segmentation.go
package model

import "time"

// Classification vocabularies. These values are stored verbatim in the
// customer_segmentation table and queried by the audience resolver, so the
// segment label mapping depends on them being exact.
const (
	FrequencyNew      = "New"
	FrequencyLoyal    = "Loyal"
	FrequencyLapsed   = "Lapsed"
	FrequencySeasonal = "Seasonal"

	SpendingHigh   = "High Value Customer"
	SpendingMedium = "Medium Value"
	SpendingLow    = "Low Value Customer"

	CategoryMens   = "Mens"
	CategoryWomens = "Womens"
	CategoryKids   = "Kids"
	CategoryFamily = "Family"
)

// SegmentationRecord is the stored classification tuple for one customer.
// Written once by the segmentation sync, read by the audience resolver.
type SegmentationRecord struct {
	CustomerID        string    `db:"customer_id" json:"customer_id"`
	PurchaseFrequency string    `db:"purchase_frequency" json:"purchase_frequency"`
	Spending          string    `db:"spending" json:"spending"`
	Category          string    `db:"category" json:"category"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	LastUpdated       time.Time `db:"last_updated" json:"last_updated"`
}
