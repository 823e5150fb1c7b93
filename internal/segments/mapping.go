// internal/segments/mapping.go
package segments

import "github.com/mayfashion/marketing-backend/internal/model"

// Filter dimension names. These are columns of the customer_segmentation
// table, so the values here must match the repository schema exactly.
const (
	FieldPurchaseFrequency = "purchase_frequency"
	FieldSpending          = "spending"
	FieldCategory          = "category"
)

// Filter is one (field, value) pair a segment label maps to.
type Filter struct {
	Field string
	Value string
}

// LabelNewCustomers additionally restricts the audience to customers with a
// transaction inside the recency window.
const LabelNewCustomers = "New Customers"

// mapping translates human-facing segment labels into classification
// filters. Labels absent from this table are silently ignored by the
// resolver.
var mapping = map[string]Filter{
	// Shopping frequency
	"New Customers":      {Field: FieldPurchaseFrequency, Value: model.FrequencyNew},
	"Loyal Customers":    {Field: FieldPurchaseFrequency, Value: model.FrequencyLoyal},
	"Lapsed Customers":   {Field: FieldPurchaseFrequency, Value: model.FrequencyLapsed},
	"Seasonal Customers": {Field: FieldPurchaseFrequency, Value: model.FrequencySeasonal},

	// Customer value
	"High value customers": {Field: FieldSpending, Value: model.SpendingHigh},
	"Medium Value":         {Field: FieldSpending, Value: model.SpendingMedium},
	"Low value customers":  {Field: FieldSpending, Value: model.SpendingLow},

	// Product preference
	"Men":    {Field: FieldCategory, Value: model.CategoryMens},
	"Women":  {Field: FieldCategory, Value: model.CategoryWomens},
	"Kids":   {Field: FieldCategory, Value: model.CategoryKids},
	"Family": {Field: FieldCategory, Value: model.CategoryFamily},
}

// Lookup returns the filter a label maps to, if any.
func Lookup(label string) (Filter, bool) {
	f, ok := mapping[label]
	return f, ok
}

// BuildFilters groups the mapped labels by field. Values within one field are
// ORed by the query, distinct fields are ANDed. Unknown labels are dropped.
func BuildFilters(labels []string) map[string][]string {
	filters := make(map[string][]string)
	for _, label := range labels {
		f, ok := mapping[label]
		if !ok {
			continue
		}
		filters[f.Field] = append(filters[f.Field], f.Value)
	}
	return filters
}

// Labels returns every known segment label.
func Labels() []string {
	out := make([]string, 0, len(mapping))
	for label := range mapping {
		out = append(out, label)
	}
	return out
}
