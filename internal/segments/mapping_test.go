package segments

import "testing"

func TestBuildFiltersGroupsByField(t *testing.T) {
	filters := BuildFilters([]string{"Loyal Customers", "Lapsed Customers", "Women"})

	if got := filters[FieldPurchaseFrequency]; len(got) != 2 {
		t.Errorf("frequency values = %v, want two", got)
	}
	if got := filters[FieldCategory]; len(got) != 1 || got[0] != "Womens" {
		t.Errorf("category values = %v, want [Womens]", got)
	}
	if _, ok := filters[FieldSpending]; ok {
		t.Error("spending must be absent when no spending label given")
	}
}

func TestBuildFiltersDropsUnknownLabels(t *testing.T) {
	filters := BuildFilters([]string{"Loyal Customers", "VIP Diamond Club"})
	if len(filters) != 1 {
		t.Errorf("filters = %v, want only the known label", filters)
	}

	if got := BuildFilters([]string{"Nothing Real"}); len(got) != 0 {
		t.Errorf("all-unknown labels must yield no filters, got %v", got)
	}
}

func TestLookup(t *testing.T) {
	f, ok := Lookup("High value customers")
	if !ok {
		t.Fatal("expected a mapping for High value customers")
	}
	if f.Field != FieldSpending || f.Value != "High Value Customer" {
		t.Errorf("filter = %+v", f)
	}

	if _, ok := Lookup("Unknown"); ok {
		t.Error("unknown label must not resolve")
	}
}

func TestLabelsCoverEveryMapping(t *testing.T) {
	labels := Labels()
	if len(labels) != 11 {
		t.Fatalf("labels = %d, want 11", len(labels))
	}
	for _, l := range labels {
		if _, ok := Lookup(l); !ok {
			t.Errorf("label %q does not round-trip through Lookup", l)
		}
	}
}
