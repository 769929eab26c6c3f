package storage

import (
	"reflect"
	"testing"

	"tripledger/internal/core"
)

func datePtr(y, m, d int) *core.Date {
	dt := core.NewDate(y, m, d)
	return &dt
}

func TestPurchaseWhere_Empty(t *testing.T) {
	w := purchaseWhere(PurchaseFilter{})
	if w.sql() != "" {
		t.Fatalf("sql = %q", w.sql())
	}
	if len(w.args) != 0 {
		t.Fatalf("args = %v", w.args)
	}
}

func TestPurchaseWhere_AllFilters(t *testing.T) {
	trip := "abc123"
	w := purchaseWhere(PurchaseFilter{
		Categories:   []string{"Groceries", "Out"},
		Descriptions: []string{"Coffee"},
		StartDate:    datePtr(2024, 1, 1),
		EndDate:      datePtr(2024, 1, 31),
		TripID:       &trip,
	})
	want := " WHERE category IN (?, ?) AND description IN (?) AND date >= ? AND date <= ? AND trip_id = ?"
	if w.sql() != want {
		t.Fatalf("sql = %q, want %q", w.sql(), want)
	}
	wantArgs := []any{"Groceries", "Out", "Coffee", "2024-01-01", "2024-01-31", "abc123"}
	if !reflect.DeepEqual(w.args, wantArgs) {
		t.Fatalf("args = %v, want %v", w.args, wantArgs)
	}
}

func TestPurchaseWhere_OneSidedRange(t *testing.T) {
	w := purchaseWhere(PurchaseFilter{StartDate: datePtr(2024, 6, 1)})
	if w.sql() != " WHERE date >= ?" {
		t.Fatalf("sql = %q", w.sql())
	}
	w = purchaseWhere(PurchaseFilter{EndDate: datePtr(2024, 6, 30)})
	if w.sql() != " WHERE date <= ?" {
		t.Fatalf("sql = %q", w.sql())
	}
}

func TestTripWhere(t *testing.T) {
	w := tripWhere(TripFilter{
		Names:     []string{"Hawaii"},
		StartDate: datePtr(2024, 1, 1),
		EndDate:   datePtr(2024, 12, 31),
	})
	want := " WHERE name IN (?) AND start_date >= ? AND start_date <= ?"
	if w.sql() != want {
		t.Fatalf("sql = %q, want %q", w.sql(), want)
	}
}
