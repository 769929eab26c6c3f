package sync

import (
	"errors"
	"testing"

	"tripledger/internal/core"

	"github.com/shopspring/decimal"
)

func tripSourceRow(sheet, rangeText, description string, comment *string) spendingRow {
	return spendingRow{
		id:          core.PurchaseID(sheet, 0),
		sheetName:   sheet,
		rangeText:   rangeText,
		amount:      decimal.NewFromInt(100),
		category:    "Travel",
		description: description,
		comment:     comment,
	}
}

func strptr(s string) *string { return &s }

func TestInferTrips_SingleTrip(t *testing.T) {
	rows := []spendingRow{
		tripSourceRow("Spending 6/24", "6/1/24-6/5/24", "Hawaii Trip", strptr("fun")),
	}
	trips, err := InferTrips(rows)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("got %d trips, want 1", len(trips))
	}
	trip := trips[0]
	if trip.Name != "Hawaii" {
		t.Fatalf("name = %q", trip.Name)
	}
	if trip.StartDate.String() != "2024-06-01" || trip.EndDate.String() != "2024-06-05" {
		t.Fatalf("window = %s..%s", trip.StartDate, trip.EndDate)
	}
	if trip.Comment == nil || *trip.Comment != "fun" {
		t.Fatalf("comment = %v", trip.Comment)
	}
	if trip.ID != core.TripID("Hawaii", core.NewDate(2024, 6, 1), core.NewDate(2024, 6, 5)) {
		t.Fatal("trip ID not derived from natural key")
	}
}

func TestInferTrips_GroupsByNaturalKey(t *testing.T) {
	rows := []spendingRow{
		tripSourceRow("Spending 6/24", "6/1/24-6/5/24", "Hawaii flights", strptr("booked early")),
		tripSourceRow("Spending 6/24", "6/1/24-6/5/24", "Hawaii hotel", strptr("ocean view")),
		tripSourceRow("Spending 6/24", "6/1/24-6/5/24", "Hawaii hotel", strptr("booked early")),
		tripSourceRow("Spending 7/24", "7/10/24-7/12/24", "Alaska cruise", nil),
	}
	trips, err := InferTrips(rows)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("got %d trips, want 2", len(trips))
	}
	if trips[0].Name != "Hawaii" || trips[1].Name != "Alaska" {
		t.Fatalf("order = %s, %s", trips[0].Name, trips[1].Name)
	}
	// Comments dedupe in first-appearance order.
	if trips[0].Comment == nil || *trips[0].Comment != "booked early | ocean view" {
		t.Fatalf("comment = %v", trips[0].Comment)
	}
	if trips[1].Comment != nil {
		t.Fatalf("alaska comment = %v", trips[1].Comment)
	}
}

func TestInferTrips_NoTripRows(t *testing.T) {
	rows := []spendingRow{
		{sheetName: "Spending 1/24", date: core.NewDate(2024, 1, 5), description: "Groceries"},
	}
	trips, err := InferTrips(rows)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if len(trips) != 0 {
		t.Fatalf("expected no trips, got %d", len(trips))
	}
}

func TestInferTrips_ReversedRange(t *testing.T) {
	rows := []spendingRow{
		tripSourceRow("Spending 6/24", "6/5/24-6/1/24", "Hawaii Trip", nil),
	}
	_, err := InferTrips(rows)
	if err == nil {
		t.Fatal("expected error for start date after end date")
	}
	if !errors.Is(err, core.ErrInvalidDateOrder) {
		t.Fatalf("err = %v, want ErrInvalidDateOrder", err)
	}
}

func TestInferTrips_BadRangeDates(t *testing.T) {
	rows := []spendingRow{
		tripSourceRow("Spending 6/24", "6/1/24-notadate", "Hawaii Trip", nil),
	}
	if _, err := InferTrips(rows); err == nil {
		t.Fatal("expected error for malformed range end")
	}
}
