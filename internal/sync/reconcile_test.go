package sync

import (
	"context"
	"testing"

	"tripledger/internal/core"
	"tripledger/internal/sheets/memory"
)

func hawaiiTrip() core.Trip {
	return core.Trip{
		ID:        core.TripID("Hawaii", core.NewDate(2024, 6, 1), core.NewDate(2024, 6, 5)),
		Name:      "Hawaii",
		StartDate: core.NewDate(2024, 6, 1),
		EndDate:   core.NewDate(2024, 6, 5),
	}
}

func TestLinkTripPurchases(t *testing.T) {
	store := memory.New()
	store.SetRange("Hawaii Trip Spending 6/24!A1:E", [][]string{
		{"Date", "Amount", "Category", "Description", "Comment"},
		{"6/3/24", "$45.00", "Food", "Luau"},
		{"7/1/24", "$20.00", "Food", "Airport snack"},
	})

	purchases, err := linkTripPurchases(context.Background(), store,
		[]string{"Hawaii Trip Spending 6/24!A1:E"}, []core.Trip{hawaiiTrip()})
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if len(purchases) != 2 {
		t.Fatalf("got %d purchases", len(purchases))
	}

	// 6/3 falls inside the trip window, 7/1 does not.
	if purchases[0].TripID == nil || *purchases[0].TripID != hawaiiTrip().ID {
		t.Fatalf("first purchase trip = %v", purchases[0].TripID)
	}
	if purchases[1].TripID != nil {
		t.Fatalf("second purchase should have nil trip, got %v", *purchases[1].TripID)
	}
	if purchases[0].ID != core.PurchaseID("Hawaii Trip Spending 6/24", 0) {
		t.Fatal("purchase ID not keyed by sheet and row index")
	}
}

func TestLinkTripPurchases_FirstMatchWins(t *testing.T) {
	overlapping := []core.Trip{
		{
			ID:        core.TripID("Hawaii", core.NewDate(2024, 6, 1), core.NewDate(2024, 6, 5)),
			Name:      "Hawaii",
			StartDate: core.NewDate(2024, 6, 1),
			EndDate:   core.NewDate(2024, 6, 5),
		},
		{
			ID:        core.TripID("Hawaii", core.NewDate(2024, 6, 2), core.NewDate(2024, 6, 9)),
			Name:      "Hawaii",
			StartDate: core.NewDate(2024, 6, 2),
			EndDate:   core.NewDate(2024, 6, 9),
		},
	}
	store := memory.New()
	store.SetRange("Hawaii Trip 6/24!A1:E", [][]string{
		{"Date", "Amount", "Category", "Description"},
		{"6/3/24", "$10.00", "Food", "Poke"},
	})

	purchases, err := linkTripPurchases(context.Background(), store,
		[]string{"Hawaii Trip 6/24!A1:E"}, overlapping)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if purchases[0].TripID == nil || *purchases[0].TripID != overlapping[0].ID {
		t.Fatal("overlapping windows must resolve to the first trip in inferred order")
	}
}

func TestBuildTotals(t *testing.T) {
	store := memory.New()
	store.SetRange("Spending 1/24!F2:I9", [][]string{
		{"TOTALS", "Amount", "Progress", "Budgeted"},
		{"Monthly", "$1,500.00", "75%", "$2,000.00"},
		{"Groceries", "$400.00", "80%", "$500.00"},
	})

	totals, err := buildTotals(context.Background(), store, []string{"Spending 1/24!F2:I9"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("got %d totals", len(totals))
	}
	first := totals[0]
	if first.Date.String() != "2024-01-01" {
		t.Fatalf("date = %s, want first of month", first.Date)
	}
	if first.Type != "Monthly" || first.Amount.String() != "1500" {
		t.Fatalf("total = %+v", first)
	}
	if first.Progress.String() != "0.75" || first.Budgeted.String() != "2000" {
		t.Fatalf("total = %+v", first)
	}
	if first.TripID != nil {
		t.Fatal("monthly total should carry no trip reference")
	}
	if first.ID != core.TotalID("Spending 1/24", "Monthly", "") {
		t.Fatal("total ID not derived from sheet and type")
	}
}

func TestBuildTripTotals(t *testing.T) {
	trip := hawaiiTrip()
	store := memory.New()
	store.SetRange("Hawaii Trip Spending 6/24!F2:G8", [][]string{
		{"TOTALS", "Amount"},
		{"Food", "$300.00"},
		{"Lodging", "$900.00"},
	})

	totals, err := buildTripTotals(context.Background(), store,
		[]string{"Hawaii Trip Spending 6/24!F2:G8"}, []core.Trip{trip})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("got %d trip totals", len(totals))
	}
	for _, total := range totals {
		if total.TripID == nil || *total.TripID != trip.ID {
			t.Fatalf("trip total not stamped with trip id: %+v", total)
		}
		if total.Date.String() != "2024-06-01" {
			t.Fatalf("trip total date = %s, want trip start", total.Date)
		}
		if !total.Progress.IsZero() || !total.Budgeted.IsZero() {
			t.Fatalf("trip total should carry zero sentinels: %+v", total)
		}
	}
	if totals[0].ID != core.TotalID("Hawaii Trip Spending 6/24", "Food", "Hawaii") {
		t.Fatal("trip total ID not qualified by trip name")
	}
}

// A totals sheet whose derived name matches no trip is skipped, not fatal.
func TestBuildTripTotals_UnknownTripSkipsRange(t *testing.T) {
	store := memory.New()
	store.SetRange("Atlantis Trip 6/24!F2:G8", [][]string{
		{"TOTALS", "Amount"},
		{"Food", "$10.00"},
	})

	totals, err := buildTripTotals(context.Background(), store,
		[]string{"Atlantis Trip 6/24!F2:G8"}, []core.Trip{hawaiiTrip()})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(totals) != 0 {
		t.Fatalf("expected skipped range, got %+v", totals)
	}
}

func TestRegularPurchases_ExcludesTripSourceRows(t *testing.T) {
	rows := []spendingRow{
		{id: "a", date: core.NewDate(2024, 1, 5), description: "Groceries"},
		{id: "b", rangeText: "6/1/24-6/5/24", description: "Hawaii Trip"},
		{id: "c", date: core.NewDate(2024, 1, 6), description: "Coffee"},
	}
	purchases := regularPurchases(rows)
	if len(purchases) != 2 {
		t.Fatalf("got %d purchases", len(purchases))
	}
	if purchases[0].ID != "a" || purchases[1].ID != "c" {
		t.Fatalf("purchases = %+v", purchases)
	}
}
