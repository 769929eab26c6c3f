package core

import "testing"

func TestIDsAreDeterministic(t *testing.T) {
	if PurchaseID("Spending 1/24", 0) != PurchaseID("Spending 1/24", 0) {
		t.Fatal("purchase IDs differ for identical inputs")
	}
	if PurchaseID("Spending 1/24", 0) == PurchaseID("Spending 1/24", 1) {
		t.Fatal("purchase IDs collide across row indexes")
	}
	if PurchaseID("Spending 1/24", 0) == PurchaseID("Spending 2/24", 0) {
		t.Fatal("purchase IDs collide across sheets")
	}

	start, end := NewDate(2024, 6, 1), NewDate(2024, 6, 5)
	if TripID("Hawaii", start, end) != TripID("Hawaii", start, end) {
		t.Fatal("trip IDs differ for identical inputs")
	}
	if TripID("Hawaii", start, end) == TripID("Alaska", start, end) {
		t.Fatal("trip IDs collide across names")
	}

	if TotalID("Spending 1/24", "Monthly", "") != TotalID("Spending 1/24", "Monthly", "") {
		t.Fatal("total IDs differ for identical inputs")
	}
	if TotalID("Hawaii Trip 6/24", "Food", "Hawaii") == TotalID("Hawaii Trip 6/24", "Food", "") {
		t.Fatal("trip-qualified total ID should differ from unqualified")
	}
}

func TestTripContains(t *testing.T) {
	trip := Trip{Name: "Hawaii", StartDate: NewDate(2024, 6, 1), EndDate: NewDate(2024, 6, 5)}
	for _, d := range []Date{NewDate(2024, 6, 1), NewDate(2024, 6, 3), NewDate(2024, 6, 5)} {
		if !trip.Contains(d) {
			t.Fatalf("%s should be inside trip window", d)
		}
	}
	for _, d := range []Date{NewDate(2024, 5, 31), NewDate(2024, 6, 6), NewDate(2024, 7, 1)} {
		if trip.Contains(d) {
			t.Fatalf("%s should be outside trip window", d)
		}
	}
}
