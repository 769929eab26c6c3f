// Package sync implements the sheet-to-database synchronization pipeline:
// resolving which sheet ranges to read for a month window, extracting rows,
// inferring trips from date-range entries, reconciling trip purchases and
// totals against the inferred trips, and persisting the normalized records.
package sync

import (
	"fmt"
	"strconv"
	"strings"
)

// The spreadsheet layout is a fixed contract, not a discoverable schema.
// Monthly sheets keep spending in A1:E with a TOTALS block at F2:I9; trip
// sheets keep spending in A1:E with a narrower TOTALS block at F2:G8.
const (
	SpendingRangeKey     = "A1:E"
	TotalsRangeKey       = "F2:I9"
	TripSpendingRangeKey = "A1:E"
	TripTotalsRangeKey   = "F2:G8"
)

// RangeSet is the set of range specs one sync run reads, partitioned by what
// the ranges contain.
type RangeSet struct {
	Spending     []string
	Totals       []string
	TripSpending []string
	TripTotals   []string
}

// validateMonthWindow checks the inclusive [startMonth, endMonth] bounds. It
// runs before any network work.
func validateMonthWindow(startMonth, endMonth int) error {
	if startMonth < 1 || startMonth > 12 {
		return fmt.Errorf("start month must be between 1 and 12, got %d", startMonth)
	}
	if endMonth < 1 || endMonth > 12 {
		return fmt.Errorf("end month must be between 1 and 12, got %d", endMonth)
	}
	if startMonth > endMonth {
		return fmt.Errorf("start month (%d) cannot be greater than end month (%d)", startMonth, endMonth)
	}
	return nil
}

// ResolveRanges selects the sheets whose name mentions a month in the window
// and pairs them with the fixed range templates. Selection is purely
// string-based: sheets containing "Spending" feed the regular spending and
// totals ranges, sheets containing "Trip" feed the trip ranges.
func ResolveRanges(sheetNames []string, startMonth, endMonth int) (RangeSet, error) {
	if err := validateMonthWindow(startMonth, endMonth); err != nil {
		return RangeSet{}, err
	}

	inWindow := func(sheet string) bool {
		for month := startMonth; month <= endMonth; month++ {
			if strings.Contains(sheet, strconv.Itoa(month)) {
				return true
			}
		}
		return false
	}

	// "Trip" wins over "Spending" so a sheet like "Hawaii Trip Spending 6/24"
	// lands only in the trip group; its rows must not be counted as regular
	// purchases as well.
	var rs RangeSet
	for _, sheet := range sheetNames {
		if !inWindow(sheet) {
			continue
		}
		switch {
		case strings.Contains(sheet, "Trip"):
			rs.TripSpending = append(rs.TripSpending, sheet+"!"+TripSpendingRangeKey)
			rs.TripTotals = append(rs.TripTotals, sheet+"!"+TripTotalsRangeKey)
		case strings.Contains(sheet, "Spending"):
			rs.Spending = append(rs.Spending, sheet+"!"+SpendingRangeKey)
			rs.Totals = append(rs.Totals, sheet+"!"+TotalsRangeKey)
		}
	}
	return rs, nil
}

// sheetNameFromRange strips the range suffix from a spec like
// "Spending 1/24!A1:E".
func sheetNameFromRange(rangeSpec string) string {
	name, _, _ := strings.Cut(rangeSpec, "!")
	return name
}

// firstToken returns the first whitespace-delimited token, the convention for
// deriving a trip name from a description or sheet title.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
