// Package core holds the domain entities of the expense tracker and the pure
// parsing helpers that turn raw spreadsheet cell text into typed values.
package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// spendingSheetPrefix is the fixed prefix of monthly spending sheet names,
// e.g. "Spending 1/24". The suffix after the prefix is "{month}/{year}".
const spendingSheetPrefix = "Spending "

// ParseDate converts a cell value like "1/5/2024" to a Date. Four-digit years
// are tried first, with a two-digit fallback ("1/5/24").
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("1/2/2006", s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse("1/2/06", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// ParseAmount converts a currency cell like "$1,234.56" or "-$5.67" to a
// decimal by stripping the currency symbol and thousands separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// ParsePercentage converts a cell like "168%" to the fraction 1.68.
func ParsePercentage(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(s), "%")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse percentage %q: %w", s, err)
	}
	return d.Shift(-2), nil
}

// IsDateRange reports whether a date cell holds a trip date range rather than
// a single date. A "-" anywhere in the value is the signal.
func IsDateRange(s string) bool {
	return strings.Contains(s, "-")
}

// MonthAnchor derives the first calendar day of the month a spending sheet
// covers from its name, e.g. "Spending 1/24" -> 2024-01-01.
func MonthAnchor(sheetName string) (Date, error) {
	suffix := strings.Replace(sheetName, spendingSheetPrefix, "", 1)
	// "{month}/{year}" -> "{month}/1/{year}", the first of that month.
	d, err := ParseDate(strings.Replace(suffix, "/", "/1/", 1))
	if err != nil {
		return Date{}, fmt.Errorf("month anchor from sheet %q: %w", sheetName, err)
	}
	return d, nil
}
