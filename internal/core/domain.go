package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Date is a day-precision calendar date. The embedded time.Time is always
	// midnight UTC so values compare cleanly.
	Date struct {
		time.Time
	}

	// Purchase is a single spending row, either from a monthly sheet or a
	// trip-dedicated sheet. TripID is set only for trip purchases that matched
	// an inferred trip window.
	Purchase struct {
		ID          string
		Date        Date
		Amount      decimal.Decimal
		Category    string
		Description string
		Comment     *string
		TripID      *string
	}

	// Trip is inferred from date-range rows in the monthly spending sheets.
	// (Name, StartDate, EndDate) is its natural key.
	Trip struct {
		ID        string
		Name      string
		StartDate Date
		EndDate   Date
		Comment   *string
	}

	// Total is one row of a sheet's TOTALS block. For monthly totals Date is
	// the first of the month; for trip totals it is the trip start date and
	// Progress/Budgeted carry the zero sentinel since trips have no budget.
	Total struct {
		ID       string
		Date     Date
		Type     string
		Amount   decimal.Decimal
		Progress decimal.Decimal
		Budgeted decimal.Decimal
		TripID   *string
	}

	// SyncReport holds the per-collection record counts of one sync run.
	SyncReport struct {
		Trips            int `json:"trips"`
		RegularPurchases int `json:"regular_purchases"`
		TripPurchases    int `json:"trip_purchases"`
		Totals           int `json:"totals"`
		TripTotals       int `json:"trip_totals"`
		TotalPurchases   int `json:"total_purchases"`
	}
)

var ErrInvalidDateOrder = errors.New("start date after end date")

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// String renders the date as YYYY-MM-DD. This rendering is part of the trip ID
// contract, so it must stay stable.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MarshalJSON renders the date as a bare YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Contains reports whether x falls inside [start, end], inclusive on both ends.
func (t Trip) Contains(x Date) bool {
	return !x.Before(t.StartDate.Time) && !x.After(t.EndDate.Time)
}

// Validate checks the trip's date ordering invariant.
func (t Trip) Validate() error {
	if t.StartDate.After(t.EndDate.Time) {
		return ErrInvalidDateOrder
	}
	return nil
}
