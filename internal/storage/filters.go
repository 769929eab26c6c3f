package storage

import (
	"strings"

	"tripledger/internal/core"
)

// Filters mirror what the query API exposes: exact matches, IN-sets, and one-
// or two-sided date ranges. A zero filter selects everything.
type (
	PurchaseFilter struct {
		Categories   []string
		Descriptions []string
		StartDate    *core.Date
		EndDate      *core.Date
		TripID       *string
	}

	TripFilter struct {
		Names     []string
		StartDate *core.Date
		EndDate   *core.Date
	}
)

// whereClause accumulates SQL conditions and their bind args.
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) in(column string, values []string) {
	if len(values) == 0 {
		return
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		w.args = append(w.args, v)
	}
	w.conds = append(w.conds, column+" IN ("+strings.Join(placeholders, ", ")+")")
}

func (w *whereClause) compare(column, op string, value any) {
	w.conds = append(w.conds, column+" "+op+" ?")
	w.args = append(w.args, value)
}

// dateRange applies one- or two-sided bounds on a date column. Dates are
// stored as YYYY-MM-DD text, so lexicographic comparison matches calendar
// order.
func (w *whereClause) dateRange(column string, start, end *core.Date) {
	if start != nil {
		w.compare(column, ">=", start.String())
	}
	if end != nil {
		w.compare(column, "<=", end.String())
	}
}

func (w *whereClause) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func purchaseWhere(f PurchaseFilter) *whereClause {
	w := &whereClause{}
	w.in("category", f.Categories)
	w.in("description", f.Descriptions)
	w.dateRange("date", f.StartDate, f.EndDate)
	if f.TripID != nil {
		w.compare("trip_id", "=", *f.TripID)
	}
	return w
}

func tripWhere(f TripFilter) *whereClause {
	w := &whereClause{}
	w.in("name", f.Names)
	w.dateRange("start_date", f.StartDate, f.EndDate)
	return w
}
