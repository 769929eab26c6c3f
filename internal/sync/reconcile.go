package sync

import (
	"context"
	"fmt"
	"log/slog"

	"tripledger/internal/core"
	"tripledger/internal/sheets"

	"github.com/shopspring/decimal"
)

// regularPurchases converts the concrete-date spending rows into Purchase
// records. Rows carrying the trip-range signal are excluded; they only feed
// trip inference.
func regularPurchases(rows []spendingRow) []core.Purchase {
	var out []core.Purchase
	for _, r := range rows {
		if r.isTripSource() {
			continue
		}
		out = append(out, core.Purchase{
			ID:          r.id,
			Date:        r.date,
			Amount:      r.amount,
			Category:    r.category,
			Description: r.description,
			Comment:     r.comment,
		})
	}
	return out
}

// linkTripPurchases reads the trip-dedicated spending ranges and resolves each
// row to its owning trip. Trip sheets carry the trip name as the first token
// of their title, and the row date must fall inside the trip's window; the
// first trip matching both wins, in inferred-trip order. A row with no match
// keeps a nil trip reference rather than failing the sync.
func linkTripPurchases(ctx context.Context, src sheets.Source, tripSpendingRanges []string, trips []core.Trip) ([]core.Purchase, error) {
	byName := make(map[string][]core.Trip)
	for _, t := range trips {
		byName[t.Name] = append(byName[t.Name], t)
	}

	var out []core.Purchase
	for _, rangeSpec := range tripSpendingRanges {
		sheetName := sheetNameFromRange(rangeSpec)
		tripName := firstToken(sheetName)
		data, err := extractRows(ctx, src, rangeSpec)
		if err != nil {
			return nil, err
		}
		for i, raw := range data {
			row, err := parseSpendingRow(sheetName, i, raw)
			if err != nil {
				return nil, err
			}
			if row.isTripSource() {
				return nil, fmt.Errorf("sheet %q row %d: unexpected date range %q in trip spending",
					sheetName, i, row.rangeText)
			}

			var tripID *string
			for _, t := range byName[tripName] {
				if t.Contains(row.date) {
					id := t.ID
					tripID = &id
					break
				}
			}
			if tripID == nil {
				slog.DebugContext(ctx, "Trip purchase has no matching trip window",
					"sheet", sheetName, "trip_name", tripName, "date", row.date.String())
			}

			out = append(out, core.Purchase{
				ID:          row.id,
				Date:        row.date,
				Amount:      row.amount,
				Category:    row.category,
				Description: row.description,
				Comment:     row.comment,
				TripID:      tripID,
			})
		}
	}
	return out, nil
}

// buildTotals reads the monthly TOTALS blocks. Each row is a budget line:
// type label, amount, progress percentage, budgeted amount. The record date is
// the first of the sheet's month.
func buildTotals(ctx context.Context, src sheets.Source, totalsRanges []string) ([]core.Total, error) {
	var out []core.Total
	for _, rangeSpec := range totalsRanges {
		sheetName := sheetNameFromRange(rangeSpec)
		anchor, err := core.MonthAnchor(sheetName)
		if err != nil {
			return nil, err
		}
		data, err := extractRows(ctx, src, rangeSpec)
		if err != nil {
			return nil, err
		}
		for i, row := range data {
			if len(row) < 4 {
				return nil, fmt.Errorf("sheet %q totals row %d: expected 4 columns, got %d", sheetName, i, len(row))
			}
			amount, err := core.ParseAmount(row[1])
			if err != nil {
				return nil, fmt.Errorf("sheet %q totals row %d: %w", sheetName, i, err)
			}
			progress, err := core.ParsePercentage(row[2])
			if err != nil {
				return nil, fmt.Errorf("sheet %q totals row %d: %w", sheetName, i, err)
			}
			budgeted, err := core.ParseAmount(row[3])
			if err != nil {
				return nil, fmt.Errorf("sheet %q totals row %d: %w", sheetName, i, err)
			}
			out = append(out, core.Total{
				ID:       core.TotalID(sheetName, row[0], ""),
				Date:     anchor,
				Type:     row[0],
				Amount:   amount,
				Progress: progress,
				Budgeted: budgeted,
			})
		}
	}
	return out, nil
}

// buildTripTotals reads the trip TOTALS blocks and stamps every row with the
// owning trip's id and start date. The trip is resolved by exact name from the
// sheet title; a trip totals sheet describes exactly one trip. When no trip
// matches, the whole range is skipped with a warning so one stray sheet does
// not abort the sync. Trips have no budget, so progress and budgeted carry the
// zero sentinel.
func buildTripTotals(ctx context.Context, src sheets.Source, tripTotalsRanges []string, trips []core.Trip) ([]core.Total, error) {
	byName := make(map[string]core.Trip, len(trips))
	for _, t := range trips {
		byName[t.Name] = t
	}

	var out []core.Total
	for _, rangeSpec := range tripTotalsRanges {
		sheetName := sheetNameFromRange(rangeSpec)
		tripName := firstToken(sheetName)
		trip, ok := byName[tripName]
		if !ok {
			slog.WarnContext(ctx, "No trip found for totals sheet, skipping range",
				"sheet", sheetName, "trip_name", tripName)
			continue
		}

		data, err := extractRows(ctx, src, rangeSpec)
		if err != nil {
			return nil, err
		}
		for i, row := range data {
			if len(row) < 2 {
				return nil, fmt.Errorf("sheet %q trip totals row %d: expected 2 columns, got %d", sheetName, i, len(row))
			}
			amount, err := core.ParseAmount(row[1])
			if err != nil {
				return nil, fmt.Errorf("sheet %q trip totals row %d: %w", sheetName, i, err)
			}
			tripID := trip.ID
			out = append(out, core.Total{
				ID:       core.TotalID(sheetName, row[0], tripName),
				Date:     trip.StartDate,
				Type:     row[0],
				Amount:   amount,
				Progress: decimal.Zero,
				Budgeted: decimal.Zero,
				TripID:   &tripID,
			})
		}
	}
	return out, nil
}
