package sync

import (
	"context"
	"fmt"

	"tripledger/internal/core"
	"tripledger/internal/sheets"

	"github.com/shopspring/decimal"
)

// Column positions within every spending data range. The sheets carry no
// self-describing header beyond the row the extractor drops, so these indexes
// are the contract.
const (
	dateCol        = 0
	amountCol      = 1
	categoryCol    = 2
	descriptionCol = 3
	commentCol     = 4
)

// minSpendingColumns is date through description; the comment column is
// optional.
const minSpendingColumns = 4

// extractRows reads a range and returns its data rows with the header row
// dropped. A nil result means the range holds no data, which downstream code
// treats as a legitimate empty block.
func extractRows(ctx context.Context, src sheets.Source, rangeSpec string) ([][]string, error) {
	block, err := src.ReadRange(ctx, rangeSpec)
	if err != nil {
		return nil, err
	}
	if len(block) <= 1 {
		return nil, nil
	}
	return block[1:], nil
}

// spendingRow is one raw spending entry before the purchase/trip split. When
// the date cell carried the trip-range signal, rangeText is set and date is
// zero; otherwise date holds the parsed calendar date.
type spendingRow struct {
	id          string
	sheetName   string
	date        core.Date
	rangeText   string
	amount      decimal.Decimal
	category    string
	description string
	comment     *string
}

func (r spendingRow) isTripSource() bool {
	return r.rangeText != ""
}

// parseSpendingRow applies the column contract to a raw row. Malformed cells
// fail the sync; silently dropping rows would corrupt totals.
func parseSpendingRow(sheetName string, rowIndex int, row []string) (spendingRow, error) {
	if len(row) < minSpendingColumns {
		return spendingRow{}, fmt.Errorf("sheet %q row %d: expected at least %d columns, got %d",
			sheetName, rowIndex, minSpendingColumns, len(row))
	}

	out := spendingRow{
		id:          core.PurchaseID(sheetName, rowIndex),
		sheetName:   sheetName,
		category:    row[categoryCol],
		description: row[descriptionCol],
		comment:     rowComment(row),
	}

	if core.IsDateRange(row[dateCol]) {
		out.rangeText = row[dateCol]
	} else {
		d, err := core.ParseDate(row[dateCol])
		if err != nil {
			return spendingRow{}, fmt.Errorf("sheet %q row %d: %w", sheetName, rowIndex, err)
		}
		out.date = d
	}

	amount, err := core.ParseAmount(row[amountCol])
	if err != nil {
		return spendingRow{}, fmt.Errorf("sheet %q row %d: %w", sheetName, rowIndex, err)
	}
	out.amount = amount

	return out, nil
}

// rowComment returns the optional fifth column, nil when absent or blank.
func rowComment(row []string) *string {
	if len(row) <= commentCol || row[commentCol] == "" {
		return nil
	}
	c := row[commentCol]
	return &c
}

// collectSpendingRows extracts and parses every regular spending range, in
// range order, keeping the 0-based data-row index that purchase IDs derive
// from.
func collectSpendingRows(ctx context.Context, src sheets.Source, spendingRanges []string) ([]spendingRow, error) {
	var rows []spendingRow
	for _, rangeSpec := range spendingRanges {
		sheetName := sheetNameFromRange(rangeSpec)
		data, err := extractRows(ctx, src, rangeSpec)
		if err != nil {
			return nil, err
		}
		for i, raw := range data {
			row, err := parseSpendingRow(sheetName, i, raw)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}
