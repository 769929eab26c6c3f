package sheets

import "context"

// Ports for the spreadsheet source. The sync pipeline only ever needs to list
// the sheets of a year's spreadsheet and read rectangular text blocks from it;
// credential handling stays behind the adapter.
type (
	// Source is one year's spreadsheet.
	Source interface {
		// SheetNames returns the titles of every sheet in the spreadsheet.
		SheetNames(ctx context.Context) ([]string, error)

		// ReadRange returns the cell block for an A1 range spec like
		// "Spending 1/24!A1:E". A nil block means the range holds no data,
		// which is a legitimate result and not an error.
		ReadRange(ctx context.Context, rangeSpec string) ([][]string, error)
	}

	// SourceOpener resolves the spreadsheet for a given year.
	SourceOpener interface {
		Open(ctx context.Context, year string) (Source, error)
	}
)
