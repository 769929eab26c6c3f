package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	ports "tripledger/internal/sheets"

	gdrive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config holds everything the Google adapter needs. It is passed in explicitly
// so the pipeline can run against different spreadsheets in the same process.
type Config struct {
	// SheetQuery is a Drive files.list query template with one %s verb for the
	// year, e.g. "name contains 'Expenses %s' and mimeType = 'application/vnd.google-apps.spreadsheet'".
	SheetQuery string

	// Service account credentials, inline JSON or a file path. One is required.
	CredentialsJSON string
	CredentialsFile string
}

// Client locates a year's expense spreadsheet in Drive and reads it through
// the Sheets API.
type Client struct {
	sheets *gsheet.Service
	drive  *gdrive.Service
	query  string
}

var _ ports.SourceOpener = (*Client)(nil)

// NewClient builds the Drive and Sheets services from service account
// credentials.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SheetQuery) == "" {
		return nil, errors.New("missing sheet query")
	}

	credentialsJSON, err := resolveCredentials(cfg)
	if err != nil {
		return nil, err
	}

	sheetSvc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	driveSvc, err := gdrive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gdrive.DriveMetadataReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &Client{sheets: sheetSvc, drive: driveSvc, query: cfg.SheetQuery}, nil
}

func resolveCredentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

// Open finds the spreadsheet for the year via Drive and returns a Source bound
// to it. The first match wins when the query returns several files.
func (c *Client) Open(ctx context.Context, year string) (ports.Source, error) {
	query := fmt.Sprintf(c.query, year)
	list, err := c.drive.Files.List().Q(query).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list expense spreadsheets: %w", err)
	}
	if len(list.Files) == 0 {
		return nil, fmt.Errorf("no expense spreadsheet found for year %s", year)
	}
	f := list.Files[0]
	slog.DebugContext(ctx, "Resolved expense spreadsheet",
		"year", year, "name", f.Name, "spreadsheet_id", f.Id)
	return &yearSource{svc: c.sheets, spreadsheetID: f.Id}, nil
}

type yearSource struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ ports.Source = (*yearSource)(nil)

func (s *yearSource) SheetNames(ctx context.Context) ([]string, error) {
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	names := make([]string, 0, len(meta.Sheets))
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			names = append(names, sh.Properties.Title)
		}
	}
	return names, nil
}

func (s *yearSource) ReadRange(ctx context.Context, rangeSpec string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rangeSpec, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	block := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		block[i] = toStrings(row)
	}
	return block, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
