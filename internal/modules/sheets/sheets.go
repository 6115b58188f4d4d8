package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Row maps a header name to the cell value of one spreadsheet row.
type Row map[string]string

// Table is the result of reading one worksheet: the header row plus the data
// rows keyed by header.
type Table struct {
	Headers []string
	Rows    []Row
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool { return t == nil || len(t.Rows) == 0 }

// Gateway is the narrow spreadsheet surface the collectors depend on.
// Production uses the Google Sheets API; tests use in-memory fixtures.
type Gateway interface {
	ReadTable(ctx context.Context, spreadsheetID, tab string) (*Table, error)
	AppendRows(ctx context.Context, spreadsheetID, tab string, header []string, rows [][]string) error
}

// Client reads and appends worksheet data through the Sheets API using
// service-account credentials.
type Client struct {
	svc    *gsheets.Service
	logger *zap.Logger
}

// NewClient authenticates with the given service-account JSON.
func NewClient(ctx context.Context, credentialsJSON []byte, logger *zap.Logger) (*Client, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, logger: logger}, nil
}

// ReadTable loads all rows of a worksheet. The tab name is matched
// tolerantly: exact first, then case-insensitive substring, then the first
// worksheet as a last resort (common facilitator typo recovery).
func (c *Client) ReadTable(ctx context.Context, spreadsheetID, tab string) (*Table, error) {
	titles, err := c.worksheetTitles(ctx, spreadsheetID)
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no worksheets", spreadsheetID)
	}

	title, exact := MatchWorksheet(titles, tab)
	if !exact {
		c.logger.Warn("worksheet tab not found, using fallback",
			zap.String("requested", tab), zap.String("using", title))
	}

	resp, err := c.svc.Spreadsheets.Values.
		Get(spreadsheetID, fmt.Sprintf("'%s'", title)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", title, err)
	}
	return tableFromValues(resp.Values), nil
}

// AppendRows appends data rows to a worksheet, creating the worksheet and
// writing the header first when it does not exist yet.
func (c *Client) AppendRows(ctx context.Context, spreadsheetID, tab string, header []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	titles, err := c.worksheetTitles(ctx, spreadsheetID)
	if err != nil {
		return err
	}

	needHeader := false
	if !containsTitle(titles, tab) {
		if err := c.addWorksheet(ctx, spreadsheetID, tab); err != nil {
			return err
		}
		needHeader = true
	} else {
		existing, err := c.svc.Spreadsheets.Values.
			Get(spreadsheetID, fmt.Sprintf("'%s'!A1:A1", tab)).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("inspect worksheet %q: %w", tab, err)
		}
		needHeader = len(existing.Values) == 0
	}

	var values [][]interface{}
	if needHeader && len(header) > 0 {
		values = append(values, toInterfaceRow(header))
	}
	for _, row := range rows {
		values = append(values, toInterfaceRow(row))
	}

	_, err = c.svc.Spreadsheets.Values.
		Append(spreadsheetID, fmt.Sprintf("'%s'!A1", tab), &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to worksheet %q: %w", tab, err)
	}
	return nil
}

func (c *Client) worksheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	meta, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", spreadsheetID, err)
	}
	titles := make([]string, 0, len(meta.Sheets))
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}
	return titles, nil
}

func (c *Client) addWorksheet(ctx context.Context, spreadsheetID, title string) error {
	_, err := c.svc.Spreadsheets.BatchUpdate(spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create worksheet %q: %w", title, err)
	}
	return nil
}

// MatchWorksheet resolves a requested tab against the available titles.
// The second return value reports whether the match was exact.
func MatchWorksheet(titles []string, want string) (string, bool) {
	for _, t := range titles {
		if t == want {
			return t, true
		}
	}
	wantLower := strings.ToLower(strings.TrimSpace(want))
	for _, t := range titles {
		if strings.EqualFold(strings.TrimSpace(t), wantLower) {
			return t, true
		}
	}
	for _, t := range titles {
		if wantLower != "" && strings.Contains(strings.ToLower(t), wantLower) {
			return t, false
		}
	}
	return titles[0], false
}

func toInterfaceRow(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

func containsTitle(titles []string, want string) bool {
	for _, t := range titles {
		if strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

func tableFromValues(values [][]interface{}) *Table {
	table := &Table{}
	if len(values) == 0 {
		return table
	}

	for _, cell := range values[0] {
		table.Headers = append(table.Headers, strings.TrimSpace(fmt.Sprint(cell)))
	}

	for _, raw := range values[1:] {
		row := make(Row, len(table.Headers))
		empty := true
		for i, header := range table.Headers {
			if header == "" {
				continue
			}
			var val string
			if i < len(raw) {
				val = strings.TrimSpace(fmt.Sprint(raw[i]))
			}
			if val != "" {
				empty = false
			}
			row[header] = val
		}
		if !empty {
			table.Rows = append(table.Rows, row)
		}
	}
	return table
}
