package sheet

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// rowsRange covers every cell below the header.
const rowsRange = "A2:ZZZ"

// Google is a Sheet backed by one tab of a Google Sheets spreadsheet.
type Google struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	tab           string
}

// NewGoogle connects with service-account credentials read from
// credentialsFile.
func NewGoogle(ctx context.Context, spreadsheetID, tab, credentialsFile string) (*Google, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSONWithType(ctx, data, google.ServiceAccount, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return NewGoogleWithOptions(ctx, spreadsheetID, tab, option.WithCredentials(creds))
}

// NewGoogleWithOptions connects using explicit client options.
func NewGoogleWithOptions(ctx context.Context, spreadsheetID, tab string, opts ...option.ClientOption) (*Google, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if tab == "" {
		tab = "Sheet1"
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Google{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: spreadsheetID,
		tab:           tab,
	}, nil
}

func (g *Google) Header(ctx context.Context) ([]string, error) {
	resp, err := g.values.Get(g.spreadsheetID, g.a1("1:1")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return toStrings(resp.Values[0]), nil
}

func (g *Google) Rows(ctx context.Context) ([][]string, error) {
	resp, err := g.values.Get(g.spreadsheetID, g.a1(rowsRange)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, v := range resp.Values {
		rows = append(rows, toStrings(v))
	}
	return rows, nil
}

func (g *Google) EnsureHeader(ctx context.Context, header []string) error {
	current, err := g.Header(ctx)
	if err != nil {
		return err
	}
	if !isBlank(current) {
		return nil
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{toCells(header)}}
	_, err = g.values.Update(g.spreadsheetID, g.a1("A1"), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

func (g *Google) ClearRows(ctx context.Context) error {
	_, err := g.values.Clear(g.spreadsheetID, g.a1(rowsRange), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear rows: %w", err)
	}
	return nil
}

func (g *Google) Clear(ctx context.Context) error {
	_, err := g.values.Clear(g.spreadsheetID, quoteTab(g.tab), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}
	return nil
}

func (g *Google) AppendRows(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	vr := &sheets.ValueRange{Values: make([][]interface{}, len(rows))}
	for i, r := range rows {
		vr.Values[i] = toCells(r)
	}
	_, err := g.values.Append(g.spreadsheetID, g.a1("A1"), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append rows: %w", err)
	}
	return nil
}

// a1 qualifies a range with the tab name.
func (g *Google) a1(rng string) string {
	return quoteTab(g.tab) + "!" + rng
}

func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

func toStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case nil:
		case string:
			out[i] = v
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
