// Package sheet is the spreadsheet side of wiretrack.
//
// Row 1 of the sheet is a header: "Timestamp", "Module ID", then one column
// per tracked parameter. Every other row is a module state in the same
// column order.
package sheet

import (
	"context"
	"slices"
)

// Header cells preceding the parameter columns.
const (
	TimestampColumn = "Timestamp"
	ModuleIDColumn  = "Module ID"
)

// Sheet is a spreadsheet tab laid out as a header row plus data rows.
type Sheet interface {
	// Header returns the cells of row 1. An empty sheet yields nil.
	Header(ctx context.Context) ([]string, error)

	// Rows returns every row after the header.
	Rows(ctx context.Context) ([][]string, error)

	// EnsureHeader writes header into row 1 when row 1 is empty.
	EnsureHeader(ctx context.Context, header []string) error

	// ClearRows removes every row after the header.
	ClearRows(ctx context.Context) error

	// Clear removes every row, header included.
	Clear(ctx context.Context) error

	// AppendRows adds rows after the last non-empty row.
	AppendRows(ctx context.Context, rows [][]string) error
}

// ParameterNames returns the parameter names defined by a header row: the
// cells from the third column onward.
func ParameterNames(header []string) []string {
	if len(header) <= 2 {
		return []string{}
	}
	return slices.Clone(header[2:])
}

// DefaultHeader builds the header row for a parameter-name list.
func DefaultHeader(names []string) []string {
	header := make([]string, 0, len(names)+2)
	header = append(header, TimestampColumn, ModuleIDColumn)
	return append(header, names...)
}
