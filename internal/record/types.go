package record

import "slices"

// ModuleRecord is the tracked state of one module.
type ModuleRecord struct {
	ModuleID   string         `json:"-"`
	Parameters []string       `json:"parameters"`
	Created    string         `json:"created"`
	Modified   string         `json:"modified"`
	History    []HistoryEntry `json:"history"`
}

// HistoryEntry is a timestamped snapshot of a module's parameter values.
type HistoryEntry struct {
	Timestamp  string   `json:"timestamp"`
	Parameters []string `json:"parameters"`
}

// Row is the spreadsheet shape of a record state: timestamp, module id and
// the parameter values in name order.
type Row struct {
	Timestamp  string
	ModuleID   string
	Parameters []string
}

// Cells flattens the row into spreadsheet cells.
func (r Row) Cells() []string {
	cells := make([]string, 0, len(r.Parameters)+2)
	cells = append(cells, r.Timestamp, r.ModuleID)
	return append(cells, r.Parameters...)
}

// RowFromCells parses spreadsheet cells into a Row.
// Returns false when the cells cannot hold a timestamp and a module id.
func RowFromCells(cells []string) (Row, bool) {
	if len(cells) < 2 {
		return Row{}, false
	}
	return Row{
		Timestamp:  cells[0],
		ModuleID:   cells[1],
		Parameters: slices.Clone(cells[2:]),
	}, true
}

// ImportResult summarizes an ImportRows call.
type ImportResult struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}

// clone returns a deep copy of the record.
func (r *ModuleRecord) clone() *ModuleRecord {
	c := &ModuleRecord{
		ModuleID:   r.ModuleID,
		Parameters: slices.Clone(r.Parameters),
		Created:    r.Created,
		Modified:   r.Modified,
		History:    make([]HistoryEntry, len(r.History)),
	}
	for i, h := range r.History {
		c.History[i] = HistoryEntry{Timestamp: h.Timestamp, Parameters: slices.Clone(h.Parameters)}
	}
	return c
}

// ParamsEqual reports whether two parameter lists are positionally equal.
func ParamsEqual(a, b []string) bool {
	return slices.Equal(a, b)
}
