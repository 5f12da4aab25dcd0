package sheet

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process Sheet. The zero value is an empty sheet.
//
// Fail, when set, is returned by every call; tests use it to exercise
// spreadsheet outages.
type Memory struct {
	mu    sync.Mutex
	cells [][]string
	Fail  error
}

// NewMemory returns a sheet holding a copy of rows (header first).
func NewMemory(rows ...[]string) *Memory {
	m := &Memory{}
	for _, r := range rows {
		m.cells = append(m.cells, slices.Clone(r))
	}
	return m
}

// Snapshot returns a copy of every row, header included.
func (m *Memory) Snapshot() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneRows(m.cells)
}

func (m *Memory) Header(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	if len(m.cells) == 0 {
		return nil, nil
	}
	return slices.Clone(m.cells[0]), nil
}

func (m *Memory) Rows(ctx context.Context) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	if len(m.cells) <= 1 {
		return [][]string{}, nil
	}
	return cloneRows(m.cells[1:]), nil
}

func (m *Memory) EnsureHeader(ctx context.Context, header []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	if len(m.cells) == 0 {
		m.cells = [][]string{slices.Clone(header)}
		return nil
	}
	if isBlank(m.cells[0]) {
		m.cells[0] = slices.Clone(header)
	}
	return nil
}

func (m *Memory) ClearRows(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	if len(m.cells) > 1 {
		m.cells = m.cells[:1]
	}
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.cells = nil
	return nil
}

func (m *Memory) AppendRows(ctx context.Context, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.cells = append(m.cells, cloneRows(rows)...)
	return nil
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = slices.Clone(r)
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
