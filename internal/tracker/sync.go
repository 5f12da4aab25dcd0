package tracker

import (
	"context"
	"slices"
	"strconv"

	"github.com/roach88/wiretrack/internal/journal"
	"github.com/roach88/wiretrack/internal/record"
	"github.com/roach88/wiretrack/internal/sheet"
)

// Pull imports every spreadsheet row after the header into the store.
//
// The header's parameter names must equal the tracker's names; values are
// positional, so a reordered or renamed column would silently misalign.
// A sheet without a header row imports nothing.
func (t *Tracker) Pull(ctx context.Context) (record.ImportResult, error) {
	if t.sheet == nil {
		return record.ImportResult{}, ErrNoSheet
	}

	header, err := t.sheet.Header(ctx)
	if err != nil {
		return record.ImportResult{}, record.NewExternalIOError("read sheet header", err)
	}
	if len(header) == 0 {
		t.log.Info("sheet is empty, nothing to import")
		return record.ImportResult{}, nil
	}
	if err := t.checkHeader(header); err != nil {
		return record.ImportResult{}, err
	}

	cells, err := t.sheet.Rows(ctx)
	if err != nil {
		return record.ImportResult{}, record.NewExternalIOError("read sheet rows", err)
	}
	rows := make([]record.Row, 0, len(cells))
	malformed := 0
	for _, c := range cells {
		row, ok := record.RowFromCells(c)
		if !ok {
			malformed++
			continue
		}
		rows = append(rows, row)
	}

	var res record.ImportResult
	err = t.apply(func(s *record.Store) error {
		res = s.ImportRows(rows)
		return nil
	})
	if err != nil {
		return record.ImportResult{}, err
	}
	res.Skipped += malformed

	t.log.Info("sheet imported",
		"rows", len(cells), "created", res.Created, "updated", res.Updated,
		"unchanged", res.Unchanged, "skipped", res.Skipped)
	t.note(ctx, journal.Entry{
		Op:        journal.OpImport,
		Timestamp: t.clock.Now(),
		Detail: map[string]string{
			"rows":      strconv.Itoa(len(cells)),
			"created":   strconv.Itoa(res.Created),
			"updated":   strconv.Itoa(res.Updated),
			"unchanged": strconv.Itoa(res.Unchanged),
			"skipped":   strconv.Itoa(res.Skipped),
		},
	})
	return res, nil
}

// Push replaces every spreadsheet row below the header with ExportRows.
// Writes the default header first when row 1 is empty. An existing header
// naming other parameters is rejected before any row is touched. Returns
// the number of rows written.
func (t *Tracker) Push(ctx context.Context) (int, error) {
	if t.sheet == nil {
		return 0, ErrNoSheet
	}

	rows := t.store.ExportAll()
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.Cells()
	}

	if err := t.sheet.EnsureHeader(ctx, sheet.DefaultHeader(t.store.Names())); err != nil {
		return 0, record.NewExternalIOError("write sheet header", err)
	}
	header, err := t.sheet.Header(ctx)
	if err != nil {
		return 0, record.NewExternalIOError("read sheet header", err)
	}
	if err := t.checkHeader(header); err != nil {
		return 0, err
	}
	if err := t.sheet.ClearRows(ctx); err != nil {
		return 0, record.NewExternalIOError("clear sheet rows", err)
	}
	if err := t.sheet.AppendRows(ctx, cells); err != nil {
		return 0, record.NewExternalIOError("append sheet rows", err)
	}

	t.log.Info("sheet exported", "rows", len(cells))
	t.note(ctx, journal.Entry{
		Op:        journal.OpExport,
		Timestamp: t.clock.Now(),
		Detail:    map[string]string{"rows": strconv.Itoa(len(cells))},
	})
	return len(cells), nil
}

// checkHeader rejects a header whose parameter columns differ from the
// tracker's names.
func (t *Tracker) checkHeader(header []string) error {
	if names := sheet.ParameterNames(header); !slices.Equal(names, t.store.Names()) {
		return record.NewInvalidInputError("",
			"sheet header parameters %q do not match configured parameters %q", names, t.store.Names())
	}
	return nil
}

// SheetRows returns every row of the spreadsheet, header included.
func (t *Tracker) SheetRows(ctx context.Context) ([][]string, error) {
	if t.sheet == nil {
		return nil, ErrNoSheet
	}
	header, err := t.sheet.Header(ctx)
	if err != nil {
		return nil, record.NewExternalIOError("read sheet header", err)
	}
	rows, err := t.sheet.Rows(ctx)
	if err != nil {
		return nil, record.NewExternalIOError("read sheet rows", err)
	}
	if header == nil {
		return rows, nil
	}
	return append([][]string{header}, rows...), nil
}

// SheetClear empties the spreadsheet, header included.
func (t *Tracker) SheetClear(ctx context.Context) error {
	if t.sheet == nil {
		return ErrNoSheet
	}
	if err := t.sheet.Clear(ctx); err != nil {
		return record.NewExternalIOError("clear sheet", err)
	}
	t.log.Info("sheet cleared")
	return nil
}

// SheetAppend adds one raw row to the spreadsheet.
func (t *Tracker) SheetAppend(ctx context.Context, cells []string) error {
	if t.sheet == nil {
		return ErrNoSheet
	}
	if len(cells) == 0 {
		return record.NewInvalidInputError("", "row must have at least one value")
	}
	if err := t.sheet.AppendRows(ctx, [][]string{cells}); err != nil {
		return record.NewExternalIOError("append sheet row", err)
	}
	t.log.Info("sheet row appended", "cells", len(cells))
	return nil
}
