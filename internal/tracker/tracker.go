package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/wiretrack/internal/journal"
	"github.com/roach88/wiretrack/internal/localfile"
	"github.com/roach88/wiretrack/internal/record"
	"github.com/roach88/wiretrack/internal/sheet"
)

var (
	// ErrNoSheet is returned by sheet operations when no spreadsheet is configured.
	ErrNoSheet = errors.New("no spreadsheet configured")

	// ErrNoJournal is returned by Journal when journaling is disabled.
	ErrNoJournal = errors.New("no journal configured")

	// ErrNoParameters is returned by ResolveNames when neither the config
	// nor a spreadsheet header supplies parameter names.
	ErrNoParameters = errors.New("no parameter names configured")
)

// Options configures a Tracker.
type Options struct {
	// Names is the parameter-name list. Required.
	Names []string

	// File is the JSON data file. Required.
	File *localfile.File

	// Journal is optional; nil disables the operation log.
	Journal *journal.Journal

	// Sheet is optional; nil disables import, export and raw sheet access.
	Sheet sheet.Sheet

	// Clock stamps saves. Defaults to record.SystemClock{}.
	Clock record.Clock

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Tracker coordinates the record store with its collaborators.
type Tracker struct {
	store   *record.Store
	file    *localfile.File
	journal *journal.Journal
	sheet   sheet.Sheet
	clock   record.Clock
	log     *slog.Logger
}

// Open loads the data file and returns a ready Tracker.
func Open(opts Options) (*Tracker, error) {
	if opts.File == nil {
		return nil, fmt.Errorf("tracker: data file is required")
	}
	if opts.Clock == nil {
		opts.Clock = record.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	records, err := opts.File.Load()
	if err != nil {
		return nil, record.NewExternalIOError("load data file", err)
	}

	store := record.NewStore(opts.Names)
	for _, id := range store.Load(records) {
		opts.Logger.Warn("stored parameters longer than parameter list, extra values dropped",
			"module", id, "parameters", len(opts.Names))
	}
	opts.Logger.Debug("data file loaded", "path", opts.File.Path, "modules", store.Len())

	return &Tracker{
		store:   store,
		file:    opts.File,
		journal: opts.Journal,
		sheet:   opts.Sheet,
		clock:   opts.Clock,
		log:     opts.Logger,
	}, nil
}

// ResolveNames picks the parameter-name list: configured names win,
// otherwise the spreadsheet header is read.
func ResolveNames(ctx context.Context, configured []string, sh sheet.Sheet) ([]string, error) {
	if len(configured) > 0 {
		return slices.Clone(configured), nil
	}
	if sh == nil {
		return nil, ErrNoParameters
	}
	header, err := sh.Header(ctx)
	if err != nil {
		return nil, record.NewExternalIOError("read sheet header", err)
	}
	names := sheet.ParameterNames(header)
	if len(names) == 0 {
		return nil, ErrNoParameters
	}
	return names, nil
}

// Names returns the parameter-name list.
func (t *Tracker) Names() []string {
	return t.store.Names()
}

// Get returns the record for moduleID.
func (t *Tracker) Get(moduleID string) (record.ModuleRecord, error) {
	return t.store.Get(moduleID)
}

// Records returns every record ordered by module id.
func (t *Tracker) Records() []record.ModuleRecord {
	return t.store.Records()
}

// ExportRows returns the rows Push would write, newest first.
func (t *Tracker) ExportRows() []record.Row {
	return t.store.ExportAll()
}

// Close releases the journal.
func (t *Tracker) Close() error {
	return t.journal.Close()
}

// apply stages mutate on a clone, persists the clone and then commits it.
func (t *Tracker) apply(mutate func(*record.Store) error) error {
	next := t.store.Clone()
	if err := mutate(next); err != nil {
		return err
	}
	if err := t.file.Save(next.Records()); err != nil {
		return record.NewExternalIOError("write data file", err)
	}
	t.store = next
	return nil
}

// note appends a journal entry. Failures are logged, never returned.
func (t *Tracker) note(ctx context.Context, e journal.Entry) {
	if t.journal == nil {
		return
	}
	if _, err := t.journal.Append(ctx, e); err != nil {
		t.log.Warn("journal append failed", "op", e.Op, "module", e.ModuleID, "error", err)
	}
}
