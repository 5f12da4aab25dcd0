package tracker

import (
	"context"
	"slices"
	"strconv"

	"github.com/roach88/wiretrack/internal/journal"
	"github.com/roach88/wiretrack/internal/record"
)

// Initialize creates a module. With no values every parameter starts empty.
func (t *Tracker) Initialize(ctx context.Context, moduleID string, params []string) error {
	if len(params) == 0 {
		params = make([]string, len(t.store.Names()))
	}
	id := record.NormalizeID(moduleID)
	err := t.apply(func(s *record.Store) error {
		return s.Initialize(id, params)
	})
	if err != nil {
		return err
	}

	t.log.Info("module initialized", "module", id)
	t.note(ctx, journal.Entry{Op: journal.OpInitialize, ModuleID: id, Parameters: params})
	return nil
}

// Save records new values for a module and returns the timestamp used.
func (t *Tracker) Save(ctx context.Context, moduleID string, params []string) (string, error) {
	id := record.NormalizeID(moduleID)
	now := t.clock.Now()
	err := t.apply(func(s *record.Store) error {
		return s.Save(id, params, now)
	})
	if err != nil {
		return "", err
	}

	t.log.Info("module saved", "module", id, "timestamp", now)
	t.note(ctx, journal.Entry{Op: journal.OpSave, ModuleID: id, Timestamp: now, Parameters: params})
	return now, nil
}

// Revert restores the values recorded steps saves before the latest one.
func (t *Tracker) Revert(ctx context.Context, moduleID string, steps int) ([]string, error) {
	id := record.NormalizeID(moduleID)
	now := t.clock.Now()
	var restored []string
	err := t.apply(func(s *record.Store) error {
		var err error
		restored, err = s.Revert(id, steps, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	t.log.Info("module reverted", "module", id, "steps", steps, "timestamp", now)
	t.note(ctx, journal.Entry{
		Op:         journal.OpRevert,
		ModuleID:   id,
		Timestamp:  now,
		Parameters: restored,
		Detail:     map[string]string{"steps": strconv.Itoa(steps)},
	})
	return slices.Clone(restored), nil
}

// Delete removes a module and its history.
func (t *Tracker) Delete(ctx context.Context, moduleID string) error {
	id := record.NormalizeID(moduleID)
	err := t.apply(func(s *record.Store) error {
		return s.Delete(id)
	})
	if err != nil {
		return err
	}

	t.log.Info("module deleted", "module", id)
	t.note(ctx, journal.Entry{Op: journal.OpDelete, ModuleID: id, Timestamp: t.clock.Now()})
	return nil
}

// Journal reads the operation log.
func (t *Tracker) Journal(ctx context.Context, f journal.Filter) ([]journal.Entry, error) {
	if t.journal == nil {
		return nil, ErrNoJournal
	}
	if f.ModuleID != "" {
		f.ModuleID = record.NormalizeID(f.ModuleID)
	}
	entries, err := t.journal.Read(ctx, f)
	if err != nil {
		return nil, record.NewExternalIOError("read journal", err)
	}
	return entries, nil
}
