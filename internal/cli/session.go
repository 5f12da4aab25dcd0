package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/wiretrack/internal/config"
	"github.com/roach88/wiretrack/internal/journal"
	"github.com/roach88/wiretrack/internal/localfile"
	"github.com/roach88/wiretrack/internal/record"
	"github.com/roach88/wiretrack/internal/sheet"
	"github.com/roach88/wiretrack/internal/tracker"
)

// session is an opened tracker plus the settings it was built from.
type session struct {
	cfg     config.Config
	tracker *tracker.Tracker
}

func (s *session) Close() {
	if err := s.tracker.Close(); err != nil {
		slog.Error("error closing journal", "error", err)
	}
}

// loadConfig reads the config file and applies flag overrides.
func (o *RootOptions) loadConfig() (config.Config, error) {
	path, explicit := o.ConfigPath, o.ConfigPath != ""
	if !explicit {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.DataFile != "" {
		cfg.DataFile = o.DataFile
	}
	if o.Journal != "" {
		cfg.Journal = o.Journal
	}
	return cfg, nil
}

// openSession loads config, connects the spreadsheet when needed, resolves
// the parameter names and opens the tracker.
func (o *RootOptions) openSession(cmd *cobra.Command, needSheet bool) (*session, error) {
	ctx := commandContext(cmd)
	logger := o.log()

	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	var sh sheet.Sheet
	if needSheet || len(cfg.Parameters) == 0 {
		if !cfg.Sheet.Enabled() {
			if needSheet {
				return nil, WrapExitError(ExitCommandError, "cannot reach spreadsheet", tracker.ErrNoSheet)
			}
			return nil, WrapExitError(ExitCommandError, "cannot resolve parameters", tracker.ErrNoParameters)
		}
		factory := o.SheetFactory
		if factory == nil {
			factory = googleSheet
		}
		sh, err = factory(ctx, cfg.Sheet)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open spreadsheet", err)
		}
	}

	names, err := tracker.ResolveNames(ctx, cfg.Parameters, sh)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot resolve parameters", err)
	}

	var jr *journal.Journal
	if cfg.Journal != "" {
		jr, err = journal.Open(cfg.Journal)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
		}
	}

	clock := o.Clock
	if clock == nil {
		clock = record.SystemClock{Layout: cfg.TimestampLayout}
	}

	tr, err := tracker.Open(tracker.Options{
		Names:   names,
		File:    localfile.New(cfg.DataFile),
		Journal: jr,
		Sheet:   sh,
		Clock:   clock,
		Logger:  logger,
	})
	if err != nil {
		jr.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open data file", err)
	}
	logger.Debug("session ready", "data_file", cfg.DataFile, "parameters", len(names), "sheet", sh != nil)

	return &session{cfg: cfg, tracker: tr}, nil
}

func googleSheet(ctx context.Context, sc config.SheetConfig) (sheet.Sheet, error) {
	return sheet.NewGoogle(ctx, sc.SpreadsheetID, sc.Name, sc.Credentials)
}

// commandContext returns the command's context, or Background when the
// command is run outside Execute (as in tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

