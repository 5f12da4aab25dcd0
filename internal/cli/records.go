package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/wiretrack/internal/record"
)

// moduleResult is the JSON payload of single-module mutations.
type moduleResult struct {
	Module     string   `json:"module"`
	Timestamp  string   `json:"timestamp,omitempty"`
	Parameters []string `json:"parameters,omitempty"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init <module-id> [values...]",
		Short: "Start tracking a new module",
		Long: `Start tracking a new module.

Values are given in parameter order. With no values every parameter
starts empty. The module gets no timestamps until its first save.

Examples:
  wiretrack init W-1001
  wiretrack init W-1001 5V 2A`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.tracker.Initialize(commandContext(cmd), args[0], args[1:]); err != nil {
				return wrapOpError("init failed", err)
			}
			rec, err := s.tracker.Get(args[0])
			if err != nil {
				return wrapOpError("init failed", err)
			}
			return rootOpts.emit(cmd,
				fmt.Sprintf("Initialized %s\n", rec.ModuleID),
				moduleResult{Module: rec.ModuleID, Parameters: rec.Parameters})
		},
	}
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save <module-id> <values...>",
		Short: "Record new parameter values for a module",
		Long: `Record new parameter values for a module.

One value is required per parameter, in parameter order. Every save is
timestamped and appended to the module's history.

Example:
  wiretrack save W-1001 6V 2A`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			ts, err := s.tracker.Save(commandContext(cmd), args[0], args[1:])
			if err != nil {
				return wrapOpError("save failed", err)
			}
			rec, err := s.tracker.Get(args[0])
			if err != nil {
				return wrapOpError("save failed", err)
			}
			return rootOpts.emit(cmd,
				fmt.Sprintf("Saved %s at %s\n", rec.ModuleID, ts),
				moduleResult{Module: rec.ModuleID, Timestamp: ts, Parameters: rec.Parameters})
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <module-id>",
		Short:         "Stop tracking a module and drop its history",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.tracker.Delete(commandContext(cmd), args[0]); err != nil {
				return wrapOpError("delete failed", err)
			}
			id := record.NormalizeID(args[0])
			return rootOpts.emit(cmd, fmt.Sprintf("Deleted %s\n", id), moduleResult{Module: id})
		},
	}
}

// RevertOptions holds flags for the revert command.
type RevertOptions struct {
	*RootOptions
	Steps int
}

// NewRevertCommand creates the revert command.
func NewRevertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RevertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "revert <module-id>",
		Short: "Restore earlier parameter values",
		Long: `Restore the values a module had before its latest save.

The restored values are saved as a new history entry; nothing is removed
from the history.

Examples:
  wiretrack revert W-1001
  wiretrack revert W-1001 --steps 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			restored, err := s.tracker.Revert(commandContext(cmd), args[0], opts.Steps)
			if err != nil {
				return wrapOpError("revert failed", err)
			}
			rec, err := s.tracker.Get(args[0])
			if err != nil {
				return wrapOpError("revert failed", err)
			}
			return opts.emit(cmd,
				fmt.Sprintf("Reverted %s to [%s] at %s\n", rec.ModuleID, strings.Join(restored, ", "), rec.Modified),
				moduleResult{Module: rec.ModuleID, Timestamp: rec.Modified, Parameters: restored})
		},
	}

	cmd.Flags().IntVar(&opts.Steps, "steps", 1, "number of saves to step back")

	return cmd
}
