package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewSheetCommand creates the sheet command and its raw-access subcommands.
func NewSheetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Read or modify the spreadsheet directly",
		Long: `Read or modify the configured spreadsheet without touching local records.

These commands are meant for inspection and repair; use import and export
to synchronize records.`,
	}

	cmd.AddCommand(newSheetReadCommand(rootOpts))
	cmd.AddCommand(newSheetClearCommand(rootOpts))
	cmd.AddCommand(newSheetAppendCommand(rootOpts))

	return cmd
}

func newSheetReadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "read",
		Short:         "Print every spreadsheet row, header included",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.tracker.SheetRows(commandContext(cmd))
			if err != nil {
				return wrapOpError("sheet read failed", err)
			}
			if rows == nil {
				rows = [][]string{}
			}

			var b strings.Builder
			for _, r := range rows {
				b.WriteString(strings.Join(r, " | "))
				b.WriteByte('\n')
			}
			return rootOpts.emit(cmd, b.String(), rows)
		},
	}
}

func newSheetClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Remove every spreadsheet row, header included",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.tracker.SheetClear(commandContext(cmd)); err != nil {
				return wrapOpError("sheet clear failed", err)
			}
			return rootOpts.emit(cmd, "Sheet cleared\n", map[string]bool{"cleared": true})
		},
	}
}

func newSheetAppendCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "append <values...>",
		Short:         "Append one raw row to the spreadsheet",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.tracker.SheetAppend(commandContext(cmd), args); err != nil {
				return wrapOpError("sheet append failed", err)
			}
			return rootOpts.emit(cmd,
				fmt.Sprintf("Appended row with %d values\n", len(args)),
				map[string]int{"cells": len(args)})
		},
	}
}
