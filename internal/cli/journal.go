package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/wiretrack/internal/journal"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Module string
	Op     string
	Limit  int
}

var validOps = []journal.Op{
	journal.OpInitialize, journal.OpSave, journal.OpRevert,
	journal.OpDelete, journal.OpImport, journal.OpExport,
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show the operation journal",
		Long: `Show journaled operations, oldest first.

Requires a journal to be configured.

Examples:
  wiretrack journal
  wiretrack journal --module W-1001 --limit 10
  wiretrack journal --op import`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Op != "" && !isValidOp(journal.Op(opts.Op)) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid op %q: must be one of %v", opts.Op, validOps))
			}
			if opts.Limit < 0 {
				return NewExitError(ExitCommandError, "limit must not be negative")
			}

			s, err := opts.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.tracker.Journal(commandContext(cmd), journal.Filter{
				ModuleID: opts.Module,
				Op:       journal.Op(opts.Op),
				Limit:    opts.Limit,
			})
			if err != nil {
				return wrapOpError("journal failed", err)
			}
			if entries == nil {
				entries = []journal.Entry{}
			}

			if len(entries) == 0 {
				return opts.emit(cmd, "No journal entries\n", entries)
			}
			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{
					strconv.FormatInt(e.Seq, 10),
					orDash(e.Timestamp),
					string(e.Op),
					orDash(e.ModuleID),
					orDash(strings.Join(e.Parameters, ", ")),
					orDash(formatDetail(e.Detail)),
				}
			}
			return opts.emit(cmd,
				renderTable([]string{"Seq", "Timestamp", "Op", "Module", "Parameters", "Detail"}, rows),
				entries)
		},
	}

	cmd.Flags().StringVar(&opts.Module, "module", "", "only entries for this module")
	cmd.Flags().StringVar(&opts.Op, "op", "", "only entries of this operation")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show only the newest N entries (0 = all)")

	return cmd
}

func isValidOp(op journal.Op) bool {
	for _, v := range validOps {
		if v == op {
			return true
		}
	}
	return false
}

// formatDetail renders detail as sorted key=value pairs.
func formatDetail(detail map[string]string) string {
	keys := make([]string, 0, len(detail))
	for k := range detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + detail[k]
	}
	return strings.Join(parts, " ")
}
