package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wiretrack/internal/sheet"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Merge spreadsheet rows into the local records",
		Long: `Merge every spreadsheet row below the header into the local records.

Rows are applied in sheet order. Unknown modules are created, known modules
whose values differ are updated with the row's timestamp, and rows without
a module id are skipped. The sheet header must list the same parameters as
the local configuration; a sheet with no header row imports nothing.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.tracker.Pull(commandContext(cmd))
			if err != nil {
				return wrapOpError("import failed", err)
			}
			return rootOpts.emit(cmd,
				fmt.Sprintf("Imported: %d created, %d updated, %d unchanged, %d skipped\n",
					res.Created, res.Updated, res.Unchanged, res.Skipped),
				res)
		},
	}
}

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	DryRun bool
}

// exportView is the JSON payload of export --dry-run.
type exportView struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Replace the spreadsheet rows with every tracked state",
		Long: `Replace every spreadsheet row below the header with one row per module
state: the current values plus each history entry, newest first.

An existing header that names other parameters, or the same parameters in
another order, is rejected and the sheet is left as it was.

With --dry-run the rows are printed instead of written.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd, !opts.DryRun)
			if err != nil {
				return err
			}
			defer s.Close()

			if opts.DryRun {
				v := exportView{Header: sheet.DefaultHeader(s.tracker.Names())}
				for _, r := range s.tracker.ExportRows() {
					v.Rows = append(v.Rows, r.Cells())
				}
				if v.Rows == nil {
					v.Rows = [][]string{}
				}
				text := make([][]string, len(v.Rows))
				for i, r := range v.Rows {
					text[i] = make([]string, len(r))
					for j, c := range r {
						text[i][j] = orDash(c)
					}
				}
				return opts.emit(cmd, renderTable(v.Header, text), v)
			}

			n, err := s.tracker.Push(commandContext(cmd))
			if err != nil {
				return wrapOpError("export failed", err)
			}
			return opts.emit(cmd, fmt.Sprintf("Exported %d rows\n", n), map[string]int{"rows": n})
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the rows instead of writing them")

	return cmd
}
