package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/wiretrack/internal/record"
	"github.com/roach88/wiretrack/internal/watch"
)

// listView is the JSON payload of list.
type listView struct {
	Parameters []string   `json:"parameters"`
	Modules    []listItem `json:"modules"`
}

type listItem struct {
	Module   string   `json:"module"`
	Values   []string `json:"values"`
	Created  string   `json:"created"`
	Modified string   `json:"modified"`
	Saves    int      `json:"saves"`
}

// showView is the JSON payload of show and history.
type showView struct {
	Module     string                `json:"module"`
	Parameters []parameterValue      `json:"parameters"`
	Created    string                `json:"created"`
	Modified   string                `json:"modified"`
	History    []record.HistoryEntry `json:"history"`
}

type parameterValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func newShowView(names []string, rec record.ModuleRecord) showView {
	v := showView{
		Module:     rec.ModuleID,
		Parameters: make([]parameterValue, len(names)),
		Created:    rec.Created,
		Modified:   rec.Modified,
		History:    rec.History,
	}
	if v.History == nil {
		v.History = []record.HistoryEntry{}
	}
	for i, name := range names {
		v.Parameters[i] = parameterValue{Name: name}
		if i < len(rec.Parameters) {
			v.Parameters[i].Value = rec.Parameters[i]
		}
	}
	return v
}

func newListView(names []string, recs []record.ModuleRecord) listView {
	v := listView{Parameters: names, Modules: make([]listItem, len(recs))}
	for i, rec := range recs {
		v.Modules[i] = listItem{
			Module:   rec.ModuleID,
			Values:   rec.Parameters,
			Created:  rec.Created,
			Modified: rec.Modified,
			Saves:    len(rec.History),
		}
	}
	return v
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <module-id>",
		Short:         "Show a module's current parameter values",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.tracker.Get(args[0])
			if err != nil {
				return wrapOpError("show failed", err)
			}
			v := newShowView(s.tracker.Names(), rec)

			var b strings.Builder
			fmt.Fprintf(&b, "Module:   %s\n", v.Module)
			fmt.Fprintf(&b, "Created:  %s\n", orDash(v.Created))
			fmt.Fprintf(&b, "Modified: %s\n", orDash(v.Modified))
			rows := make([][]string, len(v.Parameters))
			for i, p := range v.Parameters {
				rows[i] = []string{p.Name, orDash(p.Value)}
			}
			b.WriteString(renderTable([]string{"Parameter", "Value"}, rows))
			return rootOpts.emit(cmd, b.String(), v)
		},
	}
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "history <module-id>",
		Short:         "Show every saved state of a module, oldest first",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.tracker.Get(args[0])
			if err != nil {
				return wrapOpError("history failed", err)
			}
			v := newShowView(s.tracker.Names(), rec)

			if len(v.History) == 0 {
				return rootOpts.emit(cmd, fmt.Sprintf("%s has no saved history\n", v.Module), v)
			}
			headers := append([]string{"#", "Timestamp"}, s.tracker.Names()...)
			rows := make([][]string, len(v.History))
			for i, h := range v.History {
				row := []string{strconv.Itoa(i + 1), h.Timestamp}
				for _, p := range h.Parameters {
					row = append(row, orDash(p))
				}
				rows[i] = row
			}
			return rootOpts.emit(cmd, renderTable(headers, rows), v)
		},
	}
}

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Watch bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every tracked module",
		Long: `List every tracked module with its current values.

With --watch the listing is redrawn whenever the data file changes, until
interrupted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataFile, err := opts.printList(cmd)
			if err != nil || !opts.Watch {
				return err
			}
			return opts.watchList(cmd, dataFile)
		},
	}

	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "redraw when the data file changes")

	return cmd
}

// printList renders the module list once and returns the data file it read.
func (o *ListOptions) printList(cmd *cobra.Command) (string, error) {
	s, err := o.openSession(cmd, false)
	if err != nil {
		return "", err
	}
	defer s.Close()

	v := newListView(s.tracker.Names(), s.tracker.Records())
	if len(v.Modules) == 0 {
		return s.cfg.DataFile, o.emit(cmd, "No modules tracked\n", v)
	}

	headers := append([]string{"Module"}, v.Parameters...)
	headers = append(headers, "Modified", "Saves")
	rows := make([][]string, len(v.Modules))
	for i, m := range v.Modules {
		row := []string{m.Module}
		for _, val := range m.Values {
			row = append(row, orDash(val))
		}
		rows[i] = append(row, orDash(m.Modified), strconv.Itoa(m.Saves))
	}
	return s.cfg.DataFile, o.emit(cmd, renderTable(headers, rows), v)
}

func (o *ListOptions) watchList(cmd *cobra.Command, dataFile string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := o.log()
	w, err := watch.New(dataFile, watch.DefaultDebounce, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to watch data file", err)
	}
	logger.Info("watching data file", "path", dataFile)

	return w.Run(ctx, func() {
		if _, err := o.printList(cmd); err != nil {
			logger.Error("failed to reload data file", "error", err)
		}
	})
}
