package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wiretrack/internal/config"
	"github.com/roach88/wiretrack/internal/journal"
	"github.com/roach88/wiretrack/internal/record"
	"github.com/roach88/wiretrack/internal/sheet"
)

var testNames = []string{"Voltage", "Current"}

// cliEnv runs commands against a temp data file, a temp journal and an
// in-memory spreadsheet.
type cliEnv struct {
	t      *testing.T
	dir    string
	config string
	clock  *record.FixedClock
	sheet  *sheet.Memory
}

type cliResult struct {
	stdout string
	stderr string
	code   int
}

func newCLIEnv(t *testing.T, stamps ...string) *cliEnv {
	t.Helper()
	env := &cliEnv{
		t:     t,
		dir:   t.TempDir(),
		clock: record.NewFixedClock(stamps...),
		sheet: sheet.NewMemory(sheet.DefaultHeader(testNames)),
	}
	env.config = env.path("wiretrack.yaml")
	env.writeConfig(fmt.Sprintf(`data_file: %q
journal: %q
parameters: [Voltage, Current]
sheet:
  spreadsheet_id: test-sheet
`, env.path("modules.json"), env.path("journal.db")))
	return env
}

func (e *cliEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

func (e *cliEnv) writeConfig(body string) {
	e.t.Helper()
	require.NoError(e.t, os.WriteFile(e.config, []byte(body), 0o644))
}

func (e *cliEnv) run(args ...string) cliResult {
	e.t.Helper()
	opts := &RootOptions{
		Clock: e.clock,
		SheetFactory: func(ctx context.Context, sc config.SheetConfig) (sheet.Sheet, error) {
			return e.sheet, nil
		},
	}
	var stdout, stderr bytes.Buffer
	code := execute(opts, append([]string{"--config", e.config}, args...), &stdout, &stderr)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// mustRun runs a command that is expected to succeed.
func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	res := e.run(args...)
	require.Equal(e.t, ExitSuccess, res.code, "wiretrack %v\nstdout: %s\nstderr: %s", args, res.stdout, res.stderr)
	return res.stdout
}

func decodeData(t *testing.T, out string, data interface{}) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, data))
}

func decodeError(t *testing.T, out string) CLIError {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	return *resp.Error
}

// seed builds the two-module fixture used by the golden tests.
func seed(t *testing.T) *cliEnv {
	env := newCLIEnv(t, "2024-01-01 10:00:00", "2024-01-02 10:00:00")
	env.mustRun("init", "W-1")
	env.mustRun("save", "W-1", "5V", "2A")
	env.mustRun("save", "W-1", "6V", "2A")
	env.mustRun("init", "W-2")
	return env
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestListJSONGolden(t *testing.T) {
	env := seed(t)
	out := env.mustRun("--format", "json", "list")
	newGoldie(t).Assert(t, "list", []byte(out))
}

func TestExportDryRunJSONGolden(t *testing.T) {
	env := seed(t)
	out := env.mustRun("--format", "json", "export", "--dry-run")
	newGoldie(t).Assert(t, "export_dry_run", []byte(out))
}

func TestListEmpty(t *testing.T) {
	env := newCLIEnv(t)
	out := env.mustRun("list")
	assert.Equal(t, "No modules tracked\n", out)
}

func TestListText(t *testing.T) {
	env := seed(t)
	out := env.mustRun("list")
	for _, want := range []string{"Module", "Voltage", "Current", "W-1", "6V", "2024-01-02 10:00:00", "W-2"} {
		assert.Contains(t, out, want)
	}
}

func TestInitAndSave(t *testing.T) {
	env := newCLIEnv(t, "2024-01-01 10:00:00")

	assert.Equal(t, "Initialized W-1\n", env.mustRun("init", " W-1 "))
	assert.Equal(t, "Saved W-1 at 2024-01-01 10:00:00\n", env.mustRun("save", "W-1", "5V", "2A"))

	var v showView
	decodeData(t, env.mustRun("--format", "json", "show", "W-1"), &v)
	assert.Equal(t, "W-1", v.Module)
	assert.Equal(t, []parameterValue{{"Voltage", "5V"}, {"Current", "2A"}}, v.Parameters)
	assert.Equal(t, "2024-01-01 10:00:00", v.Created)
	assert.Equal(t, "2024-01-01 10:00:00", v.Modified)
	require.Len(t, v.History, 1)
}

func TestInitWithValues(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("init", "W-1", "5V", "2A")

	var v showView
	decodeData(t, env.mustRun("--format", "json", "show", "W-1"), &v)
	assert.Equal(t, "5V", v.Parameters[0].Value)
	assert.Empty(t, v.Created)
	assert.Empty(t, v.History)
}

func TestRejectedOperations(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"duplicate init", []string{"init", "W-1"}, "DUPLICATE_KEY"},
		{"save unknown", []string{"save", "W-9", "5V", "2A"}, "NOT_FOUND"},
		{"save wrong count", []string{"save", "W-1", "5V"}, "INVALID_INPUT"},
		{"show unknown", []string{"show", "W-9"}, "NOT_FOUND"},
		{"delete unknown", []string{"delete", "W-9"}, "NOT_FOUND"},
		{"revert without history", []string{"revert", "W-1"}, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)
			env.mustRun("init", "W-1")

			res := env.run(append([]string{"--format", "json"}, tt.args...)...)
			assert.Equal(t, ExitFailure, res.code)
			assert.Equal(t, tt.code, decodeError(t, res.stdout).Code)
		})
	}
}

func TestRejectedOperationText(t *testing.T) {
	env := newCLIEnv(t)
	res := env.run("show", "W-9")
	assert.Equal(t, ExitFailure, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Error [NOT_FOUND]")
	assert.Contains(t, res.stderr, "module=W-9")
}

func TestDelete(t *testing.T) {
	env := seed(t)
	assert.Equal(t, "Deleted W-1\n", env.mustRun("delete", "W-1"))

	res := env.run("show", "W-1")
	assert.Equal(t, ExitFailure, res.code)

	var v listView
	decodeData(t, env.mustRun("--format", "json", "list"), &v)
	require.Len(t, v.Modules, 1)
	assert.Equal(t, "W-2", v.Modules[0].Module)
}

func TestDeleteEchoesNormalizedID(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("init", "caf\u00e9")

	out := env.mustRun("delete", " cafe\u0301 ")
	assert.Equal(t, "Deleted caf\u00e9\n", out)
}

func TestRevert(t *testing.T) {
	env := newCLIEnv(t, "2024-01-01 10:00:00", "2024-01-02 10:00:00", "2024-01-03 10:00:00")
	env.mustRun("init", "W-1")
	env.mustRun("save", "W-1", "5V", "2A")
	env.mustRun("save", "W-1", "6V", "3A")

	out := env.mustRun("revert", "W-1")
	assert.Equal(t, "Reverted W-1 to [5V, 2A] at 2024-01-03 10:00:00\n", out)

	var v showView
	decodeData(t, env.mustRun("--format", "json", "history", "W-1"), &v)
	require.Len(t, v.History, 3)
	assert.Equal(t, []string{"5V", "2A"}, v.History[2].Parameters)
	assert.Equal(t, "2024-01-03 10:00:00", v.Modified)

	res := env.run("revert", "W-1", "--steps", "5")
	assert.Equal(t, ExitFailure, res.code)
}

func TestHistoryText(t *testing.T) {
	env := seed(t)
	out := env.mustRun("history", "W-1")
	assert.Contains(t, out, "2024-01-01 10:00:00")
	assert.Contains(t, out, "5V")

	assert.Equal(t, "W-2 has no saved history\n", env.mustRun("history", "W-2"))
}

func TestExportWritesSheet(t *testing.T) {
	env := seed(t)
	env.sheet = sheet.NewMemory()

	assert.Equal(t, "Exported 4 rows\n", env.mustRun("export"))
	assert.Equal(t, [][]string{
		{"Timestamp", "Module ID", "Voltage", "Current"},
		{"2024-01-02 10:00:00", "W-1", "6V", "2A"},
		{"2024-01-02 10:00:00", "W-1", "6V", "2A"},
		{"2024-01-01 10:00:00", "W-1", "5V", "2A"},
		{"", "W-2", "", ""},
	}, env.sheet.Snapshot())
}

func TestImport(t *testing.T) {
	env := newCLIEnv(t)
	env.sheet = sheet.NewMemory(
		sheet.DefaultHeader(testNames),
		[]string{"2024-03-01 09:00:00", "W-7", "12V", "1A"},
		[]string{"2024-03-01 09:00:00", "", "12V", "1A"},
	)

	out := env.mustRun("import")
	assert.Equal(t, "Imported: 1 created, 0 updated, 0 unchanged, 1 skipped\n", out)

	var v showView
	decodeData(t, env.mustRun("--format", "json", "show", "W-7"), &v)
	assert.Equal(t, "12V", v.Parameters[0].Value)
	assert.Equal(t, "2024-03-01 09:00:00", v.Modified)
}

func TestImportHeaderMismatch(t *testing.T) {
	env := newCLIEnv(t)
	env.sheet = sheet.NewMemory([]string{"Timestamp", "Module ID", "Current", "Voltage"})

	res := env.run("--format", "json", "import")
	assert.Equal(t, ExitFailure, res.code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, res.stdout).Code)
}

func TestImportEmptySheet(t *testing.T) {
	env := newCLIEnv(t)
	env.sheet = sheet.NewMemory()

	out := env.mustRun("import")
	assert.Equal(t, "Imported: 0 created, 0 updated, 0 unchanged, 0 skipped\n", out)
}

func TestExportHeaderMismatch(t *testing.T) {
	env := seed(t)
	env.sheet = sheet.NewMemory([]string{"Timestamp", "Module ID", "Current", "Voltage"})

	res := env.run("--format", "json", "export")
	assert.Equal(t, ExitFailure, res.code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, res.stdout).Code)
	assert.Equal(t, [][]string{{"Timestamp", "Module ID", "Current", "Voltage"}}, env.sheet.Snapshot())
}

func TestSheetOutage(t *testing.T) {
	env := seed(t)
	env.sheet.Fail = errors.New("quota exceeded")

	res := env.run("--format", "json", "export")
	assert.Equal(t, ExitCommandError, res.code)
	assert.Equal(t, "EXTERNAL_IO", decodeError(t, res.stdout).Code)
}

func TestParametersFromSheetHeader(t *testing.T) {
	env := newCLIEnv(t, "2024-01-01 10:00:00")
	env.writeConfig(fmt.Sprintf("data_file: %q\nsheet:\n  spreadsheet_id: test-sheet\n", env.path("modules.json")))
	env.sheet = sheet.NewMemory([]string{"Timestamp", "Module ID", "Length"})

	env.mustRun("init", "W-1")
	env.mustRun("save", "W-1", "3m")

	var v listView
	decodeData(t, env.mustRun("--format", "json", "list"), &v)
	assert.Equal(t, []string{"Length"}, v.Parameters)
}

func TestNoParameters(t *testing.T) {
	env := newCLIEnv(t)
	env.writeConfig(fmt.Sprintf("data_file: %q\n", env.path("modules.json")))

	res := env.run("list")
	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "cannot resolve parameters")
}

func TestSheetRawCommands(t *testing.T) {
	env := newCLIEnv(t)

	assert.Equal(t, "Appended row with 3 values\n", env.mustRun("sheet", "append", "x", "W-1", "5V"))
	assert.Equal(t, "Timestamp | Module ID | Voltage | Current\nx | W-1 | 5V\n", env.mustRun("sheet", "read"))

	assert.Equal(t, "Sheet cleared\n", env.mustRun("sheet", "clear"))
	var rows [][]string
	decodeData(t, env.mustRun("--format", "json", "sheet", "read"), &rows)
	assert.Empty(t, rows)
}

func TestJournalCommand(t *testing.T) {
	env := seed(t)
	env.mustRun("delete", "W-2")

	var entries []journal.Entry
	decodeData(t, env.mustRun("--format", "json", "journal", "--module", "W-1"), &entries)
	require.Len(t, entries, 3)
	assert.Equal(t, journal.OpInitialize, entries[0].Op)
	assert.Equal(t, journal.OpSave, entries[1].Op)
	assert.Equal(t, []string{"6V", "2A"}, entries[2].Parameters)

	var latest []journal.Entry
	decodeData(t, env.mustRun("--format", "json", "journal", "--limit", "1"), &latest)
	require.Len(t, latest, 1)
	assert.Equal(t, journal.OpDelete, latest[0].Op)
	assert.Equal(t, "W-2", latest[0].ModuleID)

	var saves []journal.Entry
	decodeData(t, env.mustRun("--format", "json", "journal", "--op", "save"), &saves)
	assert.Len(t, saves, 2)

	res := env.run("journal", "--op", "bogus")
	assert.Equal(t, ExitCommandError, res.code)
}

func TestJournalDisabled(t *testing.T) {
	env := newCLIEnv(t)
	env.writeConfig(fmt.Sprintf("data_file: %q\nparameters: [Voltage, Current]\n", env.path("modules.json")))

	res := env.run("journal")
	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "no journal configured")
}

func TestDataFlagOverridesConfig(t *testing.T) {
	env := newCLIEnv(t)
	other := env.path("other.json")
	env.mustRun("--data", other, "init", "W-1")

	_, err := os.Stat(other)
	require.NoError(t, err)
	assert.Equal(t, "No modules tracked\n", env.mustRun("list"))
}
