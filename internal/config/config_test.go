package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wiretrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "wiretrack.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.Sheet.Enabled())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
data_file: /var/lib/wiretrack/modules.json
journal: /var/lib/wiretrack/journal.db
parameters: [Voltage, Current, Length]
sheet:
  spreadsheet_id: abc123
  name: Wires
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/wiretrack/modules.json", cfg.DataFile)
	assert.Equal(t, "/var/lib/wiretrack/journal.db", cfg.Journal)
	assert.Equal(t, []string{"Voltage", "Current", "Length"}, cfg.Parameters)
	assert.Equal(t, "abc123", cfg.Sheet.SpreadsheetID)
	assert.Equal(t, "Wires", cfg.Sheet.Name)
	assert.Equal(t, "credentials.json", cfg.Sheet.Credentials, "unset fields keep defaults")
	assert.True(t, cfg.Sheet.Enabled())
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "parameters: [unclosed\n")
	_, err := Load(path, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "data_file: from-file.json\n")
	t.Setenv("WIRETRACK_DATA_FILE", "from-env.json")
	t.Setenv("WIRETRACK_SPREADSHEET_ID", "env-sheet")
	t.Setenv("WIRETRACK_PARAMETERS", "Voltage, Current,,")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "from-env.json", cfg.DataFile)
	assert.Equal(t, "env-sheet", cfg.Sheet.SpreadsheetID)
	assert.Equal(t, []string{"Voltage", "Current"}, cfg.Parameters)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty data file", func(c *Config) { c.DataFile = " " }, "data_file"},
		{"empty layout", func(c *Config) { c.TimestampLayout = "" }, "timestamp_layout"},
		{"empty parameter", func(c *Config) { c.Parameters = []string{"V", ""} }, "parameters[1]"},
		{"duplicate parameter", func(c *Config) { c.Parameters = []string{"V", "V"} }, "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
