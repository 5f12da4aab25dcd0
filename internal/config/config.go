// Package config loads wiretrack settings from a YAML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, WIRETRACK_*
// environment variables. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/wiretrack/internal/record"
)

// DefaultPath is the config file read when none is given explicitly.
const DefaultPath = "wiretrack.yaml"

// Config holds all wiretrack settings.
type Config struct {
	// DataFile is the local JSON record cache.
	DataFile string `yaml:"data_file"`

	// Journal is the SQLite operation log. Empty disables journaling.
	Journal string `yaml:"journal"`

	// TimestampLayout is a Go time layout for save timestamps.
	TimestampLayout string `yaml:"timestamp_layout"`

	// Parameters names the tracked values. When empty the names are read
	// from the spreadsheet header.
	Parameters []string `yaml:"parameters"`

	Sheet SheetConfig `yaml:"sheet"`
}

// SheetConfig locates the Google spreadsheet.
type SheetConfig struct {
	SpreadsheetID string `yaml:"spreadsheet_id"`
	Name          string `yaml:"name"`
	Credentials   string `yaml:"credentials"`
}

// Enabled reports whether a spreadsheet is configured.
func (s SheetConfig) Enabled() bool {
	return s.SpreadsheetID != ""
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DataFile:        "modules.json",
		TimestampLayout: record.DefaultTimestampLayout,
		Sheet: SheetConfig{
			Name:        "Sheet1",
			Credentials: "credentials.json",
		},
	}
}

// Load reads the config file at path and applies environment overrides.
//
// When explicit is false a missing file is not an error: the defaults (plus
// environment) are returned instead.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from WIRETRACK_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	overrides := []struct {
		key   string
		field *string
	}{
		{"WIRETRACK_DATA_FILE", &c.DataFile},
		{"WIRETRACK_JOURNAL", &c.Journal},
		{"WIRETRACK_SPREADSHEET_ID", &c.Sheet.SpreadsheetID},
		{"WIRETRACK_SHEET_NAME", &c.Sheet.Name},
		{"WIRETRACK_CREDENTIALS", &c.Sheet.Credentials},
	}
	for _, o := range overrides {
		if v, ok := lookup(o.key); ok {
			*o.field = v
		}
	}
	if v, ok := lookup("WIRETRACK_PARAMETERS"); ok {
		c.Parameters = splitList(v)
	}
}

// Validate checks the settings for obvious mistakes.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("config: data_file must not be empty")
	}
	if c.TimestampLayout == "" {
		return fmt.Errorf("config: timestamp_layout must not be empty")
	}
	seen := make(map[string]bool, len(c.Parameters))
	for i, name := range c.Parameters {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("config: parameters[%d] is empty", i)
		}
		if seen[name] {
			return fmt.Errorf("config: duplicate parameter %q", name)
		}
		seen[name] = true
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
