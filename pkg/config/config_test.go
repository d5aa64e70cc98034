package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Checkpoint.Path != "PerfectNumbers.dat" {
		t.Errorf("Expected default checkpoint path to be PerfectNumbers.dat, got %s", config.Checkpoint.Path)
	}

	if config.Scan.AutosaveInterval != time.Minute {
		t.Errorf("Expected default autosave interval to be 1m, got %s", config.Scan.AutosaveInterval)
	}

	if !config.Journal.Enabled || config.Journal.Path != "perfects.csv" {
		t.Errorf("Expected journal enabled at perfects.csv, got enabled=%v path=%s",
			config.Journal.Enabled, config.Journal.Path)
	}

	if config.Logging.Level != "info" {
		t.Errorf("Expected default log level to be info, got %s", config.Logging.Level)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("PERFECTSCAN_CHECKPOINT", "/tmp/test-scan.dat")
	os.Setenv("PERFECTSCAN_AUTOSAVE_INTERVAL", "30s")
	os.Setenv("PERFECTSCAN_PROGRESS_INTERVAL", "500ms")
	os.Setenv("PERFECTSCAN_BELL", "false")
	os.Setenv("PERFECTSCAN_JOURNAL", "/tmp/test-journal.csv")
	os.Setenv("PERFECTSCAN_JOURNAL_COMPRESS", "true")
	os.Setenv("PERFECTSCAN_LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("PERFECTSCAN_CHECKPOINT")
		os.Unsetenv("PERFECTSCAN_AUTOSAVE_INTERVAL")
		os.Unsetenv("PERFECTSCAN_PROGRESS_INTERVAL")
		os.Unsetenv("PERFECTSCAN_BELL")
		os.Unsetenv("PERFECTSCAN_JOURNAL")
		os.Unsetenv("PERFECTSCAN_JOURNAL_COMPRESS")
		os.Unsetenv("PERFECTSCAN_LOG_LEVEL")
	}()

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Checkpoint.Path != "/tmp/test-scan.dat" {
		t.Errorf("Expected checkpoint path /tmp/test-scan.dat, got %s", config.Checkpoint.Path)
	}
	if config.Scan.AutosaveInterval != 30*time.Second {
		t.Errorf("Expected autosave interval 30s, got %s", config.Scan.AutosaveInterval)
	}
	if config.Scan.ProgressInterval != 500*time.Millisecond {
		t.Errorf("Expected progress interval 500ms, got %s", config.Scan.ProgressInterval)
	}
	if config.Scan.Bell {
		t.Error("Expected bell to be disabled")
	}
	if config.Journal.Path != "/tmp/test-journal.csv" {
		t.Errorf("Expected journal path /tmp/test-journal.csv, got %s", config.Journal.Path)
	}
	if !config.Journal.Compress {
		t.Error("Expected journal compression to be enabled")
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnvIgnoresBadDuration(t *testing.T) {
	os.Setenv("PERFECTSCAN_AUTOSAVE_INTERVAL", "not-a-duration")
	defer os.Unsetenv("PERFECTSCAN_AUTOSAVE_INTERVAL")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Scan.AutosaveInterval != time.Minute {
		t.Errorf("Bad duration should leave the default, got %s", config.Scan.AutosaveInterval)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "perfectscan.yaml")

	yamlContent := `
scan:
  autosave_interval: 15s
  bell: false
checkpoint:
  path: /data/scan.dat
journal:
  enabled: false
logging:
  level: warn
  format: json
`
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.Checkpoint.Path != "/data/scan.dat" {
		t.Errorf("Expected checkpoint path /data/scan.dat, got %s", config.Checkpoint.Path)
	}
	if config.Scan.AutosaveInterval != 15*time.Second {
		t.Errorf("Expected autosave interval 15s, got %s", config.Scan.AutosaveInterval)
	}
	if config.Journal.Enabled {
		t.Error("Expected journal to be disabled")
	}
	if config.Logging.Level != "warn" || config.Logging.Format != "json" {
		t.Errorf("Expected warn/json logging, got %s/%s", config.Logging.Level, config.Logging.Format)
	}

	// Untouched sections keep their defaults.
	if config.Scan.ProgressInterval != 2*time.Second {
		t.Errorf("Expected default progress interval, got %s", config.Scan.ProgressInterval)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	config := DefaultConfig()
	err := config.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("Expected an error for a missing explicit config path")
	}
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("scan: [not a map"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err == nil {
		t.Error("Expected a parse error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing checkpoint path",
			mutate:  func(c *Config) { c.Checkpoint.Path = "" },
			wantErr: "checkpoint path is required",
		},
		{
			name:    "negative autosave interval",
			mutate:  func(c *Config) { c.Scan.AutosaveInterval = -time.Second },
			wantErr: "autosave interval cannot be negative",
		},
		{
			name:    "journal enabled without path",
			mutate:  func(c *Config) { c.Journal.Path = "" },
			wantErr: "journal path is required",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "invalid log level",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJoinsAllViolations(t *testing.T) {
	config := DefaultConfig()
	config.Checkpoint.Path = ""
	config.Logging.Level = "loud"
	config.Scan.ProgressInterval = -time.Second

	err := config.Validate()
	if err == nil {
		t.Fatal("Expected validation to fail")
	}

	msg := err.Error()
	for _, want := range []string{"checkpoint path", "invalid log level", "progress interval"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Joined validation error missing %q: %v", want, msg)
		}
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	config.MergeCommandLineFlags(map[string]interface{}{
		"checkpoint": "/tmp/other.dat",
		"autosave":   45 * time.Second,
		"no-journal": true,
		"log-level":  "debug",
		"no-color":   true,
		"tui":        true,
	})

	if config.Checkpoint.Path != "/tmp/other.dat" {
		t.Errorf("Expected checkpoint path /tmp/other.dat, got %s", config.Checkpoint.Path)
	}
	if config.Scan.AutosaveInterval != 45*time.Second {
		t.Errorf("Expected autosave interval 45s, got %s", config.Scan.AutosaveInterval)
	}
	if config.Journal.Enabled {
		t.Error("Expected journal to be disabled by --no-journal")
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", config.Logging.Level)
	}
	if config.UI.ColorEnabled {
		t.Error("Expected color to be disabled by --no-color")
	}
	if !config.UI.TUI {
		t.Error("Expected TUI to be enabled")
	}
}

func TestMergeJournalFlagReenables(t *testing.T) {
	config := DefaultConfig()
	config.Journal.Enabled = false

	config.MergeCommandLineFlags(map[string]interface{}{
		"journal": "/tmp/discoveries.csv",
	})

	if !config.Journal.Enabled || config.Journal.Path != "/tmp/discoveries.csv" {
		t.Errorf("Expected journal re-enabled at /tmp/discoveries.csv, got enabled=%v path=%s",
			config.Journal.Enabled, config.Journal.Path)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "perfectscan.yaml")

	yamlContent := `
checkpoint:
  path: /from/file.dat
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	os.Setenv("PERFECTSCAN_LOG_LEVEL", "error")
	defer os.Unsetenv("PERFECTSCAN_LOG_LEVEL")

	config, err := Load(path, map[string]interface{}{
		"checkpoint": "/from/flags.dat",
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Flag beats file.
	if config.Checkpoint.Path != "/from/flags.dat" {
		t.Errorf("Expected flag to win for checkpoint path, got %s", config.Checkpoint.Path)
	}
	// Env beats file.
	if config.Logging.Level != "error" {
		t.Errorf("Expected env to win for log level, got %s", config.Logging.Level)
	}
	// Defaults survive for everything else.
	if config.Journal.Path != "perfects.csv" {
		t.Errorf("Expected default journal path, got %s", config.Journal.Path)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load("", map[string]interface{}{
		"log-level": "loud",
	})
	if err == nil {
		t.Error("Expected Load to reject an invalid merged config")
	}
}
