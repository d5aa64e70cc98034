package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	errs "perfectscan/pkg/errors"
)

// Config holds all configuration options for the perfect-number scanner
type Config struct {
	// Scan loop behavior
	Scan ScanConfig `yaml:"scan" json:"scan"`

	// Checkpoint persistence
	Checkpoint CheckpointConfig `yaml:"checkpoint" json:"checkpoint"`

	// Discovery journal
	Journal JournalConfig `yaml:"journal" json:"journal"`

	// End-of-run report
	Report ReportConfig `yaml:"report" json:"report"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Terminal presentation
	UI UIConfig `yaml:"ui" json:"ui"`
}

// ScanConfig holds scan loop configuration
type ScanConfig struct {
	// AutosaveInterval is the minimum spacing between automatic
	// checkpoint saves. Zero disables autosave.
	AutosaveInterval time.Duration `yaml:"autosave_interval" json:"autosave_interval"`

	// ProgressInterval is the minimum spacing between progress events.
	// Zero disables them.
	ProgressInterval time.Duration `yaml:"progress_interval" json:"progress_interval"`

	// Bell rings the terminal bell on each discovery.
	Bell bool `yaml:"bell" json:"bell"`
}

// UnmarshalYAML accepts durations in time.ParseDuration notation ("30s",
// "1m") rather than raw nanoseconds. Omitted keys keep their current values.
func (s *ScanConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		AutosaveInterval string `yaml:"autosave_interval"`
		ProgressInterval string `yaml:"progress_interval"`
		Bell             *bool  `yaml:"bell"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.AutosaveInterval != "" {
		d, err := time.ParseDuration(raw.AutosaveInterval)
		if err != nil {
			return fmt.Errorf("invalid autosave_interval: %w", err)
		}
		s.AutosaveInterval = d
	}
	if raw.ProgressInterval != "" {
		d, err := time.ParseDuration(raw.ProgressInterval)
		if err != nil {
			return fmt.Errorf("invalid progress_interval: %w", err)
		}
		s.ProgressInterval = d
	}
	if raw.Bell != nil {
		s.Bell = *raw.Bell
	}
	return nil
}

// MarshalYAML writes durations back out in the same notation.
func (s ScanConfig) MarshalYAML() (interface{}, error) {
	return struct {
		AutosaveInterval string `yaml:"autosave_interval"`
		ProgressInterval string `yaml:"progress_interval"`
		Bell             bool   `yaml:"bell"`
	}{
		AutosaveInterval: s.AutosaveInterval.String(),
		ProgressInterval: s.ProgressInterval.String(),
		Bell:             s.Bell,
	}, nil
}

// CheckpointConfig holds checkpoint persistence configuration
type CheckpointConfig struct {
	Path string `yaml:"path" json:"path"`
}

// JournalConfig holds discovery journal configuration
type JournalConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Path     string `yaml:"path" json:"path"`
	Compress bool   `yaml:"compress" json:"compress"`
}

// ReportConfig holds end-of-run report configuration
type ReportConfig struct {
	// Path of the JSON report. Empty disables the report.
	Path string `yaml:"path" json:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// UIConfig holds terminal presentation configuration
type UIConfig struct {
	ColorEnabled bool `yaml:"color_enabled" json:"color_enabled"`
	TUI          bool `yaml:"tui" json:"tui"`
	Quiet        bool `yaml:"quiet" json:"quiet"`

	// Notify sends a desktop notification for each discovery in
	// addition to the terminal bell.
	Notify bool `yaml:"notify" json:"notify"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			AutosaveInterval: time.Minute,
			ProgressInterval: 2 * time.Second,
			Bell:             true,
		},
		Checkpoint: CheckpointConfig{
			Path: "PerfectNumbers.dat",
		},
		Journal: JournalConfig{
			Enabled:  true,
			Path:     "perfects.csv",
			Compress: false,
		},
		Report: ReportConfig{
			Path: "", // disabled unless requested
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "",
		},
		UI: UIConfig{
			ColorEnabled: true,
			TUI:          false,
			Quiet:        false,
			Notify:       false,
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if path := os.Getenv("PERFECTSCAN_CHECKPOINT"); path != "" {
		c.Checkpoint.Path = path
	}

	if v := os.Getenv("PERFECTSCAN_AUTOSAVE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			c.Scan.AutosaveInterval = d
		}
	}
	if v := os.Getenv("PERFECTSCAN_PROGRESS_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			c.Scan.ProgressInterval = d
		}
	}
	if v := os.Getenv("PERFECTSCAN_BELL"); v != "" {
		c.Scan.Bell = strings.ToLower(v) == "true"
	}

	if v := os.Getenv("PERFECTSCAN_JOURNAL_ENABLED"); v != "" {
		c.Journal.Enabled = strings.ToLower(v) == "true"
	}
	if path := os.Getenv("PERFECTSCAN_JOURNAL"); path != "" {
		c.Journal.Path = path
	}
	if v := os.Getenv("PERFECTSCAN_JOURNAL_COMPRESS"); v != "" {
		c.Journal.Compress = strings.ToLower(v) == "true"
	}

	if path := os.Getenv("PERFECTSCAN_REPORT"); path != "" {
		c.Report.Path = path
	}

	if level := os.Getenv("PERFECTSCAN_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("PERFECTSCAN_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}
	if file := os.Getenv("PERFECTSCAN_LOG_FILE"); file != "" {
		c.Logging.File = file
	}

	if v := os.Getenv("PERFECTSCAN_COLOR"); v != "" {
		c.UI.ColorEnabled = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("PERFECTSCAN_TUI"); v != "" {
		c.UI.TUI = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("PERFECTSCAN_NOTIFY"); v != "" {
		c.UI.Notify = strings.ToLower(v) == "true"
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		"perfectscan.yaml",
		"perfectscan.yml",
		".perfectscan.yaml",
		".perfectscan.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "perfectscan", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "perfectscan", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".perfectscan.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var violations []error

	if c.Checkpoint.Path == "" {
		violations = append(violations, errors.New("checkpoint path is required"))
	}

	if c.Scan.AutosaveInterval < 0 {
		violations = append(violations, errors.New("autosave interval cannot be negative"))
	}
	if c.Scan.ProgressInterval < 0 {
		violations = append(violations, errors.New("progress interval cannot be negative"))
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		violations = append(violations, errors.New("journal path is required when the journal is enabled"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "warning": true,
		"error": true, "fatal": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		violations = append(violations, errors.New("invalid log level"))
	}

	validLogFormats := map[string]bool{
		"console": true, "json": true, "": true,
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		violations = append(violations, errors.New("invalid log format"))
	}

	if len(violations) > 0 {
		return errors.Join(violations...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only flags the operator actually set end up in the map.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if path, ok := flags["checkpoint"].(string); ok && path != "" {
		c.Checkpoint.Path = path
	}
	if d, ok := flags["autosave"].(time.Duration); ok && d >= 0 {
		c.Scan.AutosaveInterval = d
	}
	if d, ok := flags["progress-interval"].(time.Duration); ok && d >= 0 {
		c.Scan.ProgressInterval = d
	}
	if bell, ok := flags["bell"].(bool); ok {
		c.Scan.Bell = bell
	}
	if path, ok := flags["journal"].(string); ok && path != "" {
		c.Journal.Enabled = true
		c.Journal.Path = path
	}
	if noJournal, ok := flags["no-journal"].(bool); ok && noJournal {
		c.Journal.Enabled = false
	}
	if compress, ok := flags["journal-compress"].(bool); ok {
		c.Journal.Compress = compress
	}
	if path, ok := flags["report"].(string); ok && path != "" {
		c.Report.Path = path
	}
	if level, ok := flags["log-level"].(string); ok && level != "" {
		c.Logging.Level = level
	}
	if format, ok := flags["log-format"].(string); ok && format != "" {
		c.Logging.Format = format
	}
	if file, ok := flags["log-file"].(string); ok && file != "" {
		c.Logging.File = file
	}
	if noColor, ok := flags["no-color"].(bool); ok && noColor {
		c.UI.ColorEnabled = false
	}
	if tui, ok := flags["tui"].(bool); ok {
		c.UI.TUI = tui
	}
	if quiet, ok := flags["quiet"].(bool); ok {
		c.UI.Quiet = quiet
	}
	if notify, ok := flags["notify"].(bool); ok {
		c.UI.Notify = notify
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".perfectscan.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeConfigInvalid, "configuration validation failed", err)
	}

	return config, nil
}
