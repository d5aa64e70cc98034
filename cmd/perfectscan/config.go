package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"perfectscan/pkg/config"
	"perfectscan/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage perfectscan configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (PERFECTSCAN_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'perfectscan.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	// Determine config file path
	configPath := configFile
	if configPath == "" {
		configPath = "perfectscan.yaml"
	}

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	// Create example configuration
	exampleConfig := `# perfectscan configuration file
#
# This file contains all available configuration options.
# Every option can also be set with an environment variable prefixed
# with PERFECTSCAN_, for example: PERFECTSCAN_CHECKPOINT,
# PERFECTSCAN_AUTOSAVE_INTERVAL. Command line flags override both.

# Scan loop behavior
scan:
  # Minimum time between automatic checkpoint saves ("30s", "1m", "1h30m").
  # "0" disables autosave; progress is then only saved when the scan stops.
  autosave_interval: "1m"

  # Minimum time between progress updates. "0" disables them.
  progress_interval: "2s"

  # Ring the terminal bell when a perfect number is found
  bell: true

# Checkpoint persistence
checkpoint:
  # The scan position and discoveries are saved here between runs
  path: "PerfectNumbers.dat"

# Discovery journal
journal:
  # Append one CSV row per discovery
  enabled: true

  # Journal file path
  path: "perfects.csv"

  # Compress the journal with zstd
  compress: false

# End-of-run report
report:
  # Write a JSON summary of each run to this path
  # Leave empty to disable
  path: ""

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log format: console, json
  format: "console"

  # Log file path (optional)
  # Leave empty to log to the console only
  file: ""

# Terminal presentation
ui:
  # Enable colored output
  color_enabled: true

  # Full-screen dashboard instead of plain console output
  tui: false

  # Suppress the banner and progress output
  quiet: false

  # Desktop notification on each discovery
  notify: false
`

	// Write configuration file
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Adjust paths and intervals to taste")
	fmt.Println("2. Run 'perfectscan config validate' to check the configuration")
	fmt.Println("3. Start searching with 'perfectscan scan'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(configFile, globalFlags(cmd))
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Convert to YAML for display
	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	// Show configuration sources
	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (PERFECTSCAN_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (searched in standard locations)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	// Check if config file is specified
	if configFile == "" {
		// Try to find config file in common locations
		possiblePaths := []string{
			"perfectscan.yaml",
			"perfectscan.yml",
			".perfectscan.yaml",
			".perfectscan.yml",
			filepath.Join(os.Getenv("HOME"), ".config", "perfectscan", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "perfectscan", "config.yml"),
			filepath.Join(os.Getenv("HOME"), ".perfectscan.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	// Try to load and validate configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	// Perform additional validation checks
	warnings := []string{}
	errors := []string{}

	// Check paths
	if dir := filepath.Dir(cfg.Checkpoint.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create checkpoint directory: %v", err))
		}
	}
	if cfg.Journal.Enabled && cfg.Journal.Path != "" {
		if dir := filepath.Dir(cfg.Journal.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("Cannot create journal directory: %v", err))
			}
		}
	}
	if cfg.Report.Path != "" {
		if dir := filepath.Dir(cfg.Report.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("Cannot create report directory: %v", err))
			}
		}
	}
	if cfg.Logging.File != "" {
		if dir := filepath.Dir(cfg.Logging.File); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("Cannot create log directory: %v", err))
			}
		}
	}

	// Check operational choices
	if cfg.Scan.AutosaveInterval == 0 {
		warnings = append(warnings, "Autosave is disabled; progress is only saved when the scan stops cleanly")
	}
	if !cfg.Journal.Enabled {
		warnings = append(warnings, "Discovery journal is disabled")
	}
	if cfg.UI.TUI && cfg.UI.Quiet {
		warnings = append(warnings, "quiet has no effect on the full-screen dashboard")
	}

	// Display results
	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	// Show summary
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Checkpoint: %s\n", cfg.Checkpoint.Path)
	fmt.Printf("  Autosave: %s\n", cfg.Scan.AutosaveInterval)
	fmt.Printf("  Progress updates: %s\n", cfg.Scan.ProgressInterval)
	if cfg.Journal.Enabled {
		fmt.Printf("  Journal: %s\n", cfg.Journal.Path)
	} else {
		fmt.Println("  Journal: disabled")
	}
	if cfg.Report.Path != "" {
		fmt.Printf("  Report: %s\n", cfg.Report.Path)
	} else {
		fmt.Println("  Report: disabled")
	}
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
