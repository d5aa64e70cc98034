package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"perfectscan/pkg/ui"
)

var (
	// Version information (set via ldflags at build time)
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	logFormat  string
	logFile    string
	noColor    bool
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "perfectscan",
	Short: "Exhaustive perfect number search below 2^32",
	Long: `perfectscan walks every candidate of the form 2^hi - 2^lo that fits in an
unsigned 32-bit integer, tests each one by summing its proper divisors, and
reports the perfect numbers it finds along the way.

Features:
  - Resumable: progress is checkpointed and the next run picks up where it left off
  - Interactive: query status, list discoveries, save, or quit mid-scan
  - Discovery journal (CSV, optionally zstd-compressed) and JSON run reports
  - Autosave on a timer plus a final save on SIGINT/SIGTERM
  - Full-screen terminal dashboard or plain console output`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:    cobra.NoArgs,
	// Running the bare command starts the scan, same as "perfectscan scan".
	RunE: runScan,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.SetColorEnabled(false)
		}
		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" && !quiet {
			ui.PrintBanner()
			fmt.Println(ui.Dim("version " + version))
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: ./perfectscan.yaml, ~/.config/perfectscan/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress the banner and progress output")

	// Scan flags are registered on the root command too so "perfectscan --tui"
	// works without the subcommand.
	addScanFlags(rootCmd)

	rootCmd.SetVersionTemplate(`perfectscan {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// globalFlags collects the persistent flags the operator actually set, so
// config.Load can layer them over file and environment values.
func globalFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("log-level") {
		flags["log-level"] = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		flags["log-format"] = logFormat
	}
	if cmd.Flags().Changed("log-file") {
		flags["log-file"] = logFile
	}
	if cmd.Flags().Changed("no-color") {
		flags["no-color"] = noColor
	}
	if cmd.Flags().Changed("quiet") {
		flags["quiet"] = quiet
	}
	return flags
}
