package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"perfectscan/pkg/checkpoint"
	"perfectscan/pkg/config"
	"perfectscan/pkg/search"
	"perfectscan/pkg/ui"
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Inspect or remove checkpoint files",
}

var checkpointShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Show what a checkpoint contains",
	Long: `Show reads a checkpoint without modifying it and prints the saved
position, elapsed time, and discoveries. With no argument the configured
checkpoint path is used.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runCheckpointShow,
}

var checkpointDeleteCmd = &cobra.Command{
	Use:   "delete [path]",
	Short: "Delete a checkpoint, so the next scan starts over",
	Args:  cobra.MaximumNArgs(1),
	Run:   runCheckpointDelete,
}

func init() {
	rootCmd.AddCommand(checkpointCmd)
	checkpointCmd.AddCommand(checkpointShowCmd)
	checkpointCmd.AddCommand(checkpointDeleteCmd)
}

// resolveCheckpointPath prefers an explicit argument over the configured path.
func resolveCheckpointPath(cmd *cobra.Command, args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	cfg, err := config.Load(configFile, globalFlags(cmd))
	if err != nil {
		ui.PrintError("Configuration error", err.Error())
		os.Exit(1)
	}
	return cfg.Checkpoint.Path
}

func runCheckpointShow(cmd *cobra.Command, args []string) {
	manager := checkpoint.NewManager(resolveCheckpointPath(cmd, args))

	if !manager.Exists() {
		ui.PrintWarning("No checkpoint file", manager.Path())
		fmt.Println("The next scan starts fresh.")
		return
	}

	info, err := manager.Info()
	if err != nil {
		ui.PrintError("Checkpoint could not be read", err.Error())
		fmt.Println("\nTo discard it and start over, run:")
		fmt.Println("  perfectscan scan --force-fresh")
		os.Exit(1)
	}

	ui.PrintHighlight("Checkpoint")
	ui.PrintInfo("Path", info.Path)
	ui.PrintInfo("Size", fmt.Sprintf("%d bytes", info.Size))
	ui.PrintInfo("Modified", info.ModTime.Format(time.RFC1123))
	ui.PrintInfo("Elapsed", ui.FormatElapsed(info.ElapsedSeconds))
	ui.PrintInfo("Found", fmt.Sprintf("%d", len(info.Values)))
	for i, v := range info.Values {
		fmt.Printf("    #%d  %s\n", i+1, ui.Yellow(fmt.Sprintf("%d", v)))
	}

	if info.Legacy {
		ui.PrintWarning("Legacy file without a resume position; the next scan rescans from the start")
		return
	}

	if info.Cursor.Exhausted() {
		ui.PrintSuccess("Search space exhausted: nothing left to scan")
		return
	}
	ui.PrintInfo("Position", fmt.Sprintf("%s (%d of %d candidates done)",
		info.Cursor.String(), info.Cursor.Index(), search.CandidateCount))
	ui.PrintInfo("Next", fmt.Sprintf("%d", info.Cursor.Value()))
}

func runCheckpointDelete(cmd *cobra.Command, args []string) {
	manager := checkpoint.NewManager(resolveCheckpointPath(cmd, args))

	if !manager.Exists() {
		ui.PrintWarning("No checkpoint file", manager.Path())
		return
	}

	if err := manager.Delete(); err != nil {
		ui.PrintError("Failed to delete checkpoint", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess(fmt.Sprintf("Deleted %s", manager.Path()))
}
