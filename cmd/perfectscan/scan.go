package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"perfectscan/internal/journal"
	"perfectscan/pkg/checkpoint"
	"perfectscan/pkg/config"
	errs "perfectscan/pkg/errors"
	"perfectscan/pkg/logger"
	"perfectscan/pkg/report"
	"perfectscan/pkg/search"
	"perfectscan/pkg/ui"
	"perfectscan/pkg/ui/tui"
)

var (
	checkpointPath  string
	autosaveEvery   time.Duration
	progressEvery   time.Duration
	fresh           bool
	forceFresh      bool
	journalPath     string
	noJournal       bool
	journalCompress bool
	reportPath      string
	useTUI          bool
	bellOnDiscovery bool
	desktopNotify   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run the search, resuming from the checkpoint if one exists",
	Long: `Scan tests every 2^hi - 2^lo candidate below 2^32 for perfection.

The scan checkpoints its position so an interrupted run resumes instead of
starting over. While it runs, type a command and press enter:

  t, status    where the scan is and which discovery it is working toward
  s, summary   the perfect numbers found so far
  c, save      checkpoint now and keep going
  x, exit      checkpoint and stop
  q, quit      stop without saving

SIGINT and SIGTERM behave like exit: the position is saved before stopping.`,
	Example: `  # Start or resume the search
  perfectscan scan

  # Start over, discarding any existing checkpoint
  perfectscan scan --fresh

  # Custom checkpoint location, autosave every 30 seconds
  perfectscan scan --checkpoint state/scan.dat --autosave 30s

  # Full-screen dashboard
  perfectscan scan --tui

  # Compressed discovery journal plus a JSON run report
  perfectscan scan --journal perfects.csv.zst --journal-compress --report run.json`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addScanFlags(scanCmd)
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "checkpoint file path")
	cmd.Flags().DurationVar(&autosaveEvery, "autosave", time.Minute, "interval between automatic saves (0 disables)")
	cmd.Flags().DurationVar(&progressEvery, "progress-interval", 2*time.Second, "interval between progress updates (0 disables)")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "ignore an existing checkpoint and start over")
	cmd.Flags().BoolVar(&forceFresh, "force-fresh", false, "delete the checkpoint and start over, even if it is corrupt")
	cmd.Flags().StringVar(&journalPath, "journal", "", "append discoveries to this CSV file")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "disable the discovery journal")
	cmd.Flags().BoolVar(&journalCompress, "journal-compress", false, "zstd-compress the journal")
	cmd.Flags().StringVar(&reportPath, "report", "", "write a JSON run report to this path")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "full-screen terminal dashboard")
	cmd.Flags().BoolVar(&bellOnDiscovery, "bell", true, "ring the terminal bell on each discovery")
	cmd.Flags().BoolVar(&desktopNotify, "notify", false, "desktop notification on each discovery")
}

// scanFlags collects every flag the operator set on this invocation.
func scanFlags(cmd *cobra.Command) map[string]interface{} {
	flags := globalFlags(cmd)
	if cmd.Flags().Changed("checkpoint") {
		flags["checkpoint"] = checkpointPath
	}
	if cmd.Flags().Changed("autosave") {
		flags["autosave"] = autosaveEvery
	}
	if cmd.Flags().Changed("progress-interval") {
		flags["progress-interval"] = progressEvery
	}
	if cmd.Flags().Changed("journal") {
		flags["journal"] = journalPath
	}
	if cmd.Flags().Changed("no-journal") {
		flags["no-journal"] = noJournal
	}
	if cmd.Flags().Changed("journal-compress") {
		flags["journal-compress"] = journalCompress
	}
	if cmd.Flags().Changed("report") {
		flags["report"] = reportPath
	}
	if cmd.Flags().Changed("tui") {
		flags["tui"] = useTUI
	}
	if cmd.Flags().Changed("bell") {
		flags["bell"] = bellOnDiscovery
	}
	if cmd.Flags().Changed("notify") {
		flags["notify"] = desktopNotify
	}
	return flags
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, scanFlags(cmd))
	if err != nil {
		ui.PrintError("Configuration error", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	log := logger.GetLogger()

	if !cfg.UI.ColorEnabled {
		ui.SetColorEnabled(false)
	}

	manager := checkpoint.NewManager(cfg.Checkpoint.Path)

	var st *search.State
	resumed := false
	switch {
	case forceFresh:
		if manager.Exists() {
			if err := manager.Delete(); err != nil {
				ui.PrintError("Failed to delete checkpoint", err.Error())
				os.Exit(1)
			}
			log.InfoWithFields("checkpoint discarded", map[string]interface{}{
				"path": manager.Path(),
			})
		}
		st = search.NewState()
	case fresh:
		st = search.NewState()
	default:
		loaded, err := manager.Load()
		if err != nil {
			log.WithError(err).Error("cannot load checkpoint")
			ui.PrintError("Checkpoint could not be read", err.Error())
			if errs.IsType(err, errs.ErrorTypeCheckpointCorrupt) {
				fmt.Println("\nTo discard it and start over, run:")
				fmt.Println("  perfectscan scan --force-fresh")
			}
			os.Exit(1)
		}
		if loaded != nil {
			st = loaded
			resumed = true
		} else {
			st = search.NewState()
		}
	}

	engine := search.NewEngine(st, manager, search.Options{
		AutosaveInterval: cfg.Scan.AutosaveInterval,
		ProgressInterval: cfg.Scan.ProgressInterval,
		Logger:           log,
	})

	var jw *journal.Writer
	if cfg.Journal.Enabled && cfg.Journal.Path != "" {
		jw = journal.NewWriter(cfg.Journal.Path, cfg.Journal.Compress, log)
		if err := jw.Start(); err != nil {
			// Journal failures never stop the scan.
			log.WithError(err).Warn("discovery journal disabled")
			ui.PrintWarning("Journal disabled", err.Error())
			jw = nil
		}
	}

	var rep *report.Report
	if cfg.Report.Path != "" {
		rep = &report.Report{
			RunID:     st.RunID,
			StartedAt: time.Now(),
		}
	}

	notifier := ui.NewNotifier(cfg.Scan.Bell && ui.StdoutIsTerminal(), cfg.UI.Notify)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var surface ui.Surface
	var dashboard *tui.TUI
	if cfg.UI.TUI {
		dashboard = tui.New(engine.Commands(), st)
		surface = dashboard
	} else {
		surface = ui.NewScanDisplay(cfg.UI.Quiet)
		if !cfg.UI.Quiet {
			printScanStart(manager, st, resumed, jw, cfg)
		}
		if ui.StdinIsTerminal() {
			// The reader blocks on stdin and cannot be cancelled, so it runs
			// outside the group and is abandoned when the scan ends.
			reader := ui.NewCommandReader(os.Stdin, engine.Commands(), log)
			go func() {
				if err := reader.Run(ctx); err != nil {
					log.WithError(err).Debug("command reader stopped")
				}
			}()
		}
	}

	// The fan-out goroutine is the only consumer of engine events; it feeds
	// the display, the journal, the report, and the notifier, and keeps the
	// final event for the post-run summary.
	var final search.DoneEvent
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Run(gctx)
	})
	g.Go(func() error {
		for ev := range engine.Events() {
			switch ev := ev.(type) {
			case search.DiscoveryEvent:
				notifier.AnnounceDiscovery(ev.Ordinal, ev.Value)
				if jw != nil {
					jw.Record(journal.Entry{
						RunID:          st.RunID,
						Ordinal:        ev.Ordinal,
						Value:          ev.Value,
						HiPower:        ev.Cursor.HiPower,
						LoPower:        ev.Cursor.LoPower,
						ElapsedSeconds: ev.ElapsedSeconds,
						FoundAt:        ev.FoundAt,
					})
				}
				if rep != nil {
					rep.AddDiscovery(report.Discovery{
						Ordinal:        ev.Ordinal,
						Value:          ev.Value,
						HiPower:        ev.Cursor.HiPower,
						LoPower:        ev.Cursor.LoPower,
						ElapsedSeconds: ev.ElapsedSeconds,
						FoundAt:        ev.FoundAt,
					})
				}
			case search.DoneEvent:
				final = ev
				if ev.Reason == search.StopCompleted {
					notifier.AnnounceCompletion(ev.Found)
				}
			}
			surface.HandleEvent(ev)
		}
		return nil
	})
	if dashboard != nil {
		g.Go(func() error {
			return dashboard.Run()
		})
	}

	runErr := g.Wait()

	if jw != nil {
		if err := jw.Stop(); err != nil {
			log.WithError(err).Warn("failed to close discovery journal")
		}
	}

	if rep != nil {
		rep.FinishedAt = time.Now()
		rep.Outcome = final.Reason.String()
		rep.ElapsedSeconds = final.ElapsedSeconds
		rep.CandidatesTested = final.Tested
		rep.Found = final.Found
		rep.Values = final.Values
		rep.Cursor = report.Cursor{HiPower: st.Cursor.HiPower, LoPower: st.Cursor.LoPower}
		rep.Exhausted = st.Cursor.Exhausted()
		if err := rep.Save(cfg.Report.Path); err != nil {
			log.WithError(err).Error("failed to write run report")
			ui.PrintError("Report not written", err.Error())
		} else if !cfg.UI.Quiet {
			ui.PrintInfo("Report", cfg.Report.Path)
		}
	}

	// The dashboard wipes its alternate screen on exit, so replay the
	// outcome on the regular one.
	if dashboard != nil && !cfg.UI.Quiet {
		ui.NewScanDisplay(false).HandleEvent(final)
	}

	if runErr != nil {
		log.WithError(runErr).Error("scan failed")
		ui.PrintError("Scan failed", runErr.Error())
		os.Exit(1)
	}
	return nil
}

func printScanStart(manager *checkpoint.Manager, st *search.State, resumed bool, jw *journal.Writer, cfg *config.Config) {
	ui.PrintInfo("Checkpoint", manager.Path())
	if jw != nil {
		ui.PrintInfo("Journal", cfg.Journal.Path)
	}
	if resumed {
		ui.PrintInfo("Resuming", fmt.Sprintf("%d found, elapsed %s",
			len(st.Results), ui.FormatElapsed(st.ElapsedSeconds)))
	} else {
		ui.PrintInfo("Starting", "from scratch")
	}
	if st.Cursor.Valid() {
		fmt.Println(ui.Cyan(ui.StatusLine(st.Cursor.Value(), st.NextOrdinal())))
	}
	if ui.StdinIsTerminal() {
		ui.PrintMenu()
	}
	fmt.Println()
}
