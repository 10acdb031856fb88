// Package main provides the coreburn CLI entry point. Run without arguments
// to start the interactive bench; subcommands cover headless use.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"coreburn/cmd/coreburn/tui"
	"coreburn/cmd/coreburn/ui"
	"coreburn/internal/config"
	"coreburn/internal/hardware"
	"coreburn/internal/logging"
	"coreburn/internal/results"
	"coreburn/internal/stress"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Run flags
	runDuration time.Duration
	runCores    int

	// History flags
	historyLimit int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "coreburn",
	Short: "coreburn - terminal CPU stress bench",
	Long: `coreburn runs timed CPU stress tests and charts utilization live.

One worker goroutine per selected core spins a Fibonacci loop until the
timer expires; throughput is scored as one point per million iterations.
Finished runs are kept in a local history database.

Run without arguments to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive mode owns the terminal and logs to a file instead.
		if cmd.Use == "coreburn" && cmd.CalledAs() == "coreburn" {
			return nil
		}
		var err error
		logger, err = logging.NewCLILogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a headless burn and print the score",
	Long: `Runs a stress test without the TUI. Progress goes to the log;
the final score is printed to stdout.

Example:
  coreburn run --duration 30s --cores 4`,
	RunE: runHeadless,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show logical cores, current per-core usage, and RAM",
	RunE:  showInfo,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs from the history database",
	RunE:  showHistory,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.coreburn/config.yaml)")

	runCmd.Flags().DurationVar(&runDuration, "duration", 30*time.Second, "How long to burn")
	runCmd.Flags().IntVar(&runCores, "cores", 1, "How many logical cores to burn")

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum runs to list")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg
}

func historyPath() string {
	return filepath.Join(config.Dir(), "history.db")
}

// runInteractive launches the TUI.
func runInteractive() error {
	cfg := loadConfig()

	sampler, err := hardware.NewSampler()
	if err != nil {
		return fmt.Errorf("reading hardware info: %w", err)
	}

	fileLogger, err := logging.NewFileLogger(filepath.Join(config.Dir(), "logs"), cfg.LogLevel)
	if err != nil {
		// Not fatal: the bench works without a log file.
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		fileLogger = zap.NewNop()
	}

	var store *results.Store
	if cfg.HistoryEnabled {
		store, err = results.Open(historyPath())
		if err != nil {
			fileLogger.Warn("history unavailable", zap.Error(err))
			store = nil
		}
	}

	model := tui.New(cfg, sampler, stress.NewRunner(), store, fileLogger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if m, ok := final.(tui.Model); ok {
		m.Shutdown()
	}
	if store != nil {
		_ = store.Close()
	}
	_ = fileLogger.Sync()
	if err != nil {
		return fmt.Errorf("interface error: %w", err)
	}
	return nil
}

// runHeadless executes a burn without the TUI.
func runHeadless(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	sampler, err := hardware.NewSampler()
	if err != nil {
		return fmt.Errorf("reading hardware info: %w", err)
	}
	cores := runCores
	if cores < 1 {
		cores = 1
	}
	if cores > sampler.LogicalCores() {
		cores = sampler.LogicalCores()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	logger.Info("burn started",
		zap.Duration("duration", runDuration),
		zap.Int("cores", cores))
	started := time.Now()

	res, err := stress.NewRunner().Run(ctx, runDuration, cores)
	if err != nil {
		logger.Info("burn cancelled", zap.Uint64("partial_score", res.Score))
		fmt.Printf("Cancelled. Partial score: %d\n", res.Score)
		return nil
	}

	usages, _ := sampler.CoreUsages()
	avg := hardware.Average(usages)
	logger.Info("burn finished",
		zap.Uint64("score", res.Score),
		zap.Duration("elapsed", res.Elapsed))

	fmt.Printf("Score: %d (%d cores, %s)\n", res.Score, res.Cores, res.Elapsed.Round(time.Millisecond))

	if cfg.HistoryEnabled {
		store, err := results.Open(historyPath())
		if err != nil {
			logger.Warn("history unavailable", zap.Error(err))
			return nil
		}
		defer store.Close()
		if _, err := store.Record(results.Run{
			StartedAt:     started,
			DurationSecs:  int64(runDuration / time.Second),
			Cores:         res.Cores,
			Score:         res.Score,
			AvgCPUPercent: avg,
		}); err != nil {
			logger.Warn("recording run failed", zap.Error(err))
		}
	}
	return nil
}

// showInfo prints a hardware snapshot.
func showInfo(cmd *cobra.Command, args []string) error {
	sampler, err := hardware.NewSampler()
	if err != nil {
		return fmt.Errorf("reading hardware info: %w", err)
	}

	// Give the usage counters a window to produce a real delta.
	time.Sleep(500 * time.Millisecond)
	usages, err := sampler.CoreUsages()
	if err != nil {
		return fmt.Errorf("sampling cpu: %w", err)
	}
	mem, err := sampler.Memory()
	if err != nil {
		return fmt.Errorf("sampling memory: %w", err)
	}

	fmt.Printf("Logical cores: %d\n", sampler.LogicalCores())
	fmt.Printf("RAM: %d MB / %d MB\n", mem.Used/1024/1024, mem.Total/1024/1024)
	fmt.Println("Per-core usage:")
	for _, u := range usages {
		fmt.Printf("  %-6s %5.1f%%\n", u.Name, u.Percent)
	}
	return nil
}

// showHistory prints recent runs.
func showHistory(cmd *cobra.Command, args []string) error {
	store, err := results.Open(historyPath())
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	runs, err := store.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	table := ui.NewSimpleTable("", []string{"Started", "Duration", "Cores", "Score", "Avg CPU"})
	for _, r := range runs {
		table.AddRow(
			r.StartedAt.Format("2006-01-02 15:04"),
			(time.Duration(r.DurationSecs) * time.Second).String(),
			fmt.Sprintf("%d", r.Cores),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%.1f%%", r.AvgCPUPercent),
		)
	}
	fmt.Print(table.View(ui.DefaultStyles()))

	if best, ok, err := store.Best(); err == nil && ok {
		fmt.Printf("Best score: %d (%s)\n", best.Score, best.StartedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
