package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"nycsat/internal/analysis"
	"nycsat/internal/config"
	"nycsat/internal/infrastructure"
	"nycsat/internal/pipeline"
)

func main() {
	dataDir := flag.String("data", "", "directory containing the source files (defaults to data relative to executable)")
	target := flag.String("target", "", "correlation target column (defaults to sat_score)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		paths.DataDir = *dataDir
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if *target != "" {
		cfg.Pipeline.CorrelationTarget = *target
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = paths.GetLogPath("analyzer.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	logger.Info("Starting analysis run",
		slog.String("data_dir", paths.DataDir),
		slog.String("reports_dir", paths.ReportsDir),
		slog.String("target", cfg.Pipeline.CorrelationTarget))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("Interrupt received, stopping after the current stage")
		cancel()
	}()

	registry, err := pipeline.NewDefaultRegistry(cfg, paths, logger)
	if err != nil {
		logger.Error("Failed to assemble pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}

	runner := pipeline.NewRunner(registry, logger)
	state, err := runner.Run(ctx)
	if err != nil {
		infrastructure.WithError(logger, err).Error("Run failed",
			slog.String("run_id", runID(state)))
		os.Exit(1)
	}

	logger.Info("Run completed",
		slog.String("run_id", state.ID),
		slog.Int("schools", state.Combined.NumRows()),
		slog.Int("columns", len(state.Combined.ColumnNames())),
		slog.Int("correlations", len(state.Correlations)),
		slog.Duration("duration", state.Duration()))

	printSummary(state, cfg.Pipeline.CorrelationTarget, paths)
}

func runID(state *pipeline.State) string {
	if state == nil {
		return ""
	}
	return state.ID
}

// printSummary writes a short human-readable recap to stdout. The full
// results live in the report files.
func printSummary(state *pipeline.State, target string, paths *config.Paths) {
	fmt.Printf("Analyzed %d schools, %d districts\n",
		state.Combined.NumRows(), state.Districts.NumRows())

	sorted := analysis.SortByStrength(state.Correlations)
	limit := 10
	fmt.Printf("Strongest correlations with %s:\n", target)
	for _, c := range sorted {
		if c.Column == target {
			continue
		}
		// undefined correlations sort last, nothing useful follows
		if math.IsNaN(c.R) || limit == 0 {
			break
		}
		fmt.Printf("  %-40s %+.4f  (n=%d)\n", c.Column, c.R, c.N)
		limit--
	}

	fmt.Println("Reports:")
	for _, path := range []string{
		paths.CombinedCSV(), paths.CorrelationsCSV(),
		paths.CorrelationsJSON(), paths.DistrictsCSV(),
	} {
		fmt.Printf("  %s\n", path)
	}
}
