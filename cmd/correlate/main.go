package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"nycsat/internal/analysis"
	"nycsat/internal/config"
	"nycsat/internal/exporter"
	"nycsat/internal/frame"
	"nycsat/internal/infrastructure"
)

func main() {
	in := flag.String("in", "", "combined csv to analyze (defaults to data/reports/combined.csv)")
	target := flag.String("target", config.SATScoreColumn, "correlation target column")
	out := flag.String("out", "", "optional output csv for the sorted correlations")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if *in == "" {
		*in = paths.CombinedCSV()
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = paths.GetLogPath("correlate.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	logger.Info("Computing correlations",
		slog.String("input", *in),
		slog.String("target", *target))

	table, err := readTable(*in)
	if err != nil {
		logger.Error("Cannot read input", slog.String("error", err.Error()))
		os.Exit(1)
	}

	analyzer := analysis.NewAnalyzer(logger)
	correlations, err := analyzer.Correlations(table, *target)
	if err != nil {
		logger.Error("Correlation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sorted := analysis.SortByStrength(correlations)
	for _, c := range sorted {
		if c.Column == *target {
			continue
		}
		if math.IsNaN(c.R) {
			fmt.Printf("%-40s      n/a  (n=%d)\n", c.Column, c.N)
			continue
		}
		fmt.Printf("%-40s  %+.4f  (n=%d)\n", c.Column, c.R, c.N)
	}

	if *out != "" {
		writer := exporter.NewCSVWriter(paths)
		if err := writer.WriteCorrelations(sorted, *out); err != nil {
			logger.Error("Cannot write output", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Correlations written", slog.String("path", *out))
	}
}

// readTable loads a combined csv back into a table, tolerating the BOM
// our exporter writes.
func readTable(path string) (*frame.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\uFEFF")
	}
	return frame.FromRecords("combined", records)
}
