package pipeline

import (
	"log/slog"

	"nycsat/internal/analysis"
	"nycsat/internal/config"
	"nycsat/internal/dataset"
	"nycsat/internal/exporter"
)

// NewDefaultRegistry wires the canonical stages in execution order: load,
// normalize, coerce, coordinates, condense, merge, impute, derive,
// analyze, districts, export.
func NewDefaultRegistry(cfg *config.Config, paths *config.Paths, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	loader := dataset.NewLoader(logger)
	analyzer := analysis.NewAnalyzer(logger)
	writer := exporter.NewCSVWriter(paths)
	sources := dataset.DefaultSources(cfg.Pipeline.SurveyFields)

	registry := NewRegistry()
	steps := []Step{
		NewLoadStage(loader, paths.DataDir, sources, logger),
		NewNormalizeStage(logger),
		NewCoerceStage(logger),
		NewCoordinatesStage(logger),
		NewCondenseStage(cfg.Pipeline, logger),
		NewMergeStage(logger),
		NewImputeStage(cfg.Pipeline.ImputeMissing, logger),
		NewDeriveStage(logger),
		NewAnalyzeStage(analyzer, cfg.Pipeline.CorrelationTarget, logger),
		NewDistrictsStage(analyzer, logger),
		NewExportStage(writer, cfg.Pipeline.CorrelationTarget, logger),
	}
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
