// Package analysis computes the statistics of the combined table: Pearson
// correlations against the target score and per-district aggregates.
package analysis

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	apperrors "nycsat/internal/errors"
	"nycsat/internal/frame"
)

// Correlation is the Pearson correlation of one column against the target,
// over the rows where both values are present. R is NaN when fewer than two
// complete pairs exist or when either side has zero variance.
type Correlation struct {
	Column string  `json:"column"`
	R      float64 `json:"r"`
	N      int     `json:"n"`
}

// Analyzer computes correlations and district aggregates over a table.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger.With("component", "analyzer")}
}

// Correlations computes the Pearson correlation of every numeric column
// against the target column, in the table's column order. The target itself
// is included and correlates to 1. Non-numeric columns are skipped. A NaN
// result is reported, never raised as an error.
func (a *Analyzer) Correlations(table *frame.Table, target string) ([]Correlation, error) {
	targetCol, ok := table.Column(target)
	if !ok {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("target column %q not found in table %s", target, table.Name))
	}
	if !targetCol.IsNumeric() {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("target column %q is not numeric", target))
	}

	results := make([]Correlation, 0, table.NumCols())
	for _, col := range table.Columns() {
		if !col.IsNumeric() {
			continue
		}
		r, n := pearson(col, targetCol)
		results = append(results, Correlation{Column: col.Name, R: r, N: n})
	}

	a.logger.Debug("computed correlations",
		slog.String("target", target),
		slog.Int("columns", len(results)))

	return results, nil
}

// Districts aggregates the table by school district, averaging every numeric
// column. Rows with a missing district are dropped.
func (a *Analyzer) Districts(table *frame.Table, districtColumn string) (*frame.Table, error) {
	grouped, err := table.GroupMeanBy(districtColumn)
	if err != nil {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("district aggregation failed: %v", err))
	}

	a.logger.Debug("aggregated districts",
		slog.String("key", districtColumn),
		slog.Int("districts", grouped.NumRows()))

	return grouped, nil
}

// pearson computes the correlation over pairwise-complete observations.
func pearson(col, target *frame.Column) (float64, int) {
	n := col.Len()
	if target.Len() < n {
		n = target.Len()
	}

	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		x, xok := col.Values[i].Float64()
		y, yok := target.Values[i].Float64()
		if !xok || !yok {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}

	if len(xs) < 2 {
		return math.NaN(), len(xs)
	}

	r := stat.Correlation(xs, ys, nil)
	// Rounding can push a perfect correlation a hair outside [-1, 1].
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, len(xs)
}

// SortByStrength returns a copy ordered by |r| descending. NaN results sink
// to the end; ties keep their original order.
func SortByStrength(correlations []Correlation) []Correlation {
	sorted := make([]Correlation, len(correlations))
	copy(sorted, correlations)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].R, sorted[j].R
		aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
		if aNaN || bNaN {
			return !aNaN && bNaN
		}
		return math.Abs(a) > math.Abs(b)
	})
	return sorted
}
