package exporter

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"nycsat/internal/analysis"
)

// CorrelationReport is the JSON form of one correlation run.
type CorrelationReport struct {
	GeneratedAt  time.Time           `json:"generated_at"`
	TraceID      string              `json:"trace_id,omitempty"`
	Target       string              `json:"target"`
	Rows         int                 `json:"rows"`
	Correlations []CorrelationRecord `json:"correlations"`
}

// CorrelationRecord mirrors analysis.Correlation with a JSON-safe r:
// NaN serializes as null.
type CorrelationRecord struct {
	Column string   `json:"column"`
	R      *float64 `json:"r"`
	N      int      `json:"n"`
}

// NewCorrelationReport assembles the JSON report payload, stamped with the
// current time.
func NewCorrelationReport(target string, rows int, correlations []analysis.Correlation) CorrelationReport {
	records := make([]CorrelationRecord, len(correlations))
	for i, c := range correlations {
		records[i] = CorrelationRecord{Column: c.Column, N: c.N}
		if !math.IsNaN(c.R) {
			r := c.R
			records[i].R = &r
		}
	}
	return CorrelationReport{
		GeneratedAt:  time.Now().UTC(),
		Target:       target,
		Rows:         rows,
		Correlations: records,
	}
}

// WriteCorrelations writes the correlations as a CSV report in the order
// given. A NaN correlation renders as an empty field, the way a suppressed
// score renders in the combined table.
func (w *CSVWriter) WriteCorrelations(correlations []analysis.Correlation, filePath string) error {
	records := make([][]string, 0, len(correlations))
	for _, c := range correlations {
		r := ""
		if !math.IsNaN(c.R) {
			r = strconv.FormatFloat(c.R, 'f', -1, 64)
		}
		records = append(records, []string{c.Column, r, strconv.Itoa(c.N)})
	}
	return w.WriteSimpleCSV(filePath, []string{"column", "r", "n"}, records)
}

// WriteCorrelationReport writes the report as indented JSON
func (w *CSVWriter) WriteCorrelationReport(report CorrelationReport, filePath string) error {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal correlation report: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write correlation report: %w", err)
	}
	return nil
}
