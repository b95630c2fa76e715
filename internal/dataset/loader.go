package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	apperrors "nycsat/internal/errors"
	"nycsat/internal/frame"
)

// Loader reads source files into frame tables. One Loader serves a whole
// run; it keeps no per-file state.
type Loader struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewLoader creates a loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger.With("component", "loader"),
		validate: validator.New(),
	}
}

// Load reads every source under dataDir into a table, keyed by source
// name. Any structural problem (missing file, empty file, bad header,
// absent projection column) fails the whole load and names the offending
// file.
func (l *Loader) Load(ctx context.Context, dataDir string, sources []Source) (map[string]*frame.Table, error) {
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		return nil, apperrors.NewConfigError(fmt.Sprintf("data directory does not exist: %s", dataDir), err)
	}

	tables := make(map[string]*frame.Table, len(sources))
	for _, src := range sources {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("load cancelled: %w", ctx.Err())
		default:
		}

		if err := l.validate.Struct(src); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("invalid source definition %q", src.Name), err)
		}
		if _, dup := tables[src.Name]; dup {
			return nil, apperrors.NewConfigError(fmt.Sprintf("duplicate source name %q", src.Name), nil)
		}

		table, err := l.LoadSource(ctx, dataDir, src)
		if err != nil {
			return nil, err
		}
		tables[src.Name] = table
	}

	return tables, nil
}

// LoadSource reads a single source into a table
func (l *Loader) LoadSource(ctx context.Context, dataDir string, src Source) (*frame.Table, error) {
	path, format, err := l.resolve(dataDir, src)
	if err != nil {
		return nil, err
	}

	var records [][]string
	switch format {
	case FormatXLSX:
		records, err = readWorkbook(path)
	default:
		records, err = readDelimited(path, format, src.Encoding)
	}
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read source %q", src.Name), err).
			WithContext("file", path)
	}
	if len(records) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("source file is empty: %s", path), nil)
	}

	records = normalizeWidth(records, l.logger, path)

	table, err := frame.FromRecords(src.Name, records)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to build table %q", src.Name), err).
			WithContext("file", path)
	}

	if len(src.Columns) > 0 {
		projected, err := table.Select(src.Columns)
		if err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("source %q is missing a required column", src.Name), err).
				WithContext("file", path)
		}
		table = projected
	}

	l.logger.InfoContext(ctx, "loaded source",
		slog.String("table", src.Name),
		slog.String("file", filepath.Base(path)),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumCols()))

	return table, nil
}

// resolve locates the source file. When the named file is absent but a
// sibling .xlsx workbook exists, the workbook is loaded instead; the data
// portal distributes several of these sets as Excel.
func (l *Loader) resolve(dataDir string, src Source) (string, Format, error) {
	path := filepath.Join(dataDir, src.File)
	if fileExists(path) {
		return path, src.Format, nil
	}

	ext := filepath.Ext(src.File)
	if ext != ".xlsx" {
		alt := filepath.Join(dataDir, strings.TrimSuffix(src.File, ext)+".xlsx")
		if fileExists(alt) {
			l.logger.Debug("falling back to workbook variant",
				slog.String("table", src.Name),
				slog.String("file", filepath.Base(alt)))
			return alt, FormatXLSX, nil
		}
	}

	return "", src.Format, apperrors.NewNotFoundError(fmt.Sprintf("source file %s", path))
}

// readDelimited reads a CSV or TSV file into raw records, transcoding
// windows-1252 sources to UTF-8 on the fly.
func readDelimited(path string, format Format, encoding Encoding) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if encoding == EncodingWindows1252 {
		r = transform.NewReader(file, charmap.Windows1252.NewDecoder())
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	if format == FormatTSV {
		reader.Comma = '\t'
		reader.LazyQuotes = true
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	stripBOM(records)
	return records, nil
}

// readWorkbook reads the first sheet of an Excel workbook into raw records
func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// normalizeWidth pads short records and truncates long ones to the header
// width so a ragged export cannot shift cells between columns.
func normalizeWidth(records [][]string, logger *slog.Logger, path string) [][]string {
	width := len(records[0])
	padded, truncated := 0, 0

	for i := 1; i < len(records); i++ {
		switch {
		case len(records[i]) < width:
			padded++
			rec := make([]string, width)
			copy(rec, records[i])
			records[i] = rec
		case len(records[i]) > width:
			truncated++
			records[i] = records[i][:width]
		}
	}

	if padded > 0 || truncated > 0 {
		logger.Debug("normalized ragged records",
			slog.String("file", filepath.Base(path)),
			slog.Int("padded", padded),
			slog.Int("truncated", truncated))
	}
	return records
}

// stripBOM removes a UTF-8 byte order mark from the first header cell
func stripBOM(records [][]string) {
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\uFEFF")
	}
}

// fileExists reports whether the path exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
