package exporter

import (
	"fmt"

	"nycsat/internal/frame"
)

// WriteTable streams a frame table to a CSV report one row at a time.
// Missing cells render as empty fields; floats keep their minimal
// round-trip form.
func (w *CSVWriter) WriteTable(table *frame.Table, filePath string) error {
	stream, err := w.CreateStreamWriter(filePath, table.ColumnNames())
	if err != nil {
		return err
	}

	cols := table.Columns()
	record := make([]string, len(cols))
	for row := 0; row < table.NumRows(); row++ {
		for i, c := range cols {
			record[i] = c.Values[row].String()
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write row %d of table %s: %w", row, table.Name, err)
		}
	}

	return stream.Close()
}
