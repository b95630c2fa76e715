package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FromRecords builds a table from raw delimited records. The first record
// is the header row; every following record must have the same width.
//
// Each column's type is decided once, here: if every non-blank cell parses
// as an integer the column is int, failing that float, failing that string.
// Blank cells are the missing marker regardless of type. String cells keep
// their raw text untouched; numeric parsing ignores surrounding whitespace.
func FromRecords(name string, records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("table %s has no header record", name)
	}

	header := records[0]
	rows := records[1:]

	t := New(name)
	for j, colName := range header {
		if colName == "" {
			return nil, fmt.Errorf("table %s has an empty header name at position %d", name, j)
		}

		raw := make([]string, len(rows))
		for i, rec := range rows {
			if j >= len(rec) {
				return nil, fmt.Errorf("table %s record %d has %d fields, header has %d", name, i+1, len(rec), len(header))
			}
			raw[i] = rec[j]
		}

		if err := t.AddColumn(inferColumn(colName, raw)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// inferColumn decides a column's type from its raw cells and converts them
func inferColumn(name string, raw []string) *Column {
	typ := inferType(raw)

	values := make([]Value, len(raw))
	for i, s := range raw {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			values[i] = MissingValue()
			continue
		}
		switch typ {
		case TypeInt:
			n, _ := strconv.ParseInt(trimmed, 10, 64)
			values[i] = IntValue(n)
		case TypeFloat:
			f, _ := strconv.ParseFloat(trimmed, 64)
			values[i] = FloatValue(f)
		default:
			values[i] = StringValue(s)
		}
	}
	return NewColumn(name, typ, values)
}

// inferType inspects every non-blank cell. A column with no non-blank
// cells is a string column of missing markers.
func inferType(raw []string) Type {
	sawValue := false
	allInt := true
	allFloat := true

	for _, s := range raw {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		sawValue = true

		if allInt {
			if _, err := strconv.ParseInt(trimmed, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			// Literal NaN and Inf text stays textual; letting it through
			// would poison every mean downstream.
			f, err := strconv.ParseFloat(trimmed, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				allFloat = false
			}
		}
		if !allInt && !allFloat {
			return TypeString
		}
	}

	switch {
	case !sawValue:
		return TypeString
	case allInt:
		return TypeInt
	case allFloat:
		return TypeFloat
	default:
		return TypeString
	}
}

// Headers returns the column names, for writers
func (t *Table) Headers() []string {
	return t.ColumnNames()
}

// Records renders every row in canonical text form, missing cells as the
// empty string.
func (t *Table) Records() [][]string {
	rows := t.NumRows()
	out := make([][]string, rows)
	for i := 0; i < rows; i++ {
		rec := make([]string, len(t.cols))
		for j, c := range t.cols {
			rec[j] = c.Values[i].String()
		}
		out[i] = rec
	}
	return out
}
