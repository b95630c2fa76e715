package frame

import (
	"fmt"
)

// JoinKind selects how unmatched left rows are treated by Join.
type JoinKind uint8

const (
	// LeftJoin keeps every left row, filling unmatched right cells with
	// the missing marker.
	LeftJoin JoinKind = iota
	// InnerJoin keeps only left rows with a matching right key.
	InnerJoin
)

// String returns the join kind name
func (k JoinKind) String() string {
	if k == InnerJoin {
		return "inner"
	}
	return "left"
}

// Join merges right into left on the shared key column. The right table
// must have unique, non-missing keys (condense first); the result row
// count is therefore never larger than the left row count. Right columns
// whose names collide with an existing column are renamed
// "<name>_<right table name>" so the result is deterministic for any merge
// order. A left row with a missing key never matches.
func Join(left, right *Table, key string, kind JoinKind) (*Table, error) {
	leftKey, ok := left.Column(key)
	if !ok {
		return nil, fmt.Errorf("join key %q not found in table %s", key, left.Name)
	}
	rightKey, ok := right.Column(key)
	if !ok {
		return nil, fmt.Errorf("join key %q not found in table %s", key, right.Name)
	}

	rightIndex := make(map[string]int, rightKey.Len())
	for i, v := range rightKey.Values {
		if v.IsMissing() {
			continue
		}
		k := v.String()
		if _, dup := rightIndex[k]; dup {
			return nil, fmt.Errorf("duplicate join key %q in table %s", k, right.Name)
		}
		rightIndex[k] = i
	}

	// Decide which left rows survive
	leftRows := left.NumRows()
	rows := make([]int, 0, leftRows)
	matches := make([]int, 0, leftRows)
	for i := 0; i < leftRows; i++ {
		match := -1
		if v := leftKey.Values[i]; !v.IsMissing() {
			if j, ok := rightIndex[v.String()]; ok {
				match = j
			}
		}
		if kind == InnerJoin && match < 0 {
			continue
		}
		rows = append(rows, i)
		matches = append(matches, match)
	}

	out := New(left.Name)

	for _, c := range left.cols {
		values := make([]Value, len(rows))
		for j, i := range rows {
			values[j] = c.Values[i]
		}
		if err := out.AddColumn(NewColumn(c.Name, c.Type, values)); err != nil {
			return nil, err
		}
	}

	for _, c := range right.cols {
		if c.Name == key {
			continue
		}
		name := c.Name
		if out.HasColumn(name) {
			name = name + "_" + right.Name
		}

		values := make([]Value, len(rows))
		for j, m := range matches {
			if m < 0 {
				values[j] = MissingValue()
				continue
			}
			values[j] = c.Values[m]
		}
		if err := out.AddColumn(NewColumn(name, c.Type, values)); err != nil {
			return nil, err
		}
	}

	return out, nil
}
