package frame

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GroupMeanBy collapses the table to one row per distinct value of the key
// column. Numeric columns become the arithmetic mean of the group's
// present cells (missing when a group has none); non-numeric columns other
// than the key are dropped. Rows with a missing key are dropped. Groups
// are emitted in ascending key order.
func (t *Table) GroupMeanBy(key string) (*Table, error) {
	keyCol, ok := t.Column(key)
	if !ok {
		return nil, fmt.Errorf("group key %q not found in table %s", key, t.Name)
	}

	groups := make(map[string][]int)
	first := make(map[string]Value)
	for i, v := range keyCol.Values {
		if v.IsMissing() {
			continue
		}
		k := v.String()
		if _, seen := groups[k]; !seen {
			first[k] = v
		}
		groups[k] = append(groups[k], i)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := New(t.Name)

	keyValues := make([]Value, len(keys))
	for i, k := range keys {
		keyValues[i] = first[k]
	}
	if err := out.AddColumn(NewColumn(key, keyCol.Type, keyValues)); err != nil {
		return nil, err
	}

	for _, c := range t.cols {
		if c.Name == key || !c.IsNumeric() {
			continue
		}

		values := make([]Value, len(keys))
		for i, k := range keys {
			var present []float64
			for _, row := range groups[k] {
				if f, ok := c.Values[row].Float64(); ok {
					present = append(present, f)
				}
			}
			if len(present) == 0 {
				values[i] = MissingValue()
				continue
			}
			values[i] = FloatValue(stat.Mean(present, nil))
		}
		if err := out.AddColumn(NewColumn(c.Name, TypeFloat, values)); err != nil {
			return nil, err
		}
	}

	return out, nil
}
