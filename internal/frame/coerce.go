package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CoerceNumeric reinterprets a column as numeric in place. Cells that do
// not parse as a number become missing; the column type becomes Int when
// every surviving cell is an integer, Float otherwise. Suppressed values
// ("s" and friends) drop out instead of failing the run.
func (t *Table) CoerceNumeric(name string) error {
	c, ok := t.Column(name)
	if !ok {
		return fmt.Errorf("coercion target %q not found in table %s", name, t.Name)
	}

	typ := TypeInt
	for _, v := range c.Values {
		raw := strings.TrimSpace(v.String())
		if v.IsMissing() || raw == "" {
			continue
		}
		if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
			continue
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			typ = TypeFloat
		}
	}

	values := make([]Value, len(c.Values))
	for i, v := range c.Values {
		raw := strings.TrimSpace(v.String())
		if v.IsMissing() || raw == "" {
			values[i] = MissingValue()
			continue
		}
		if typ == TypeInt {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				values[i] = MissingValue()
				continue
			}
			values[i] = IntValue(n)
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			values[i] = MissingValue()
			continue
		}
		values[i] = FloatValue(f)
	}

	c.Type = typ
	c.Values = values
	return nil
}
