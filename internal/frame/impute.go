package frame

import (
	"gonum.org/v1/gonum/stat"
)

// ImputeMissingNumeric fills missing cells of every numeric column in
// place. A column is promoted to float and its missing cells take the mean
// of the present values, or zero when the column has no present values at
// all. String columns are untouched.
func (t *Table) ImputeMissingNumeric() {
	for _, c := range t.cols {
		if !c.IsNumeric() {
			continue
		}

		var present []float64
		for _, v := range c.Values {
			if f, ok := v.Float64(); ok {
				present = append(present, f)
			}
		}
		if len(present) == len(c.Values) {
			continue
		}

		fill := 0.0
		if len(present) > 0 {
			fill = stat.Mean(present, nil)
		}

		promote(c, TypeFloat)
		for i, v := range c.Values {
			if v.IsMissing() {
				c.Values[i] = FloatValue(fill)
			}
		}
	}
}
