package frame

import (
	"fmt"
)

// Type is the declared semantic type of a column.
type Type uint8

const (
	TypeString Type = iota
	TypeInt
	TypeFloat
)

// String returns the type name
func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	default:
		return "string"
	}
}

// IsNumeric reports whether columns of this type participate in means,
// imputation and correlations.
func (t Type) IsNumeric() bool {
	return t == TypeInt || t == TypeFloat
}

// Column is a named, typed sequence of cells. A column never holds a
// non-missing Value of a kind other than its declared type.
type Column struct {
	Name   string
	Type   Type
	Values []Value
}

// NewColumn creates a column with the given name, type and cells
func NewColumn(name string, typ Type, values []Value) *Column {
	return &Column{Name: name, Type: typ, Values: values}
}

// Len returns the number of cells
func (c *Column) Len() int {
	return len(c.Values)
}

// IsNumeric reports whether the column participates in numeric operations
func (c *Column) IsNumeric() bool {
	return c.Type.IsNumeric()
}

// clone returns a deep copy of the column
func (c *Column) clone() *Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Type: c.Type, Values: values}
}

// Table is a named, ordered collection of equal-length columns with unique
// names. Row order is the insertion order of the source records.
type Table struct {
	Name string

	cols  []*Column
	index map[string]int
}

// New creates an empty table
func New(name string) *Table {
	return &Table{
		Name:  name,
		index: make(map[string]int),
	}
}

// AddColumn appends a column to the table. The name must be unique and the
// length must match the existing row count.
func (t *Table) AddColumn(c *Column) error {
	if c == nil {
		return fmt.Errorf("cannot add nil column to table %s", t.Name)
	}
	if c.Name == "" {
		return fmt.Errorf("cannot add unnamed column to table %s", t.Name)
	}
	if _, exists := t.index[c.Name]; exists {
		return fmt.Errorf("duplicate column %q in table %s", c.Name, t.Name)
	}
	if len(t.cols) > 0 && c.Len() != t.NumRows() {
		return fmt.Errorf("column %q has %d rows, table %s has %d", c.Name, c.Len(), t.Name, t.NumRows())
	}

	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// Column returns the named column
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Columns returns the columns in order
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// ColumnNames returns the column names in order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// NumCols returns the number of columns
func (t *Table) NumCols() int {
	return len(t.cols)
}

// NumRows returns the number of rows
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// Cell returns the value at the named column and row
func (t *Table) Cell(name string, row int) (Value, bool) {
	c, ok := t.Column(name)
	if !ok || row < 0 || row >= c.Len() {
		return MissingValue(), false
	}
	return c.Values[row], true
}

// RenameColumn changes a column's name in place
func (t *Table) RenameColumn(from, to string) error {
	i, ok := t.index[from]
	if !ok {
		return fmt.Errorf("column %q not found in table %s", from, t.Name)
	}
	if from == to {
		return nil
	}
	if _, exists := t.index[to]; exists {
		return fmt.Errorf("duplicate column %q in table %s", to, t.Name)
	}

	delete(t.index, from)
	t.index[to] = i
	t.cols[i].Name = to
	return nil
}

// Filter returns a new table holding the rows for which keep returns true
func (t *Table) Filter(keep func(row int) bool) *Table {
	rows := t.NumRows()
	kept := make([]int, 0, rows)
	for i := 0; i < rows; i++ {
		if keep(i) {
			kept = append(kept, i)
		}
	}

	out := New(t.Name)
	for _, c := range t.cols {
		values := make([]Value, len(kept))
		for j, i := range kept {
			values[j] = c.Values[i]
		}
		// AddColumn cannot fail here: names come from a valid table
		out.AddColumn(NewColumn(c.Name, c.Type, values))
	}
	return out
}

// Select returns a new table holding copies of the named columns, in the
// given order.
func (t *Table) Select(names []string) (*Table, error) {
	out := New(t.Name)
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("column %q not found in table %s", name, t.Name)
		}
		if err := out.AddColumn(c.clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Append concatenates the rows of other onto t. Both tables must have the
// same column names in the same order; where declared types differ the
// column is promoted (int and float unify to float, anything else unifies
// to string).
func (t *Table) Append(other *Table) error {
	if other.NumCols() != t.NumCols() {
		return fmt.Errorf("cannot append table %s (%d columns) to %s (%d columns)",
			other.Name, other.NumCols(), t.Name, t.NumCols())
	}

	for i, c := range t.cols {
		oc := other.cols[i]
		if oc.Name != c.Name {
			return fmt.Errorf("column %d mismatch appending %s to %s: %q vs %q",
				i, other.Name, t.Name, oc.Name, c.Name)
		}
	}

	for i, c := range t.cols {
		oc := other.cols[i]
		if oc.Type != c.Type {
			target := unifyTypes(c.Type, oc.Type)
			promote(c, target)
			oc = oc.clone()
			promote(oc, target)
		}
		c.Values = append(c.Values, oc.Values...)
	}
	return nil
}

// unifyTypes picks the narrowest type both operands convert to
func unifyTypes(a, b Type) Type {
	if a == b {
		return a
	}
	if a.IsNumeric() && b.IsNumeric() {
		return TypeFloat
	}
	return TypeString
}

// promote converts a column's cells to the target type in place. Missing
// cells stay missing.
func promote(c *Column, target Type) {
	if c.Type == target {
		return
	}
	for i, v := range c.Values {
		if v.IsMissing() {
			continue
		}
		switch target {
		case TypeFloat:
			f, _ := v.Float64()
			c.Values[i] = FloatValue(f)
		case TypeString:
			c.Values[i] = StringValue(v.String())
		}
	}
	c.Type = target
}
