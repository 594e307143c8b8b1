// Package dataset holds the in-memory tabular representation consumed and
// produced by the synthesizer: named columns typed as int, float or category,
// stored column-major as float64 so they convert to gonum matrices without
// reshaping.
package dataset

import (
	"sort"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/synthgen/core/sparse"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Kind is the logical type of a column.
type Kind int

const (
	// KindInt holds integral values.
	KindInt Kind = iota
	// KindFloat holds real values.
	KindFloat
	// KindCategory holds integer codes into Column.Levels.
	KindCategory
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindCategory:
		return "category"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKind converts "int", "float" or "category" into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "int64", "integer":
		return KindInt, nil
	case "float", "float64", "double":
		return KindFloat, nil
	case "category", "categorical", "string":
		return KindCategory, nil
	}
	return 0, errors.NewConfigurationError("dataset.ParseKind", "kind", "must be one of int, float, category", s)
}

// Column is a named, typed column. Category columns keep codes in Values.
type Column struct {
	Name   string
	Kind   Kind
	Values []float64
	Levels []string
}

// NewIntColumn creates an int column.
func NewIntColumn(name string, values []int) *Column {
	v := make([]float64, len(values))
	for i, x := range values {
		v[i] = float64(x)
	}
	return &Column{Name: name, Kind: KindInt, Values: v}
}

// NewFloatColumn creates a float column. values is not copied.
func NewFloatColumn(name string, values []float64) *Column {
	return &Column{Name: name, Kind: KindFloat, Values: values}
}

// NewCategoryColumn encodes values against the sorted set of distinct values.
func NewCategoryColumn(name string, values []string) *Column {
	seen := make(map[string]struct{}, len(values))
	for _, s := range values {
		seen[s] = struct{}{}
	}
	levels := make([]string, 0, len(seen))
	for s := range seen {
		levels = append(levels, s)
	}
	sort.Strings(levels)

	col, _ := NewCategoryColumnWithLevels(name, values, levels)
	return col
}

// NewCategoryColumnWithLevels encodes values against a fixed level list.
// A value missing from levels is a DataShapeError.
func NewCategoryColumnWithLevels(name string, values, levels []string) (*Column, error) {
	codes := make(map[string]int, len(levels))
	for i, l := range levels {
		codes[l] = i
	}
	v := make([]float64, len(values))
	for i, s := range values {
		c, ok := codes[s]
		if !ok {
			return nil, errors.NewDataShapeError("dataset.NewCategoryColumn",
				"column "+strconv.Quote(name)+": value "+strconv.Quote(s)+" is not a declared level")
		}
		v[i] = float64(c)
	}
	return &Column{Name: name, Kind: KindCategory, Values: v, Levels: append([]string(nil), levels...)}, nil
}

// Len returns the number of rows.
func (c *Column) Len() int {
	return len(c.Values)
}

// Format renders row i the way it appears in CSV output.
func (c *Column) Format(i int) string {
	v := c.Values[i]
	switch c.Kind {
	case KindInt:
		return strconv.FormatInt(int64(v), 10)
	case KindCategory:
		code := int(v)
		if code >= 0 && code < len(c.Levels) {
			return c.Levels[code]
		}
		return ""
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

// Value returns row i as int64, float64 or string depending on Kind.
func (c *Column) Value(i int) interface{} {
	switch c.Kind {
	case KindInt:
		return int64(c.Values[i])
	case KindCategory:
		return c.Format(i)
	default:
		return c.Values[i]
	}
}

func (c *Column) clone(values []float64) *Column {
	return &Column{Name: c.Name, Kind: c.Kind, Values: values, Levels: c.Levels}
}

// Table is an ordered set of equally long columns.
type Table struct {
	columns []*Column
	index   map[string]int
	nrows   int
}

// NewTable validates and assembles columns into a table. Names must be unique,
// lengths equal and category codes valid.
func NewTable(columns ...*Column) (*Table, error) {
	t := &Table{columns: columns, index: make(map[string]int, len(columns))}
	for j, c := range columns {
		if c == nil {
			return nil, errors.NewDataShapeError("dataset.NewTable", "nil column at position "+strconv.Itoa(j))
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, errors.NewDataShapeError("dataset.NewTable", "duplicate column name "+strconv.Quote(c.Name))
		}
		t.index[c.Name] = j
		if j == 0 {
			t.nrows = c.Len()
		} else if c.Len() != t.nrows {
			return nil, errors.NewDimensionError("dataset.NewTable", t.nrows, c.Len(), 0)
		}
		if c.Kind == KindCategory {
			for _, v := range c.Values {
				if v != float64(int(v)) || int(v) < 0 || int(v) >= len(c.Levels) {
					return nil, errors.NewDataShapeError("dataset.NewTable",
						"column "+strconv.Quote(c.Name)+": invalid category code "+strconv.FormatFloat(v, 'g', -1, 64))
				}
			}
		}
	}
	return t, nil
}

// NRows returns the number of rows.
func (t *Table) NRows() int { return t.nrows }

// NCols returns the number of columns.
func (t *Table) NCols() int { return len(t.columns) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for j, c := range t.columns {
		names[j] = c.Name
	}
	return names
}

// Kinds returns the column kinds in order.
func (t *Table) Kinds() []Kind {
	kinds := make([]Kind, len(t.columns))
	for j, c := range t.columns {
		kinds[j] = c.Kind
	}
	return kinds
}

// Column returns the j-th column.
func (t *Table) Column(j int) *Column { return t.columns[j] }

// ColumnByName looks a column up by name.
func (t *Table) ColumnByName(name string) (*Column, bool) {
	j, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[j], true
}

// Position returns the index of the named column or -1.
func (t *Table) Position(name string) int {
	if j, ok := t.index[name]; ok {
		return j
	}
	return -1
}

// CategoricalPositions returns the positions of all category columns.
func (t *Table) CategoricalPositions() []int {
	var pos []int
	for j, c := range t.columns {
		if c.Kind == KindCategory {
			pos = append(pos, j)
		}
	}
	return pos
}

// ToMatrix returns the table as a dense n×p matrix; category columns
// contribute their codes.
func (t *Table) ToMatrix() *mat.Dense {
	if t.nrows == 0 || len(t.columns) == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(t.nrows, len(t.columns), nil)
	for j, c := range t.columns {
		m.SetCol(j, c.Values)
	}
	return m
}

// ToCSR returns the table as a compressed sparse row matrix.
func (t *Table) ToCSR() *sparse.CSR {
	if t.nrows == 0 || len(t.columns) == 0 {
		return sparse.NewCSR(t.nrows, len(t.columns), make([]int, t.nrows+1), nil, nil)
	}
	return sparse.NewCSRFromDense(t.ToMatrix())
}

// Take returns a new table with the rows at idx, in that order.
func (t *Table) Take(idx []int) *Table {
	cols := make([]*Column, len(t.columns))
	for j, c := range t.columns {
		v := make([]float64, len(idx))
		for i, r := range idx {
			v[i] = c.Values[r]
		}
		cols[j] = c.clone(v)
	}
	return &Table{columns: cols, index: t.index, nrows: len(idx)}
}

// Filter keeps the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	idx := make([]int, 0, t.nrows)
	for i := 0; i < t.nrows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return t.Take(idx)
}

// AddColumn returns a new table with c appended.
func (t *Table) AddColumn(c *Column) (*Table, error) {
	cols := make([]*Column, 0, len(t.columns)+1)
	cols = append(cols, t.columns...)
	cols = append(cols, c)
	return NewTable(cols...)
}

// Drop returns a new table without the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) *Table {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	cols := make([]*Column, 0, len(t.columns))
	index := make(map[string]int, len(t.columns))
	for _, c := range t.columns {
		if _, ok := drop[c.Name]; ok {
			continue
		}
		index[c.Name] = len(cols)
		cols = append(cols, c)
	}
	return &Table{columns: cols, index: index, nrows: t.nrows}
}

// CodesView returns a copy where category columns are replaced by int
// columns holding their codes.
func (t *Table) CodesView() *Table {
	cols := make([]*Column, len(t.columns))
	for j, c := range t.columns {
		if c.Kind != KindCategory {
			cols[j] = c
			continue
		}
		cols[j] = &Column{Name: c.Name, Kind: KindInt, Values: c.Values}
	}
	return &Table{columns: cols, index: t.index, nrows: t.nrows}
}

// Records returns each row as a name → value map, for JSON encoding.
func (t *Table) Records() []map[string]interface{} {
	out := make([]map[string]interface{}, t.nrows)
	for i := range out {
		rec := make(map[string]interface{}, len(t.columns))
		for _, c := range t.columns {
			rec[c.Name] = c.Value(i)
		}
		out[i] = rec
	}
	return out
}
