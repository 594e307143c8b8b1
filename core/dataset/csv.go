package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/synthgen/pkg/errors"
)

// ColumnSpec declares the kind (and, for categories, the levels) of a column.
type ColumnSpec struct {
	Name   string
	Kind   Kind
	Levels []string
}

// CSVOptions controls ReadCSV.
type CSVOptions struct {
	// Delimiter defaults to ','.
	Delimiter rune
	// Schema overrides kind inference for the listed columns.
	Schema []ColumnSpec
}

// ReadCSV reads a headered CSV. Columns without a schema entry are inferred:
// int if every cell parses as an integer, float if every cell parses as a
// number, category otherwise. Empty cells are rejected.
func ReadCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	const op = "dataset.ReadCSV"
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if len(records) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}

	header := records[0]
	rows := records[1:]
	specs := make(map[string]ColumnSpec, len(opts.Schema))
	for _, s := range opts.Schema {
		specs[s.Name] = s
	}

	cols := make([]*Column, len(header))
	for j, name := range header {
		raw := make([]string, len(rows))
		for i, rec := range rows {
			cell := strings.TrimSpace(rec[j])
			if cell == "" {
				return nil, errors.NewDataShapeError(op,
					"column "+strconv.Quote(name)+": empty cell at row "+strconv.Itoa(i+1))
			}
			raw[i] = cell
		}

		spec, ok := specs[name]
		if !ok {
			spec = ColumnSpec{Name: name, Kind: inferKind(raw)}
		}
		col, err := parseColumn(name, spec, raw)
		if err != nil {
			return nil, err
		}
		cols[j] = col
	}
	return NewTable(cols...)
}

func inferKind(raw []string) Kind {
	kind := KindInt
	for _, s := range raw {
		if kind == KindInt {
			if _, err := strconv.ParseInt(s, 10, 64); err == nil {
				continue
			}
			kind = KindFloat
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return KindCategory
		}
	}
	return kind
}

func parseColumn(name string, spec ColumnSpec, raw []string) (*Column, error) {
	const op = "dataset.ReadCSV"
	switch spec.Kind {
	case KindCategory:
		if len(spec.Levels) == 0 {
			return NewCategoryColumn(name, raw), nil
		}
		return NewCategoryColumnWithLevels(name, raw, spec.Levels)
	case KindInt, KindFloat:
		values := make([]float64, len(raw))
		truncated := false
		for i, s := range raw {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errors.NewDataShapeError(op,
					"column "+strconv.Quote(name)+": cannot parse "+strconv.Quote(s)+" as "+spec.Kind.String())
			}
			if spec.Kind == KindInt && v != math.Trunc(v) {
				v = math.Trunc(v)
				truncated = true
			}
			values[i] = v
		}
		if truncated {
			errors.Warn(errors.NewDataConversionWarning(name, "float64", "int", "fractional values truncated toward zero"))
		}
		return &Column{Name: name, Kind: spec.Kind, Values: values}, nil
	}
	return nil, errors.NewConfigurationError(op, "kind", "unsupported column kind", spec.Kind.String())
}

// WriteCSV writes t with a header row.
func WriteCSV(w io.Writer, t *Table, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	if err := cw.Write(t.Names()); err != nil {
		return errors.Wrap(err, "dataset.WriteCSV")
	}
	rec := make([]string, t.NCols())
	for i := 0; i < t.NRows(); i++ {
		for j, c := range t.columns {
			rec[j] = c.Format(i)
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "dataset.WriteCSV")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "dataset.WriteCSV")
}
