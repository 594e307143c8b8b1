package main

import (
	"os"

	"github.com/YuminosukeSato/synthgen/core/dataset"
	"github.com/YuminosukeSato/synthgen/pkg/config"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
)

// readInput loads the configured CSV and removes drop_columns.
func readInput(c config.Config) (*dataset.Table, error) {
	if c.Input.Path == "" {
		return nil, errors.NewConfigurationError("synthgen", "input.path", "is required", c.Input.Path)
	}
	schema, err := c.Schema()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(c.Input.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "open input %s", c.Input.Path)
	}
	defer f.Close()

	table, err := dataset.ReadCSV(f, dataset.CSVOptions{Delimiter: c.DelimiterRune(), Schema: schema})
	if err != nil {
		return nil, errors.Wrapf(err, "read input %s", c.Input.Path)
	}
	for _, name := range c.Input.DropColumns {
		if table.Position(name) < 0 {
			return nil, errors.NewDataShapeError("synthgen", "drop column "+name+" is not in the input")
		}
	}
	return table.Drop(c.Input.DropColumns...), nil
}

// splitLabels removes the label column from table and returns its values.
// With no label column the labels are nil and the column is nil.
func splitLabels(table *dataset.Table, name string) (*dataset.Table, []float64, *dataset.Column, error) {
	if name == "" {
		return table, nil, nil, nil
	}
	col, ok := table.ColumnByName(name)
	if !ok {
		return nil, nil, nil, errors.NewDataShapeError("synthgen", "label column "+name+" is not in the input")
	}
	labels := append([]float64(nil), col.Values...)
	return table.Drop(name), labels, col, nil
}

// withLabel appends a label column holding class for every row of table.
func withLabel(table *dataset.Table, like *dataset.Column, class float64) (*dataset.Table, error) {
	n := table.NRows()
	var col *dataset.Column
	switch like.Kind {
	case dataset.KindCategory:
		values := make([]string, n)
		for i := range values {
			values[i] = like.Levels[int(class)]
		}
		var err error
		if col, err = dataset.NewCategoryColumnWithLevels(like.Name, values, like.Levels); err != nil {
			return nil, err
		}
	case dataset.KindInt:
		values := make([]int, n)
		for i := range values {
			values[i] = int(class)
		}
		col = dataset.NewIntColumn(like.Name, values)
	default:
		values := make([]float64, n)
		for i := range values {
			values[i] = class
		}
		col = dataset.NewFloatColumn(like.Name, values)
	}
	return table.AddColumn(col)
}
