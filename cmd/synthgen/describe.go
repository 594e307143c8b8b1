package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/synthgen/core/dataset"
	"github.com/YuminosukeSato/synthgen/metrics"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
)

// sectionRenderer writes one report section for a table.
type sectionRenderer func(w io.Writer, t *dataset.Table) error

// reportSections maps section names to their renderers.
var reportSections = map[string]sectionRenderer{
	"schema":      renderSchema,
	"summary":     renderSummary,
	"correlation": renderCorrelation,
}

// defaultSections is the render order when --section is not given.
var defaultSections = []string{"schema", "summary", "correlation"}

func newDescribeCmd(root *rootOptions) *cobra.Command {
	var (
		input    string
		sections []string
	)
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print schema, descriptive statistics and correlations of a CSV table",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *root.cfg
			if cmd.Flags().Changed("input") {
				c.Input.Path = input
			}
			t, err := readInput(c)
			if err != nil {
				return err
			}
			return renderSections(cmd.OutOrStdout(), t, sections)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "input CSV (overrides input.path)")
	cmd.Flags().StringSliceVar(&sections, "section", defaultSections, "sections to render: "+strings.Join(sectionNames(), ", "))
	return cmd
}

func sectionNames() []string {
	names := make([]string, 0, len(reportSections))
	for name := range reportSections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func renderSections(w io.Writer, t *dataset.Table, sections []string) error {
	for _, name := range sections {
		render, ok := reportSections[name]
		if !ok {
			return errors.NewConfigurationError("synthgen describe", "section", "must be one of "+strings.Join(sectionNames(), ", "), name)
		}
		if err := render(w, t); err != nil {
			return errors.Wrapf(err, "render %s", name)
		}
	}
	return nil
}

func renderSchema(w io.Writer, t *dataset.Table) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle("Schema")
	tw.AppendHeader(table.Row{"COLUMN", "KIND", "LEVELS"})
	for j := 0; j < t.NCols(); j++ {
		col := t.Column(j)
		tw.AppendRow(table.Row{col.Name, col.Kind.String(), strings.Join(col.Levels, ",")})
	}
	tw.AppendFooter(table.Row{"ROWS", t.NRows(), ""})
	tw.Render()
	return nil
}

func renderSummary(w io.Writer, t *dataset.Table) error {
	summaries, err := metrics.Describe(t.CodesView())
	if err != nil {
		return err
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle("Summary")
	tw.AppendHeader(table.Row{"COLUMN", "COUNT", "MEAN", "STD", "MIN", "25%", "50%", "75%", "MAX", "MODE"})
	for _, s := range summaries {
		tw.AppendRow(table.Row{
			s.Name, s.Count, num(s.Mean), num(s.Std), num(s.Min),
			num(s.Q25), num(s.Median), num(s.Q75), num(s.Max), num(s.Mode),
		})
	}
	tw.Render()
	return nil
}

func renderCorrelation(w io.Writer, t *dataset.Table) error {
	if t.NRows() < 2 {
		return nil
	}
	corr, err := metrics.Correlation(t.CodesView())
	if err != nil {
		return err
	}
	if len(corr.Names) == 0 {
		return nil
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle("Correlation")
	header := table.Row{""}
	for _, n := range corr.Names {
		header = append(header, n)
	}
	tw.AppendHeader(header)
	for i, n := range corr.Names {
		row := table.Row{n}
		for j := range corr.Names {
			row = append(row, fmt.Sprintf("%.4f", corr.Values.At(i, j)))
		}
		tw.AppendRow(row)
	}
	tw.Render()
	return nil
}

func num(v float64) string {
	return fmt.Sprintf("%.4g", v)
}
