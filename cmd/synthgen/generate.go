package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/synthgen/core/dataset"
	"github.com/YuminosukeSato/synthgen/metrics"
	"github.com/YuminosukeSato/synthgen/pkg/config"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"github.com/YuminosukeSato/synthgen/pkg/log"
	"github.com/YuminosukeSato/synthgen/pkg/monitoring"
	"github.com/YuminosukeSato/synthgen/synthesis"
)

type generateOptions struct {
	input       string
	output      string
	format      string
	metricsFile string
	kNeighbors  int
	seed        int64
	sparse      bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Synthesize minority-class rows from a CSV table",
		Example: `  synthgen generate --input people.csv --output synthetic.csv
  synthgen generate --config synthgen.yaml --output synthetic.json --metrics-file run.prom`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *root.cfg
			opts.apply(cmd, &c)
			if err := c.Validate(); err != nil {
				return err
			}
			return runGenerate(cmd.Context(), c, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "input CSV (overrides input.path)")
	f.StringVarP(&opts.output, "output", "o", "", "output file, .csv or .json (overrides output.path; default stdout)")
	f.StringVar(&opts.format, "format", "", "output format: csv or json (overrides output.format)")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format")
	f.IntVarP(&opts.kNeighbors, "k-neighbors", "k", 0, "nearest neighbours (overrides smote.k_neighbors)")
	f.Int64Var(&opts.seed, "seed", 0, "random state (overrides smote.random_state)")
	f.BoolVar(&opts.sparse, "sparse", false, "resample on a sparse matrix (overrides smote.sparse)")
	return cmd
}

func (o *generateOptions) apply(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("input") {
		c.Input.Path = o.input
	}
	if f.Changed("output") {
		c.Output.Path = o.output
	}
	if f.Changed("format") {
		c.Output.Format = o.format
	}
	if f.Changed("metrics-file") {
		c.Output.MetricsFile = o.metricsFile
	}
	if f.Changed("k-neighbors") {
		c.SMOTE.KNeighbors = o.kNeighbors
	}
	if f.Changed("seed") {
		c.SMOTE.RandomState = o.seed
	}
	if f.Changed("sparse") {
		c.SMOTE.Sparse = o.sparse
	}
}

func runGenerate(ctx context.Context, c config.Config, stdout, stderr io.Writer) error {
	logger := log.GetLoggerWithName("cli")

	input, err := readInput(c)
	if err != nil {
		return err
	}
	features, labels, labelCol, err := splitLabels(input, c.Input.LabelColumn)
	if err != nil {
		return err
	}
	synCfg, err := c.SynthesisConfig(features)
	if err != nil {
		return err
	}

	reg := monitoring.NewMetrics()
	asm := synthesis.NewAssembler(synCfg, synthesis.WithMetrics(reg))
	synthetic, report, runErr := asm.Synthesize(ctx, features, labels)
	if c.Output.MetricsFile != "" {
		if err := writeMetrics(reg, c.Output.MetricsFile); err != nil {
			logger.Error("failed to write metrics", err, "metrics.file", c.Output.MetricsFile)
		}
	}
	if runErr != nil {
		return runErr
	}

	reference := minorityRows(features, labels, report.MinorityClass)
	result := synthetic
	if labelCol != nil {
		if result, err = withLabel(synthetic, labelCol, report.MinorityClass); err != nil {
			return err
		}
	}

	summary := stdout
	if c.Output.Path == "" {
		if err := writeTable(stdout, result, c.OutputFormat(), c.DelimiterRune()); err != nil {
			return err
		}
		summary = stderr
	} else if err := writeFile(c.Output.Path, result, c.OutputFormat(), c.DelimiterRune()); err != nil {
		return err
	}

	logger.Info("generate finished",
		log.RunIDKey, report.RunID.String(),
		"output.path", c.Output.Path,
		"output.rows", result.NRows(),
	)
	return renderReport(summary, report, reference, synthetic)
}

// minorityRows returns the rows of table labelled class. Without labels
// every row belongs to the single class.
func minorityRows(t *dataset.Table, labels []float64, class float64) *dataset.Table {
	if labels == nil {
		return t
	}
	return t.Filter(func(i int) bool { return labels[i] == class })
}

func writeFile(path string, t *dataset.Table, format string, delimiter rune) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "mkdir output dir")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create output %s", path)
	}
	if err := writeTable(f, t, format, delimiter); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close output")
}

func writeTable(w io.Writer, t *dataset.Table, format string, delimiter rune) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(t.Records()), "encode json")
	}
	return dataset.WriteCSV(w, t, delimiter)
}

func writeMetrics(m *monitoring.Metrics, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create metrics file %s", path)
	}
	if err := m.WriteText(f); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close metrics file")
}

func renderReport(w io.Writer, r *synthesis.Report, reference, synthetic *dataset.Table) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Synthesis Run")
	t.AppendRows([]table.Row{
		{"Run ID", r.RunID.String()},
		{"Input rows", r.InputRows},
		{"Minority class", fmt.Sprintf("%g", r.MinorityClass)},
		{"Minority rows", r.MinorityRows},
		{"Synthetic rows", r.SyntheticRows},
		{"median_std", fmt.Sprintf("%.6g", r.MedianStd)},
		{"Duration", r.Duration.String()},
	})
	t.Render()

	if synthetic.NRows() == 0 || reference.NRows() == 0 {
		return nil
	}
	fid, err := metrics.Compare(reference.CodesView(), synthetic.CodesView())
	if err != nil {
		return err
	}
	t = table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Fidelity vs minority rows")
	t.AppendHeader(table.Row{"METRIC", "VALUE"})
	t.AppendRows([]table.Row{
		{"Columns", len(fid.Columns)},
		{"Mean MAE", fmt.Sprintf("%.6g", fid.MeanMAE)},
		{"Std RMSE", fmt.Sprintf("%.6g", fid.StdRMSE)},
		{"Correlation RMSE", fmt.Sprintf("%.6g", fid.CorrelationRMSE)},
	})
	t.Render()
	return nil
}
