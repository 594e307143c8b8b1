// Package synthgen generates synthetic records for imbalanced tables that
// mix continuous and categorical columns, using SMOTE-NC oversampling.
//
// synthgen offers a scikit-learn style API on top of
// gonum matrices, plus a table-level orchestrator that keeps column names,
// kinds and order intact.
//
// # Features
//
//   - SMOTE and SMOTE-NC resamplers over dense and CSR matrices
//   - Mixed distance encoding: categorical one-hot blocks scaled by the
//     median of the minority-class standard deviations
//   - Majority-vote category reconciliation with seeded, fair tie-breaking
//   - Deterministic output for a fixed random state
//   - Structured logging, cockroachdb/errors based error types and
//     Prometheus run metrics
//
// # Installation
//
//	go get github.com/YuminosukeSato/synthgen
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//	    "os"
//
//	    "github.com/YuminosukeSato/synthgen/core/dataset"
//	    "github.com/YuminosukeSato/synthgen/synthesis"
//	)
//
//	func main() {
//	    table, err := dataset.NewTable(
//	        dataset.NewIntColumn("age", []int{23, 31, 45, 52, 38, 29, 61, 47}),
//	        dataset.NewCategoryColumn("city", []string{"A", "B", "C", "A", "B", "C", "A", "B"}),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    labels := []float64{1, 1, 1, 0, 0, 0, 0, 0}
//
//	    cfg := synthesis.DefaultConfig()
//	    cfg.KNeighbors = 2
//	    out, report, err := synthesis.NewAssembler(cfg).Synthesize(context.Background(), table, labels)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    log.Printf("run %s produced %d rows", report.RunID, report.SyntheticRows)
//	    _ = dataset.WriteCSV(os.Stdout, out, ',')
//	}
//
// # Packages
//
//   - synthesis: table-level orchestration (shuffle, resample, cast back)
//   - sklearn/over_sampling: SMOTE, SMOTENC, neighbour search, reconciliation
//   - preprocessing: FeatureSplitter and MixedDistanceEncoder
//   - core/dataset: typed tables, CSV I/O and dtype casting
//   - core/sparse: CSR matrices implementing mat.Matrix
//   - core/model: estimator interfaces and fitted-state tracking
//   - core/parallel: threshold-based parallel loops
//   - metrics: descriptive statistics, correlation and fidelity scores
//   - pkg/config, pkg/log, pkg/errors, pkg/monitoring: ambient stack
//   - cmd/synthgen: command line interface
//
// # Command Line
//
//	synthgen generate --config synthgen.yaml --input in.csv --output out.csv
//	synthgen describe --input in.csv
//	synthgen version
package synthgen
