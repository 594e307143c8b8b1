// Package log defines standard attribute keys for resampling operations.
//
// Using these standard keys enables consistent log analysis across the
// encoder, the oversampling engine and the synthesis orchestrator.
//
// The attributes are organized into categories:
//   - Model and Operation Context
//   - Data Shape and Characteristics
//   - Resampling State
//   - Performance
//   - Error Context
//
// These keys follow a hierarchical naming convention (e.g., "model.name",
// "data.samples") to enable structured log analysis and filtering.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the component type.
	// Examples: "SMOTENC", "MixedDistanceEncoder", "Assembler"
	ModelNameKey = "model.name"

	// RunIDKey identifies one synthesis run. All records emitted while
	// producing one output table share the same run ID.
	RunIDKey = "run.id"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "preprocessing", "over_sampling", "synthesis"
	ComponentKey = "ml.component"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// CategoricalFeaturesKey indicates the number of categorical columns.
	CategoricalFeaturesKey = "data.categorical_features"

	// EncodedFeaturesKey indicates the width of the encoded matrix.
	EncodedFeaturesKey = "data.encoded_features"

	// ColumnKey names a single column of a table.
	ColumnKey = "data.column"

	// SparseKey reports whether the sparse (CSR) layout is used.
	SparseKey = "data.sparse"
)

// Resampling State
const (
	// MinorityClassKey records the label chosen as the minority class.
	MinorityClassKey = "resample.minority_class"

	// MinoritySamplesKey records the number of minority rows.
	MinoritySamplesKey = "resample.minority_samples"

	// SyntheticSamplesKey records the number of synthesized rows.
	SyntheticSamplesKey = "resample.synthetic_samples"

	// MedianStdKey records the median of minority standard deviations.
	MedianStdKey = "resample.median_std"

	// KNeighborsKey records the neighbor count.
	KNeighborsKey = "resample.k_neighbors"

	// SamplingStrategyKey records the sampling strategy token.
	SamplingStrategyKey = "resample.sampling_strategy"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Performance
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// WorkersKey records the number of goroutines used by a parallel section.
	WorkersKey = "perf.workers"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values.
const (
	OperationFit         = "fit"
	OperationTransform   = "transform"
	OperationFitResample = "fit_resample"
	OperationSynthesize  = "synthesize"
	OperationDescribe    = "describe"
	OperationInverse     = "inverse_transform"
	OperationReorder     = "reorder"
	OperationNeighbors   = "kneighbors"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidConfig     = "INVALID_CONFIGURATION"
	ErrorDegenerate        = "NUMERIC_DEGENERACY"
	ErrorOversample        = "OVERSAMPLE_FAILURE"
)
