// Package config loads run configuration from a YAML file, SYNTHGEN_*
// environment variables and defaults, and converts it into the explicit
// values consumed by the synthesis pipeline.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/synthgen/core/dataset"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"github.com/YuminosukeSato/synthgen/pkg/log"
	"github.com/YuminosukeSato/synthgen/synthesis"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// SYNTHGEN_SMOTE_K_NEIGHBORS=3.
const EnvPrefix = "SYNTHGEN"

// Config is the root configuration.
type Config struct {
	Input  InputConfig  `mapstructure:"input" yaml:"input"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	SMOTE  SMOTEConfig  `mapstructure:"smote" yaml:"smote"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// InputConfig describes the input table.
type InputConfig struct {
	Path      string `mapstructure:"path" yaml:"path"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	// DropColumns are removed before synthesis.
	DropColumns []string `mapstructure:"drop_columns" yaml:"drop_columns"`
	// LabelColumn holds class labels. When empty all rows share one class.
	LabelColumn string `mapstructure:"label_column" yaml:"label_column"`
	// Columns overrides kind inference for the listed columns.
	Columns []ColumnConfig `mapstructure:"columns" yaml:"columns"`
}

// ColumnConfig declares one column of the input schema.
type ColumnConfig struct {
	Name   string   `mapstructure:"name" yaml:"name"`
	Kind   string   `mapstructure:"kind" yaml:"kind"`
	Levels []string `mapstructure:"levels" yaml:"levels,omitempty"`
}

// OutputConfig describes where results go.
type OutputConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
	// Format is csv or json. Empty means: derive from the path extension.
	Format      string `mapstructure:"format" yaml:"format"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`
}

// SMOTEConfig holds the resampler parameters.
type SMOTEConfig struct {
	KNeighbors       int    `mapstructure:"k_neighbors" yaml:"k_neighbors"`
	RandomState      int64  `mapstructure:"random_state" yaml:"random_state"`
	SamplingStrategy string `mapstructure:"sampling_strategy" yaml:"sampling_strategy"`
	// CategoricalColumns names the categorical columns. When empty, the
	// category-kind columns of the input are used.
	CategoricalColumns []string `mapstructure:"categorical_columns" yaml:"categorical_columns"`
	Sparse             bool     `mapstructure:"sparse" yaml:"sparse"`
}

// LogConfig selects the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Input:  InputConfig{Delimiter: ","},
		Output: OutputConfig{Format: ""},
		SMOTE: SMOTEConfig{
			KNeighbors:       synthesis.DefaultKNeighbors,
			RandomState:      1234,
			SamplingStrategy: "auto",
		},
		Log: LogConfig{Level: "info", Format: log.FormatConsole},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("input.path", d.Input.Path)
	v.SetDefault("input.delimiter", d.Input.Delimiter)
	v.SetDefault("input.drop_columns", []string{})
	v.SetDefault("input.label_column", "")
	v.SetDefault("output.path", "")
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.metrics_file", "")
	v.SetDefault("smote.k_neighbors", d.SMOTE.KNeighbors)
	v.SetDefault("smote.random_state", d.SMOTE.RandomState)
	v.SetDefault("smote.sampling_strategy", d.SMOTE.SamplingStrategy)
	v.SetDefault("smote.categorical_columns", []string{})
	v.SetDefault("smote.sparse", false)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load reads configuration from file, env and defaults.
// Precedence: env > config file > defaults. When cfgFile is empty an
// optional ./synthgen.yaml is read if present.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfgFile)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("synthgen")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return &c, nil
}

// Save writes c as YAML to path, creating parent directories.
func Save(c *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "mkdir config dir")
		}
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal yaml")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrap(err, "write config")
	}
	return nil
}

// Validate checks values that can be judged without the input table.
func (c *Config) Validate() error {
	const op = "config.Validate"
	if c.SMOTE.KNeighbors < 1 {
		return errors.NewConfigurationError(op, "smote.k_neighbors", "must be at least 1", c.SMOTE.KNeighbors)
	}
	switch c.SMOTE.SamplingStrategy {
	case "auto", "minority":
	default:
		return errors.NewConfigurationError(op, "smote.sampling_strategy", "must be auto or minority", c.SMOTE.SamplingStrategy)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.NewConfigurationError(op, "log.level", err.Error(), c.Log.Level)
	}
	switch c.Log.Format {
	case "", log.FormatConsole, log.FormatJSON, log.FormatSlog:
	default:
		return errors.NewConfigurationError(op, "log.format", "must be console, json or slog", c.Log.Format)
	}
	switch c.Output.Format {
	case "", "csv", "json":
	default:
		return errors.NewConfigurationError(op, "output.format", "must be csv or json", c.Output.Format)
	}
	if utf8.RuneCountInString(c.Input.Delimiter) > 1 {
		return errors.NewConfigurationError(op, "input.delimiter", "must be a single character", c.Input.Delimiter)
	}
	for _, col := range c.Input.Columns {
		if _, err := dataset.ParseKind(col.Kind); err != nil {
			return err
		}
	}
	return nil
}

// DelimiterRune returns the input delimiter, ',' when unset.
func (c *Config) DelimiterRune() rune {
	if c.Input.Delimiter == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(c.Input.Delimiter)
	return r
}

// Schema converts the declared columns into dataset column specs.
func (c *Config) Schema() ([]dataset.ColumnSpec, error) {
	specs := make([]dataset.ColumnSpec, 0, len(c.Input.Columns))
	for _, col := range c.Input.Columns {
		kind, err := dataset.ParseKind(col.Kind)
		if err != nil {
			return nil, err
		}
		specs = append(specs, dataset.ColumnSpec{Name: col.Name, Kind: kind, Levels: col.Levels})
	}
	return specs, nil
}

// OutputFormat resolves the output format, falling back to the path
// extension and then to csv.
func (c *Config) OutputFormat() string {
	if c.Output.Format != "" {
		return c.Output.Format
	}
	if strings.EqualFold(filepath.Ext(c.Output.Path), ".json") {
		return "json"
	}
	return "csv"
}

// SynthesisConfig resolves categorical column names against table and
// returns the pipeline configuration. Unknown names fail with DataShapeError.
func (c *Config) SynthesisConfig(table *dataset.Table) (synthesis.Config, error) {
	cfg := synthesis.Config{
		KNeighbors:       c.SMOTE.KNeighbors,
		RandomState:      c.SMOTE.RandomState,
		SamplingStrategy: c.SMOTE.SamplingStrategy,
		Sparse:           c.SMOTE.Sparse,
	}
	if len(c.SMOTE.CategoricalColumns) == 0 {
		return cfg, nil
	}
	cfg.CategoricalColumns = make([]int, 0, len(c.SMOTE.CategoricalColumns))
	for _, name := range c.SMOTE.CategoricalColumns {
		p := table.Position(name)
		if p < 0 {
			return synthesis.Config{}, errors.NewDataShapeError("config.SynthesisConfig",
				"categorical column "+name+" is not in the input")
		}
		cfg.CategoricalColumns = append(cfg.CategoricalColumns, p)
	}
	return cfg, nil
}
