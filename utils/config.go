package utils

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds benchmark configuration
type Config struct {
	Rows     int      `mapstructure:"rows" yaml:"rows"`
	Seed     uint64   `mapstructure:"seed" yaml:"seed"`
	Trials   int      `mapstructure:"trials" yaml:"trials"`
	Backends []string `mapstructure:"backends" yaml:"backends"`

	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`
	Output   string `mapstructure:"output" yaml:"output"`
	CSV      string `mapstructure:"csv" yaml:"csv"`
	Metrics  string `mapstructure:"metrics" yaml:"metrics"`
	DPI      int    `mapstructure:"dpi" yaml:"dpi"`

	ProbeRow      int     `mapstructure:"probe_row" yaml:"probe_row"`
	ProbeCol      int     `mapstructure:"probe_col" yaml:"probe_col"`
	Atol          float64 `mapstructure:"atol" yaml:"atol"`
	Rtol          float64 `mapstructure:"rtol" yaml:"rtol"`
	CkksTolerance float64 `mapstructure:"ckks_tolerance" yaml:"ckks_tolerance"`
	CkksLogN      int     `mapstructure:"ckks_log_n" yaml:"ckks_log_n"`
	CkksDepth     int     `mapstructure:"ckks_depth" yaml:"ckks_depth"`

	Workers  int    `mapstructure:"workers" yaml:"workers"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	Trace    bool   `mapstructure:"trace" yaml:"trace"`
}

// DefaultConfig returns the configuration of the reference benchmark run.
func DefaultConfig() Config {
	return Config{
		Rows:          10_000,
		Seed:          123,
		Trials:        3,
		Backends:      []string{"ragged", "nested@cpu", "sparse", "loop"},
		CacheDir:      "bench_cache",
		Output:        "bench_compound_mul.png",
		CSV:           "bench_compound_mul.csv",
		Metrics:       "bench_compound_mul.prom",
		DPI:           300,
		ProbeRow:      10,
		ProbeCol:      1,
		Atol:          1e-7,
		Rtol:          1e-7,
		CkksTolerance: 1e-5,
		CkksLogN:      14,
		CkksDepth:     3,
		Workers:       runtime.GOMAXPROCS(0),
		LogLevel:      "info",
	}
}

// ValidateConfig validates benchmark configuration
func ValidateConfig(config *Config) error {
	var errs []error

	if config.Rows <= 0 {
		errs = append(errs, fmt.Errorf("rows must be positive, got %d", config.Rows))
	}
	if config.Trials <= 0 {
		errs = append(errs, fmt.Errorf("trials must be positive, got %d", config.Trials))
	}
	if len(config.Backends) == 0 {
		errs = append(errs, errors.New("at least one backend is required"))
	}
	if config.ProbeRow < 0 || config.ProbeCol < 0 || config.ProbeCol > config.ProbeRow {
		errs = append(errs, fmt.Errorf("probe (%d,%d) is outside the triangular dataset", config.ProbeRow, config.ProbeCol))
	} else if config.ProbeRow >= config.Rows {
		errs = append(errs, fmt.Errorf("probe row %d needs at least %d rows", config.ProbeRow, config.ProbeRow+1))
	}
	if config.Atol < 0 || config.Rtol < 0 || config.CkksTolerance < 0 {
		errs = append(errs, errors.New("tolerances must be non-negative"))
	}
	if config.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", config.Workers))
	}
	if config.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %d", config.DPI))
	}
	if _, err := ParseLevel(config.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ParseBackends splits a comma or space separated backend list.
func ParseBackends(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// YAML renders the configuration as it would appear in raggedbench.yaml.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
