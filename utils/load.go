package utils

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RAGGEDBENCH_ROWS.
const EnvPrefix = "RAGGEDBENCH"

// NewViper returns a viper instance carrying the defaults and environment
// bindings. Flags are bound onto it by the caller before LoadConfig.
func NewViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()

	v.SetDefault("rows", d.Rows)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("trials", d.Trials)
	v.SetDefault("backends", d.Backends)
	v.SetDefault("cache_dir", d.CacheDir)
	v.SetDefault("output", d.Output)
	v.SetDefault("csv", d.CSV)
	v.SetDefault("metrics", d.Metrics)
	v.SetDefault("dpi", d.DPI)
	v.SetDefault("probe_row", d.ProbeRow)
	v.SetDefault("probe_col", d.ProbeCol)
	v.SetDefault("atol", d.Atol)
	v.SetDefault("rtol", d.Rtol)
	v.SetDefault("ckks_tolerance", d.CkksTolerance)
	v.SetDefault("ckks_log_n", d.CkksLogN)
	v.SetDefault("ckks_depth", d.CkksDepth)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("trace", d.Trace)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads .env, then cfgFile (or ./raggedbench.yaml when cfgFile is
// empty), and decodes the merged settings. A missing default config file is
// not an error; a missing explicit one is.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("raggedbench")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		slog.Debug("using config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Backends) == 1 {
		cfg.Backends = ParseBackends(cfg.Backends[0])
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
