// Command raggedbench times x*x*x*x across ragged-array backends and plots
// the results.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"raggedbench/bench"
	"raggedbench/cache"
	"raggedbench/utils"
)

var version = "dev"

// app carries state shared by the subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *utils.Config
	logger  *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("raggedbench failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: utils.NewViper()}
	d := utils.DefaultConfig()

	root := &cobra.Command{
		Use:           "raggedbench",
		Short:         "Benchmark x*x*x*x over a triangular ragged array",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./raggedbench.yaml)")
	pf.Int("rows", d.Rows, "number of dataset rows")
	pf.Int("trials", d.Trials, "trials per backend")
	pf.StringSlice("backends", d.Backends, "backends to run, e.g. ragged,nested@cpu,sparse,padded,ckks,loop")
	pf.String("cache-dir", d.CacheDir, "memo store directory")
	pf.String("output", d.Output, "chart PNG path")
	pf.String("log-level", d.LogLevel, "debug, info, warn or error")
	pf.Bool("trace", d.Trace, "print OpenTelemetry spans to stderr")

	for key, flag := range map[string]string{
		"rows":      "rows",
		"trials":    "trials",
		"backends":  "backends",
		"cache_dir": "cache-dir",
		"output":    "output",
		"log_level": "log-level",
		"trace":     "trace",
	} {
		if err := a.v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(newConfigCmd(a), newCacheCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := utils.LoadConfig(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	logger, err := utils.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	a.cfg, a.logger = cfg, logger
	return nil
}

func (a *app) openStore() (*cache.Store, error) {
	c := cache.DefaultConfig(a.cfg.CacheDir)
	c.Logger = a.logger
	return cache.Open(c)
}

func (a *app) run(ctx context.Context) (err error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.Trace {
		shutdown, terr := utils.InitTracing(os.Stderr, version)
		if terr != nil {
			return terr
		}
		defer func() {
			if serr := shutdown(context.Background()); serr != nil && err == nil {
				err = fmt.Errorf("flush spans: %w", serr)
			}
		}()
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runner, err := bench.NewRunner(a.cfg, cache.NewMemo(store))
	if err != nil {
		return err
	}
	_, err = runner.Run(ctx)
	return err
}
