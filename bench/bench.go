package bench

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"raggedbench/backend"
	"raggedbench/cache"
	"raggedbench/dataset"
	"raggedbench/report"
	"raggedbench/utils"
	"raggedbench/verify"
)

const tracerName = "raggedbench/bench"

// Runner executes a lineup and writes the report artifacts.
type Runner struct {
	cfg     *utils.Config
	memo    *cache.Memo
	entries []Entry
	tracer  trace.Tracer
}

// NewRunner parses the configured lineup. The memo is owned by the caller.
func NewRunner(cfg *utils.Config, memo *cache.Memo) (*Runner, error) {
	entries, err := ParseLineup(cfg.Backends, cfg)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:     cfg,
		memo:    memo,
		entries: entries,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// Entries returns the parsed lineup.
func (r *Runner) Entries() []Entry {
	return r.entries
}

// Run benchmarks every entry in order and writes the chart, CSV and
// metrics files that are configured. The first error stops the run.
func (r *Runner) Run(ctx context.Context) (*report.Table, error) {
	orig, err := dataset.Generate(r.cfg.Rows, r.cfg.Seed)
	if err != nil {
		return nil, err
	}
	params := backend.Params{Trials: r.cfg.Trials, Rows: r.cfg.Rows, Seed: r.cfg.Seed}

	table := &report.Table{}
	for _, e := range r.entries {
		if err := r.runEntry(ctx, e, orig, params, table); err != nil {
			return nil, err
		}
	}

	for _, s := range table.Summaries() {
		slog.Info("summary", "label", s.Label, "phase", s.Phase, "mean_s", s.Mean, "std_s", s.Std, "n", s.N)
	}
	if err := r.writeArtifacts(table); err != nil {
		return nil, err
	}
	return table, nil
}

func (r *Runner) runEntry(ctx context.Context, e Entry, orig dataset.Rows, p backend.Params, table *report.Table) error {
	ctx, span := r.tracer.Start(ctx, "backend "+e.Adapter.Name(), trace.WithAttributes(
		attribute.String("backend", e.Adapter.Name()),
		attribute.String("label", e.Label),
		attribute.Int("trials", p.Trials),
		attribute.Int("rows", p.Rows),
	))
	defer span.End()

	slog.Info("running backend", "label", e.Label, "trials", p.Trials, "rows", p.Rows)
	out, hit, err := r.memo.Run(ctx, e.Adapter, p)
	span.SetAttributes(attribute.Bool("cache_hit", hit))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("run %s: %w", e.Adapter.Name(), err)
	}

	if err := verify.Check(orig, out.Result, e.Expectation); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("check %s: %w", e.Adapter.Name(), err)
	}

	table.Add(e.Label, report.Total, out.Total)
	if out.Granular != nil {
		table.Add(e.Label+report.GranularSuffix, report.Granular, out.Granular)
	}
	return nil
}

func (r *Runner) writeArtifacts(table *report.Table) error {
	if r.cfg.Output != "" {
		chart := report.DefaultChartConfig(r.cfg.Output)
		chart.DPI = r.cfg.DPI
		if err := report.Render(table, chart); err != nil {
			return err
		}
		slog.Info("wrote chart", "path", r.cfg.Output)
	}
	if r.cfg.CSV != "" {
		if err := report.WriteCSV(r.cfg.CSV, table); err != nil {
			return err
		}
		slog.Info("wrote samples", "path", r.cfg.CSV)
	}
	if r.cfg.Metrics != "" {
		if err := report.WriteMetrics(r.cfg.Metrics, table); err != nil {
			return err
		}
		slog.Info("wrote metrics", "path", r.cfg.Metrics)
	}
	return nil
}
