package backend

import (
	"context"
	"fmt"
	"log/slog"

	"raggedbench/dataset"
	"raggedbench/tensor"
	"raggedbench/utils"
)

// stages are the three timed steps of a trial. compute must not return
// before the work it started has finished.
type stages[T, R any] struct {
	convert  func(dataset.Rows) (T, error)
	compute  func(T) (R, error)
	finalize func(R) (*tensor.Ragged, error)
}

// measure runs p.Trials trials. Dataset generation is outside both timers;
// the total timer covers convert, compute and finalize, the granular timer
// covers compute only.
func measure[T, R any](ctx context.Context, name string, p Params, s stages[T, R]) (Outcome, error) {
	if err := p.Validate(); err != nil {
		return Outcome{}, err
	}
	out := Outcome{
		Total:    make([]float64, 0, p.Trials),
		Granular: make([]float64, 0, p.Trials),
	}
	for trial := 0; trial < p.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		rows, err := dataset.Generate(p.Rows, p.Seed)
		if err != nil {
			return Outcome{}, err
		}

		total := utils.Start()
		native, err := s.convert(rows)
		if err != nil {
			return Outcome{}, fmt.Errorf("%s convert: %w", name, err)
		}
		granular := utils.Start()
		res, err := s.compute(native)
		granularSec := granular.Seconds()
		if err != nil {
			return Outcome{}, fmt.Errorf("%s compute: %w", name, err)
		}
		result, err := s.finalize(res)
		totalSec := total.Seconds()
		if err != nil {
			return Outcome{}, fmt.Errorf("%s finalize: %w", name, err)
		}

		out.Total = append(out.Total, totalSec)
		out.Granular = append(out.Granular, granularSec)
		out.Result = result
		slog.Debug("trial done", "backend", name, "trial", trial, "total_s", totalSec, "granular_s", granularSec)
	}
	return out, nil
}
