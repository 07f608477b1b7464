package backend

import (
	"context"
	"log/slog"
	"math"

	"raggedbench/dataset"
	"raggedbench/tensor"
	"raggedbench/utils"
)

// Loop is the plain nested-loop baseline. It replaces every element with
// its square root in place and reports total time only.
type Loop struct{}

func (Loop) Name() string   { return "loop" }
func (Loop) Args() []string { return nil }

func (l Loop) Run(ctx context.Context, p Params) (Outcome, error) {
	if err := p.Validate(); err != nil {
		return Outcome{}, err
	}
	out := Outcome{Total: make([]float64, 0, p.Trials)}
	var rows dataset.Rows
	for trial := 0; trial < p.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		var err error
		if rows, err = dataset.Generate(p.Rows, p.Seed); err != nil {
			return Outcome{}, err
		}

		sw := utils.Start()
		for i := range rows {
			row := rows[i]
			for j := range row {
				row[j] = math.Sqrt(row[j])
			}
		}
		sec := sw.Seconds()

		out.Total = append(out.Total, sec)
		slog.Debug("trial done", "backend", l.Name(), "trial", trial, "total_s", sec)
	}
	out.Result = tensor.FromRows(rows)
	return out, nil
}
