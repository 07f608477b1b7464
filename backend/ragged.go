package backend

import (
	"context"

	"raggedbench/dataset"
	"raggedbench/tensor"
)

// Ragged multiplies the flat content buffer of a tensor.Ragged.
type Ragged struct{}

func (Ragged) Name() string   { return "ragged" }
func (Ragged) Args() []string { return nil }

func (r Ragged) Run(ctx context.Context, p Params) (Outcome, error) {
	return measure(ctx, r.Name(), p, stages[*tensor.Ragged, *tensor.Ragged]{
		convert: func(rows dataset.Rows) (*tensor.Ragged, error) {
			return tensor.FromRows(rows), nil
		},
		compute: fourth,
		finalize: func(x *tensor.Ragged) (*tensor.Ragged, error) {
			return x, nil
		},
	})
}

// fourth computes x*x*x*x as three multiplications, each into a new array.
func fourth(x *tensor.Ragged) (*tensor.Ragged, error) {
	acc := x
	for i := 0; i < 3; i++ {
		var err error
		if acc, err = tensor.Mul(acc, x); err != nil {
			return nil, err
		}
	}
	return acc, nil
}
