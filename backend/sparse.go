package backend

import (
	"context"

	"raggedbench/dataset"
	"raggedbench/sparse"
	"raggedbench/tensor"
)

// Sparse inserts every element into an n x n CSR tensor one at a time and
// evaluates the product expression on it.
type Sparse struct{}

func (Sparse) Name() string   { return "sparse" }
func (Sparse) Args() []string { return nil }

func (s Sparse) Run(ctx context.Context, p Params) (Outcome, error) {
	lengths := rowLengths(p.Rows)
	return measure(ctx, s.Name(), p, stages[*sparse.Tensor, *sparse.Tensor]{
		convert: func(rows dataset.Rows) (*sparse.Tensor, error) {
			n := len(rows)
			a, err := sparse.New(n, n, sparse.CSR)
			if err != nil {
				return nil, err
			}
			for i, row := range rows {
				for j, v := range row {
					if err := a.Insert(i, j, v); err != nil {
						return nil, err
					}
				}
			}
			a.Pack()
			return a, nil
		},
		compute: func(a *sparse.Tensor) (*sparse.Tensor, error) {
			return sparse.Product(a, a, a, a).Evaluate()
		},
		finalize: func(res *sparse.Tensor) (*tensor.Ragged, error) {
			return res.ToRagged(lengths)
		},
	})
}
