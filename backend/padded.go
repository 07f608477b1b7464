package backend

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"raggedbench/dataset"
	"raggedbench/tensor"
)

// Padded zero-pads the dataset into an n x n dense matrix. It needs
// 8*n*n bytes per intermediate, so it is not in the default lineup.
type Padded struct{}

func (Padded) Name() string   { return "padded" }
func (Padded) Args() []string { return nil }

func (pd Padded) Run(ctx context.Context, p Params) (Outcome, error) {
	lengths := rowLengths(p.Rows)
	return measure(ctx, pd.Name(), p, stages[*mat.Dense, *mat.Dense]{
		convert: func(rows dataset.Rows) (*mat.Dense, error) {
			n := len(rows)
			m := mat.NewDense(n, n, nil)
			for i, row := range rows {
				copy(m.RawRowView(i), row)
			}
			return m, nil
		},
		compute: func(x *mat.Dense) (*mat.Dense, error) {
			acc := x
			for i := 0; i < 3; i++ {
				next := &mat.Dense{}
				next.MulElem(acc, x)
				acc = next
			}
			return acc, nil
		},
		finalize: func(m *mat.Dense) (*tensor.Ragged, error) {
			out := tensor.New(lengths...)
			for i, n := range lengths {
				copy(out.Row(i), m.RawRowView(i)[:n])
			}
			return out, nil
		},
	})
}

// rowLengths returns the triangular row lengths 1..n.
func rowLengths(n int) []int {
	lengths := make([]int, n)
	for i := range lengths {
		lengths[i] = i + 1
	}
	return lengths
}
