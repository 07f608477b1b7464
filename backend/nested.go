package backend

import (
	"context"
	"fmt"

	"raggedbench/dataset"
	"raggedbench/tensor"
)

// Nested keeps one component slice per row on a device and launches a
// row kernel per multiplication.
type Nested struct {
	Device  Device
	Workers int
}

// NewNested parses the device designator.
func NewNested(device string, workers int) (*Nested, error) {
	d, err := ParseDevice(device)
	if err != nil {
		return nil, err
	}
	return &Nested{Device: d, Workers: workers}, nil
}

func (n *Nested) Name() string   { return "nested" }
func (n *Nested) Args() []string { return []string{n.Device.String()} }

func (n *Nested) Run(ctx context.Context, p Params) (Outcome, error) {
	exec, err := newExecutor(n.Device, n.Workers)
	if err != nil {
		return Outcome{}, err
	}
	return measure(ctx, n.Name(), p, stages[[][]float64, [][]float64]{
		convert: func(rows dataset.Rows) ([][]float64, error) {
			return n.upload(exec, rows)
		},
		compute: func(x [][]float64) ([][]float64, error) {
			acc := x
			for i := 0; i < 3; i++ {
				next := make([][]float64, len(x))
				prev := acc
				exec.Launch(len(x), func(lo, hi int) error {
					for r := lo; r < hi; r++ {
						a, b := prev[r], x[r]
						out := make([]float64, len(a))
						for j := range out {
							out[j] = a[j] * b[j]
						}
						next[r] = out
					}
					return nil
				})
				if err := exec.Synchronize(); err != nil {
					return nil, fmt.Errorf("synchronize %s: %w", n.Device, err)
				}
				acc = next
			}
			return acc, nil
		},
		finalize: func(x [][]float64) (*tensor.Ragged, error) {
			return tensor.FromRows(x), nil
		},
	})
}

// upload copies every row into device-owned storage.
func (n *Nested) upload(exec executor, rows dataset.Rows) ([][]float64, error) {
	resident := make([][]float64, len(rows))
	exec.Launch(len(rows), func(lo, hi int) error {
		for r := lo; r < hi; r++ {
			resident[r] = append([]float64(nil), rows[r]...)
		}
		return nil
	})
	if err := exec.Synchronize(); err != nil {
		return nil, fmt.Errorf("upload to %s: %w", n.Device, err)
	}
	return resident, nil
}
