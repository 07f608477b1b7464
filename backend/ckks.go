package backend

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/tuneinsight/lattigo/v5/core/rlwe"

	"raggedbench/core/ckkswrapper"
	"raggedbench/dataset"
	"raggedbench/tensor"
	"raggedbench/utils"
)

// Ckks runs the workload on CKKS ciphertexts. Results are approximate.
type Ckks struct {
	LogN  int
	Depth int
}

func (c Ckks) Name() string { return "ckks" }

func (c Ckks) Args() []string {
	return []string{"logn=" + strconv.Itoa(c.LogN), "depth=" + strconv.Itoa(c.Depth)}
}

type encrypted struct {
	cts     []*rlwe.Ciphertext
	offsets []int
}

func (c Ckks) Run(ctx context.Context, p Params) (Outcome, error) {
	sw := utils.Start()
	he, err := ckkswrapper.NewHeContext(c.LogN, c.Depth)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	slog.Debug("ckks keys generated", "log_n", c.LogN, "slots", he.Slots(), "elapsed_s", sw.Seconds())

	return measure(ctx, c.Name(), p, stages[encrypted, encrypted]{
		convert: func(rows dataset.Rows) (encrypted, error) {
			flat := tensor.FromRows(rows)
			cts, err := he.Encrypt(flat.Data)
			if err != nil {
				return encrypted{}, err
			}
			return encrypted{cts: cts, offsets: flat.Offsets}, nil
		},
		compute: func(x encrypted) (encrypted, error) {
			out := make([]*rlwe.Ciphertext, len(x.cts))
			for k, ct := range x.cts {
				acc := ct
				for i := 0; i < 3; i++ {
					var err error
					if acc, err = he.Mul(acc, ct); err != nil {
						return encrypted{}, err
					}
				}
				out[k] = acc
			}
			return encrypted{cts: out, offsets: x.offsets}, nil
		},
		finalize: func(x encrypted) (*tensor.Ragged, error) {
			n := x.offsets[len(x.offsets)-1]
			data, err := he.Decrypt(x.cts, n)
			if err != nil {
				return nil, err
			}
			return &tensor.Ragged{Data: data, Offsets: x.offsets}, nil
		},
	})
}
