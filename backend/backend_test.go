package backend

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raggedbench/core/ckkswrapper"
	"raggedbench/dataset"
)

func smallParams() Params {
	return Params{Trials: 2, Rows: 12, Seed: dataset.DefaultSeed}
}

func reference(t *testing.T, p Params) dataset.Rows {
	t.Helper()
	rows, err := dataset.Generate(p.Rows, p.Seed)
	require.NoError(t, err)
	return rows
}

func assertFourth(t *testing.T, orig dataset.Rows, out Outcome, tol float64) {
	t.Helper()
	require.NotNil(t, out.Result)
	require.Equal(t, len(orig), out.Result.Len())
	for i, row := range orig {
		require.Equal(t, len(row), out.Result.RowLen(i), "row %d", i)
		for j, v := range row {
			want := v * v * v * v
			assert.InDelta(t, want, out.Result.At(i, j), tol, "(%d,%d)", i, j)
		}
	}
}

func assertTimings(t *testing.T, p Params, out Outcome) {
	t.Helper()
	require.Len(t, out.Total, p.Trials)
	require.Len(t, out.Granular, p.Trials)
	for i := range out.Total {
		assert.GreaterOrEqual(t, out.Granular[i], 0.0)
		assert.LessOrEqual(t, out.Granular[i], out.Total[i], "trial %d", i)
	}
}

func TestAdaptersComputeFourthPower(t *testing.T) {
	cpu, err := NewNested("cpu", 3)
	require.NoError(t, err)

	adapters := []Adapter{Ragged{}, cpu, Sparse{}, Padded{}}
	for _, a := range adapters {
		t.Run(a.Name(), func(t *testing.T) {
			p := smallParams()
			out, err := a.Run(context.Background(), p)
			require.NoError(t, err)
			assertTimings(t, p, out)
			assertFourth(t, reference(t, p), out, 1e-15)
		})
	}
}

func TestSpotValueAtThreeZero(t *testing.T) {
	p := Params{Trials: 1, Rows: 5, Seed: dataset.DefaultSeed}
	orig := reference(t, p)

	out, err := Ragged{}.Run(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, out.Total, 1)
	assert.Len(t, out.Granular, 1)
	v := orig[3][0]
	assert.InDelta(t, v*v*v*v, out.Result.At(3, 0), 1e-15)
}

func TestLoopTakesSquareRoot(t *testing.T) {
	p := smallParams()
	orig := reference(t, p)

	out, err := Loop{}.Run(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, out.Total, p.Trials)
	assert.Nil(t, out.Granular)
	for i, row := range orig {
		for j, v := range row {
			assert.Equal(t, math.Sqrt(v), out.Result.At(i, j), "(%d,%d)", i, j)
		}
	}
}

func TestGPUUnavailable(t *testing.T) {
	for _, spec := range []string{"gpu", "cuda", "/device:GPU:0", "CUDA:1"} {
		n, err := NewNested(spec, 1)
		require.NoError(t, err, spec)
		assert.Equal(t, GPU, n.Device.Kind)

		_, err = n.Run(context.Background(), smallParams())
		assert.ErrorIs(t, err, ErrBackendUnavailable, spec)
	}
}

func TestParseDevice(t *testing.T) {
	cases := map[string]Device{
		"cpu":           {Kind: CPU},
		"/device:CPU:0": {Kind: CPU},
		"/cpu:0":        {Kind: CPU},
		"gpu":           {Kind: GPU},
		"cuda:2":        {Kind: GPU, Index: 2},
	}
	for in, want := range cases {
		got, err := ParseDevice(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDevice("tpu")
	assert.Error(t, err)
	_, err = ParseDevice("cpu:x")
	assert.Error(t, err)

	assert.Equal(t, "/device:GPU:0", Device{Kind: GPU}.String())
}

func TestNestedArgsUseCanonicalDevice(t *testing.T) {
	a, err := NewNested("cpu", 1)
	require.NoError(t, err)
	b, err := NewNested("/device:CPU:0", 8)
	require.NoError(t, err)
	assert.Equal(t, a.Args(), b.Args())
}

func TestCPUExecutorPropagatesKernelError(t *testing.T) {
	e := newCPUExecutor(2)
	e.Launch(10, func(lo, hi int) error {
		if lo == 0 {
			return assert.AnError
		}
		return nil
	})
	assert.ErrorIs(t, e.Synchronize(), assert.AnError)

	// The executor is reusable after a failed synchronize.
	e.Launch(4, func(lo, hi int) error { return nil })
	assert.NoError(t, e.Synchronize())
}

func TestInvalidParams(t *testing.T) {
	_, err := Ragged{}.Run(context.Background(), Params{Trials: 0, Rows: 3})
	assert.Error(t, err)
	_, err = Loop{}.Run(context.Background(), Params{Trials: 1, Rows: 0})
	assert.Error(t, err)
}

func TestCancelledBeforeFirstTrial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Ragged{}.Run(ctx, smallParams())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCkksApproximatesFourthPower(t *testing.T) {
	if testing.Short() {
		t.Skip("ckks key generation is slow")
	}
	p := Params{Trials: 1, Rows: 20, Seed: dataset.DefaultSeed}
	c := Ckks{LogN: ckkswrapper.DefaultLogN, Depth: ckkswrapper.DefaultDepth}

	out, err := c.Run(context.Background(), p)
	require.NoError(t, err)
	assertTimings(t, p, out)
	assertFourth(t, reference(t, p), out, 1e-5)
}
