package verify

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raggedbench/dataset"
	"raggedbench/tensor"
)

func transformed(t *testing.T, rows dataset.Rows, op Op) *tensor.Ragged {
	t.Helper()
	out := tensor.FromRows(rows)
	for i, v := range out.Data {
		out.Data[i] = op.Apply(v)
	}
	return out
}

func TestCheckPasses(t *testing.T) {
	rows, err := dataset.Generate(20, dataset.DefaultSeed)
	require.NoError(t, err)

	assert.NoError(t, Check(rows, transformed(t, rows, Fourth), Default(Fourth)))
	assert.NoError(t, Check(rows, transformed(t, rows, Sqrt), Default(Sqrt)))
}

func TestCheckDetectsPerturbation(t *testing.T) {
	rows, err := dataset.Generate(20, dataset.DefaultSeed)
	require.NoError(t, err)
	res := transformed(t, rows, Fourth)
	res.Set(res.At(10, 1)+1e-3, 10, 1)

	err = Check(rows, res, Default(Fourth))
	assert.ErrorIs(t, err, ErrCorrectnessViolation)
}

func TestCheckWrongOp(t *testing.T) {
	rows, err := dataset.Generate(20, dataset.DefaultSeed)
	require.NoError(t, err)

	err = Check(rows, transformed(t, rows, Sqrt), Default(Fourth))
	assert.ErrorIs(t, err, ErrCorrectnessViolation)
}

func TestCheckOuterLength(t *testing.T) {
	rows, err := dataset.Generate(20, dataset.DefaultSeed)
	require.NoError(t, err)
	short := transformed(t, rows[:15], Fourth)

	err = Check(rows, short, Default(Fourth))
	assert.ErrorIs(t, err, ErrCorrectnessViolation)
	assert.ErrorIs(t, Check(rows, nil, Default(Fourth)), ErrCorrectnessViolation)
}

func TestCheckProbeOutsideInput(t *testing.T) {
	rows, err := dataset.Generate(5, dataset.DefaultSeed)
	require.NoError(t, err)
	err = Check(rows, transformed(t, rows, Fourth), Default(Fourth))
	assert.ErrorIs(t, err, ErrCorrectnessViolation)
}

func TestClose(t *testing.T) {
	assert.True(t, Close(1, 1+5e-8, 1e-7, 0))
	assert.False(t, Close(1, 1+5e-7, 1e-7, 1e-7))
	assert.True(t, Close(1e6, 1e6+0.05, 1e-7, 1e-7))
	assert.False(t, Close(math.NaN(), 0, 1, 1))
}
