package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangular(t *testing.T, rows [][]float64) *Tensor {
	t.Helper()
	n := len(rows)
	a, err := New(n, n, CSR)
	require.NoError(t, err)
	for i, row := range rows {
		for j, v := range row {
			require.NoError(t, a.Insert(i, j, v))
		}
	}
	a.Pack()
	return a
}

func TestFourthPowerOnTriangle(t *testing.T) {
	rows := [][]float64{{0.5}, {0.25, 2}, {3, 0.1, 0.9}}
	a := triangular(t, rows)
	require.Equal(t, 6, a.NNZ())

	res, err := Product(a, a, a, a).Evaluate()
	require.NoError(t, err)

	got, err := res.At(2, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.1*0.1*0.1*0.1, got, 1e-15)

	r, err := res.ToRagged([]int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())
	assert.InDelta(t, 16.0, r.At(1, 1), 1e-12)
	assert.InDelta(t, 81.0, r.At(2, 0), 1e-12)
}

func TestUnstoredReadsZero(t *testing.T) {
	a := triangular(t, [][]float64{{1}, {2, 3}})
	got, err := a.At(0, 1)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestPackOutOfOrderAndDuplicates(t *testing.T) {
	a, err := New(2, 3, CSR)
	require.NoError(t, err)
	require.NoError(t, a.Insert(1, 2, 5))
	require.NoError(t, a.Insert(0, 1, 1))
	require.NoError(t, a.Insert(1, 2, 7))
	a.Pack()

	assert.Equal(t, 2, a.NNZ())
	got, err := a.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)

	// Inserts after a pack merge with what is stored.
	require.NoError(t, a.Insert(1, 0, 4))
	_, err = a.At(1, 0)
	assert.ErrorIs(t, err, ErrNotPacked)
	a.Pack()
	cols, vals := a.Row(1)
	assert.Equal(t, []int{0, 2}, cols)
	assert.Equal(t, []float64{4, 7}, vals)
}

func TestInsertOutOfBounds(t *testing.T) {
	a, err := New(2, 2, CSR)
	require.NoError(t, err)
	assert.Error(t, a.Insert(2, 0, 1))
	assert.Error(t, a.Insert(0, -1, 1))
}

func TestMulIntersection(t *testing.T) {
	a, _ := New(1, 4, CSR)
	b, _ := New(1, 4, CSR)
	for _, j := range []int{0, 1, 3} {
		require.NoError(t, a.Insert(0, j, 2))
	}
	for _, j := range []int{1, 2, 3} {
		require.NoError(t, b.Insert(0, j, 3))
	}
	a.Pack()
	b.Pack()

	c, err := Mul(a, b)
	require.NoError(t, err)
	cols, vals := c.Row(0)
	assert.Equal(t, []int{1, 3}, cols)
	assert.Equal(t, []float64{6, 6}, vals)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := New(2, 2, Format{Dense, Dense})
	assert.Error(t, err)
}
