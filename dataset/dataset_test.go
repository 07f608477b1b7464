package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(200, DefaultSeed)
	require.NoError(t, err)
	b, err := Generate(200, DefaultSeed)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateSeedChangesValues(t *testing.T) {
	a, err := Generate(20, 1)
	require.NoError(t, err)
	b, err := Generate(20, 2)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestGenerateRowLengths(t *testing.T) {
	const n = 500
	rows, err := Generate(n, DefaultSeed)
	require.NoError(t, err)
	require.Equal(t, n, rows.Len())

	for i, row := range rows {
		require.Len(t, row, i+1, "row %d", i)
		for _, v := range row {
			require.GreaterOrEqual(t, v, 0.0)
			require.Less(t, v, 1.0)
		}
	}
	assert.Equal(t, n*(n+1)/2, rows.Total())
}

func TestGenerateRejectsEmpty(t *testing.T) {
	_, err := Generate(0, DefaultSeed)
	assert.ErrorIs(t, err, ErrDatasetGeneration)
}

func TestCloneIsIndependent(t *testing.T) {
	rows, err := Generate(5, DefaultSeed)
	require.NoError(t, err)

	clone := rows.Clone()
	clone[3][0] = 42

	assert.NotEqual(t, 42.0, rows[3][0])
}
