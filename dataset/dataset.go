// Package dataset builds the triangular ragged input shared by every backend.
package dataset

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultRows is the number of rows in the benchmark dataset.
	DefaultRows = 10_000
	// DefaultSeed seeds the generator so every backend sees the same values.
	DefaultSeed uint64 = 123
)

// ErrDatasetGeneration is returned when the dataset cannot be built.
var ErrDatasetGeneration = errors.New("dataset generation failed")

// Rows is a ragged dataset: row i holds i+1 values in [0, 1).
type Rows [][]float64

// Generate builds n rows with lengths 1..n. The source is re-seeded on
// every call, so two calls with the same seed return identical rows.
func Generate(n int, seed uint64) (Rows, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: row count must be positive, got %d", ErrDatasetGeneration, n)
	}
	dist := distuv.Uniform{
		Min: 0,
		Max: 1,
		Src: rand.NewPCG(seed, seed),
	}
	rows := make(Rows, n)
	for i := range rows {
		row := make([]float64, i+1)
		for j := range row {
			row[j] = dist.Rand()
		}
		rows[i] = row
	}
	return rows, nil
}

// Default builds the standard 10000-row dataset.
func Default() (Rows, error) {
	return Generate(DefaultRows, DefaultSeed)
}

// Len returns the number of rows.
func (r Rows) Len() int {
	return len(r)
}

// Total returns the number of elements across all rows.
func (r Rows) Total() int {
	total := 0
	for _, row := range r {
		total += len(row)
	}
	return total
}

// Clone returns a deep copy of r.
func (r Rows) Clone() Rows {
	out := make(Rows, len(r))
	for i, row := range r {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
