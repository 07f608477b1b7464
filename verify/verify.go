// Package verify spot-checks backend results against the source dataset.
package verify

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"raggedbench/dataset"
	"raggedbench/tensor"
)

// ErrCorrectnessViolation is returned when a backend result does not match
// the expected transformation of the input.
var ErrCorrectnessViolation = errors.New("correctness violation")

// Op is the element transformation a backend is expected to apply.
type Op int

const (
	Fourth Op = iota // x*x*x*x
	Sqrt             // sqrt(x), the loop baseline
)

func (o Op) String() string {
	if o == Sqrt {
		return "sqrt"
	}
	return "fourth"
}

// Apply returns o applied to x.
func (o Op) Apply(x float64) float64 {
	if o == Sqrt {
		return math.Sqrt(x)
	}
	return x * x * x * x
}

// Expectation describes what Check compares.
type Expectation struct {
	Op   Op
	Row  int
	Col  int
	Atol float64
	Rtol float64
}

// Default expects op at (10, 1) with 1e-7 tolerances.
func Default(op Op) Expectation {
	return Expectation{Op: op, Row: 10, Col: 1, Atol: 1e-7, Rtol: 1e-7}
}

// Close reports whether got is within atol + rtol*|want| of want.
func Close(got, want, atol, rtol float64) bool {
	return math.Abs(got-want) <= atol+rtol*math.Abs(want)
}

// Check verifies the outer length and one spot value of res.
func Check(orig dataset.Rows, res *tensor.Ragged, exp Expectation) error {
	if res == nil {
		return fmt.Errorf("%w: no result", ErrCorrectnessViolation)
	}
	if res.Len() != orig.Len() {
		return fmt.Errorf("%w: result has %d rows, input has %d", ErrCorrectnessViolation, res.Len(), orig.Len())
	}
	if exp.Row >= orig.Len() || exp.Col >= len(orig[exp.Row]) {
		return fmt.Errorf("%w: probe (%d,%d) outside input", ErrCorrectnessViolation, exp.Row, exp.Col)
	}
	if exp.Col >= res.RowLen(exp.Row) {
		return fmt.Errorf("%w: result row %d has length %d, want %d",
			ErrCorrectnessViolation, exp.Row, res.RowLen(exp.Row), len(orig[exp.Row]))
	}

	got := res.At(exp.Row, exp.Col)
	want := exp.Op.Apply(orig[exp.Row][exp.Col])
	slog.Info("spot check", "row", exp.Row, "col", exp.Col, "op", exp.Op.String(), "got", got, "want", want)

	if !Close(got, want, exp.Atol, exp.Rtol) {
		return fmt.Errorf("%w: at (%d,%d) got %g, want %s(%g) = %g",
			ErrCorrectnessViolation, exp.Row, exp.Col, got, exp.Op, orig[exp.Row][exp.Col], want)
	}
	return nil
}
