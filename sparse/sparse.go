// Package sparse implements a two-level explicitly indexed tensor whose
// first dimension is dense and second is compressed (CSR).
package sparse

import (
	"errors"
	"fmt"
	"slices"

	"raggedbench/tensor"
)

// LevelFormat is the storage format of one tensor dimension.
type LevelFormat int

const (
	Dense LevelFormat = iota
	Compressed
)

// Format lists the level format of each dimension, outermost first.
type Format [2]LevelFormat

// CSR is the only supported format: dense rows, compressed columns.
var CSR = Format{Dense, Compressed}

// ErrNotPacked is returned when reading a tensor that has staged inserts.
var ErrNotPacked = errors.New("sparse tensor has unpacked inserts")

type entry struct {
	i, j int
	v    float64
}

// Tensor is a rows x cols sparse matrix. Inserts are staged and become
// visible after Pack.
type Tensor struct {
	rows, cols int
	pos        []int
	crd        []int
	vals       []float64
	pending    []entry
}

// New returns an empty packed tensor.
func New(rows, cols int, f Format) (*Tensor, error) {
	if f != CSR {
		return nil, fmt.Errorf("unsupported format %v, only [dense, compressed] is implemented", f)
	}
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("invalid shape %dx%d", rows, cols)
	}
	return &Tensor{
		rows: rows,
		cols: cols,
		pos:  make([]int, rows+1),
	}, nil
}

// Shape returns the dimensions of t.
func (t *Tensor) Shape() (rows, cols int) {
	return t.rows, t.cols
}

// NNZ returns the number of stored entries, excluding unpacked inserts.
func (t *Tensor) NNZ() int {
	return len(t.vals)
}

// Insert stages value v at (i, j). A later insert at the same coordinate wins.
func (t *Tensor) Insert(i, j int, v float64) error {
	if i < 0 || i >= t.rows || j < 0 || j >= t.cols {
		return fmt.Errorf("insert (%d,%d) out of bounds for %dx%d", i, j, t.rows, t.cols)
	}
	t.pending = append(t.pending, entry{i, j, v})
	return nil
}

// Pack merges staged inserts into the compressed storage.
func (t *Tensor) Pack() {
	if len(t.pending) == 0 {
		return
	}
	all := make([]entry, 0, len(t.vals)+len(t.pending))
	for i := 0; i < t.rows; i++ {
		for p := t.pos[i]; p < t.pos[i+1]; p++ {
			all = append(all, entry{i, t.crd[p], t.vals[p]})
		}
	}
	all = append(all, t.pending...)
	t.pending = nil

	less := func(a, b entry) int {
		if a.i != b.i {
			return a.i - b.i
		}
		return a.j - b.j
	}
	if !slices.IsSortedFunc(all, less) {
		slices.SortStableFunc(all, less)
	}

	pos := make([]int, t.rows+1)
	crd := make([]int, 0, len(all))
	vals := make([]float64, 0, len(all))
	for k, e := range all {
		if k+1 < len(all) && all[k+1].i == e.i && all[k+1].j == e.j {
			continue
		}
		crd = append(crd, e.j)
		vals = append(vals, e.v)
		pos[e.i+1]++
	}
	for i := 0; i < t.rows; i++ {
		pos[i+1] += pos[i]
	}
	t.pos, t.crd, t.vals = pos, crd, vals
}

// Row returns the stored column indices and values of row i as views.
func (t *Tensor) Row(i int) (cols []int, vals []float64) {
	return t.crd[t.pos[i]:t.pos[i+1]], t.vals[t.pos[i]:t.pos[i+1]]
}

// At returns the value at (i, j), or zero when no entry is stored.
func (t *Tensor) At(i, j int) (float64, error) {
	if len(t.pending) > 0 {
		return 0, ErrNotPacked
	}
	if i < 0 || i >= t.rows || j < 0 || j >= t.cols {
		return 0, fmt.Errorf("at (%d,%d) out of bounds for %dx%d", i, j, t.rows, t.cols)
	}
	cols, vals := t.Row(i)
	if k, ok := slices.BinarySearch(cols, j); ok {
		return vals[k], nil
	}
	return 0, nil
}

// Mul returns the element-wise product of a and b. Only coordinates stored
// in both operands are stored in the result.
func Mul(a, b *Tensor) (*Tensor, error) {
	if len(a.pending) > 0 || len(b.pending) > 0 {
		return nil, ErrNotPacked
	}
	if a.rows != b.rows || a.cols != b.cols {
		return nil, fmt.Errorf("shape mismatch: %dx%d vs %dx%d", a.rows, a.cols, b.rows, b.cols)
	}
	out := &Tensor{
		rows: a.rows,
		cols: a.cols,
		pos:  make([]int, a.rows+1),
		crd:  make([]int, 0, min(len(a.crd), len(b.crd))),
		vals: make([]float64, 0, min(len(a.vals), len(b.vals))),
	}
	for i := 0; i < a.rows; i++ {
		ac, av := a.Row(i)
		bc, bv := b.Row(i)
		p, q := 0, 0
		for p < len(ac) && q < len(bc) {
			switch {
			case ac[p] < bc[q]:
				p++
			case ac[p] > bc[q]:
				q++
			default:
				out.crd = append(out.crd, ac[p])
				out.vals = append(out.vals, av[p]*bv[q])
				p++
				q++
			}
		}
		out.pos[i+1] = len(out.vals)
	}
	return out, nil
}

// Expr is a deferred element-wise product of operands.
type Expr struct {
	operands []*Tensor
}

// Product builds the expression operands[0] * operands[1] * ...
func Product(operands ...*Tensor) Expr {
	return Expr{operands: operands}
}

// Evaluate computes the expression left to right, producing a new tensor
// for each multiplication.
func (e Expr) Evaluate() (*Tensor, error) {
	if len(e.operands) == 0 {
		return nil, errors.New("empty expression")
	}
	acc := e.operands[0]
	for _, next := range e.operands[1:] {
		var err error
		if acc, err = Mul(acc, next); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// ToRagged trims t back to rows of the given lengths. Unstored positions
// read as zero.
func (t *Tensor) ToRagged(lengths []int) (*tensor.Ragged, error) {
	if len(t.pending) > 0 {
		return nil, ErrNotPacked
	}
	if len(lengths) != t.rows {
		return nil, fmt.Errorf("got %d row lengths for %d rows", len(lengths), t.rows)
	}
	out := tensor.New(lengths...)
	for i, n := range lengths {
		if n > t.cols {
			return nil, fmt.Errorf("row %d length %d exceeds %d columns", i, n, t.cols)
		}
		row := out.Row(i)
		cols, vals := t.Row(i)
		for k, j := range cols {
			if j < n {
				row[j] = vals[k]
			}
		}
	}
	return out, nil
}
