package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Ragged is a jagged 2-D array backed by a flat []float64.
// Row i occupies Data[Offsets[i]:Offsets[i+1]].
type Ragged struct {
	Data    []float64
	Offsets []int
}

// New allocates a zero-filled Ragged with the given row lengths.
func New(lengths ...int) *Ragged {
	offsets := make([]int, len(lengths)+1)
	for i, n := range lengths {
		if n < 0 {
			panic(fmt.Sprintf("New: negative length %d for row %d", n, i))
		}
		offsets[i+1] = offsets[i] + n
	}
	return &Ragged{
		Data:    make([]float64, offsets[len(lengths)]),
		Offsets: offsets,
	}
}

// FromRows copies nested rows into a single contiguous buffer.
func FromRows(rows [][]float64) *Ragged {
	lengths := make([]int, len(rows))
	for i, row := range rows {
		lengths[i] = len(row)
	}
	r := New(lengths...)
	for i, row := range rows {
		copy(r.Data[r.Offsets[i]:], row)
	}
	return r
}

// Like returns a zero-filled Ragged with the same row structure as r.
// The offsets slice is shared, since it is never mutated.
func Like(r *Ragged) *Ragged {
	return &Ragged{
		Data:    make([]float64, len(r.Data)),
		Offsets: r.Offsets,
	}
}

// Len returns the number of rows.
func (r *Ragged) Len() int {
	if len(r.Offsets) == 0 {
		return 0
	}
	return len(r.Offsets) - 1
}

// RowLen returns the length of row i.
func (r *Ragged) RowLen(i int) int {
	return r.Offsets[i+1] - r.Offsets[i]
}

// Row returns row i as a view into Data.
func (r *Ragged) Row(i int) []float64 {
	if i < 0 || i >= r.Len() {
		panic(fmt.Sprintf("Row: index %d out of bounds for %d rows", i, r.Len()))
	}
	return r.Data[r.Offsets[i]:r.Offsets[i+1]]
}

// At returns the element at (row, col).
func (r *Ragged) At(row, col int) float64 {
	return r.Data[r.index(row, col)]
}

// Set sets the element at (row, col) to value.
func (r *Ragged) Set(value float64, row, col int) {
	r.Data[r.index(row, col)] = value
}

func (r *Ragged) index(row, col int) int {
	if row < 0 || row >= r.Len() {
		panic(fmt.Sprintf("index: row %d out of bounds for %d rows", row, r.Len()))
	}
	if col < 0 || col >= r.RowLen(row) {
		panic(fmt.Sprintf("index: col %d out of bounds for row %d of length %d", col, row, r.RowLen(row)))
	}
	return r.Offsets[row] + col
}

// ToRows copies r back into nested slices.
func (r *Ragged) ToRows() [][]float64 {
	rows := make([][]float64, r.Len())
	for i := range rows {
		rows[i] = append([]float64(nil), r.Row(i)...)
	}
	return rows
}

// Mul returns a*b element-wise as a new Ragged, or an error if the
// row structure differs.
func Mul(a, b *Ragged) (*Ragged, error) {
	if err := sameShape(a, b); err != nil {
		return nil, err
	}
	out := Like(a)
	floats.MulTo(out.Data, a.Data, b.Data)
	return out, nil
}

func sameShape(a, b *Ragged) error {
	if len(a.Offsets) != len(b.Offsets) {
		return fmt.Errorf("shape mismatch: %d rows vs %d rows", a.Len(), b.Len())
	}
	for i := range a.Offsets {
		if a.Offsets[i] != b.Offsets[i] {
			return fmt.Errorf("shape mismatch at row %d", max(i-1, 0))
		}
	}
	return nil
}
