package swarm

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Field is a grid of flow vectors covering the canvas. Cells are stored
// row-major and rebuilt in place by Generate.
type Field struct {
	Cols, Rows int
	Resolution float64
	Increment  float64 // noise-space step between neighbouring cells
	Magnitude  float64 // length of every flow vector
	Curl       float64 // turns of the circle covered by the noise range

	cells []r2.Vec
}

// NewField creates a field sized to cover a width×height canvas.
func NewField(width, height, resolution float64) *Field {
	if resolution <= 0 {
		resolution = 1
	}
	cols := int(math.Ceil(width / resolution))
	rows := int(math.Ceil(height / resolution))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Field{
		Cols:       cols,
		Rows:       rows,
		Resolution: resolution,
		Increment:  0.1,
		Magnitude:  0.2,
		Curl:       4,
		cells:      make([]r2.Vec, cols*rows),
	}
}

// Angle returns the flow direction of a cell at time offset t, in [0, Curl·2π).
func (f *Field) Angle(n Noise, col, row int, t float64) float64 {
	u := n.Eval3(float64(col)*f.Increment, float64(row)*f.Increment, t)
	if u >= 1 {
		u = math.Nextafter(1, 0)
	}
	return u * f.Curl * 2 * math.Pi
}

// Generate recomputes every cell from the noise at time offset t.
func (f *Field) Generate(n Noise, t float64) {
	for row := 0; row < f.Rows; row++ {
		for col := 0; col < f.Cols; col++ {
			f.cells[row*f.Cols+col] = FromAngle(f.Angle(n, col, row, t), f.Magnitude)
		}
	}
}

// CellOf returns the grid cell containing pos, clamped to the grid bounds.
func (f *Field) CellOf(pos r2.Vec) (col, row int) {
	return clampIndex(pos.X/f.Resolution, f.Cols), clampIndex(pos.Y/f.Resolution, f.Rows)
}

// Lookup returns the flow vector under pos.
func (f *Field) Lookup(pos r2.Vec) r2.Vec {
	col, row := f.CellOf(pos)
	return f.cells[row*f.Cols+col]
}

// At returns the vector stored in a cell. Indices are clamped.
func (f *Field) At(col, row int) r2.Vec {
	col = clampInt(col, f.Cols)
	row = clampInt(row, f.Rows)
	return f.cells[row*f.Cols+col]
}

// Set overwrites a cell. Out of range indices are ignored.
func (f *Field) Set(col, row int, v r2.Vec) {
	if col < 0 || col >= f.Cols || row < 0 || row >= f.Rows {
		return
	}
	f.cells[row*f.Cols+col] = v
}

// Fill sets every cell to v.
func (f *Field) Fill(v r2.Vec) {
	for i := range f.cells {
		f.cells[i] = v
	}
}

func clampIndex(v float64, n int) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v >= float64(n) {
		return n - 1
	}
	return int(v)
}

func clampInt(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
