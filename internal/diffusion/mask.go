// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package diffusion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// A pixel position
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// A boolean raster marking the pixels eligible for update
type Mask struct {
	rows, cols int
	bits       []bool
}

// Creates an all-false mask of the given shape
func NewMask(rows, cols int) *Mask {
	if rows < 0 || cols < 0 {
		rows, cols = 0, 0
	}
	return &Mask{rows: rows, cols: cols, bits: make([]bool, rows*cols)}
}

// Creates a mask from rows of booleans. All rows must have the same length
func NewMaskFromBools(rows [][]bool) (*Mask, error) {
	if len(rows) == 0 {
		return NewMask(0, 0), nil
	}
	m := NewMask(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != m.cols {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrInvalidMask, r, len(row), m.cols)
		}
		copy(m.bits[r*m.cols:(r+1)*m.cols], row)
	}
	return m, nil
}

// Creates a mask from a matrix. Zero entries map to false, all other entries to true.
// NaN entries are not coercible to boolean and rejected
func NewMaskFromMatrix(a mat.Matrix) (*Mask, error) {
	if isNil(a) {
		return nil, fmt.Errorf("%w: nil matrix", ErrInvalidMask)
	}
	rows, cols := a.Dims()
	m := NewMask(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := a.At(r, c)
			if math.IsNaN(v) {
				return nil, fmt.Errorf("%w: NaN at %v", ErrInvalidMask, Coord{r, c})
			}
			m.bits[r*cols+c] = v != 0
		}
	}
	return m, nil
}

// Creates a mask of the given shape which is true at exactly the given coordinates
func NewMaskFromCoords(rows, cols int, coords []Coord) (*Mask, error) {
	m := NewMask(rows, cols)
	for _, c := range coords {
		if err := m.Set(c.Row, c.Col, true); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Mask) Dims() (rows, cols int) { return m.rows, m.cols }

func (m *Mask) inBounds(r, c int) bool {
	return r >= 0 && r < m.rows && c >= 0 && c < m.cols
}

// Returns the mask value at the given position. Positions outside the mask are false
func (m *Mask) At(r, c int) bool {
	return m.inBounds(r, c) && m.bits[r*m.cols+c]
}

// Sets the mask value at the given position
func (m *Mask) Set(r, c int, v bool) error {
	if !m.inBounds(r, c) {
		return fmt.Errorf("%w: mask coordinate %v outside %dx%d", ErrOutOfBounds, Coord{r, c}, m.rows, m.cols)
	}
	m.bits[r*m.cols+c] = v
	return nil
}

// Returns the number of true entries
func (m *Mask) Count() (n int) {
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Returns the coordinates of all true entries, in row-major order
func (m *Mask) Coords() []Coord {
	coords := make([]Coord, 0, m.Count())
	for i, b := range m.bits {
		if b {
			coords = append(coords, Coord{i / m.cols, i % m.cols})
		}
	}
	return coords
}

// Returns the mask as rows of booleans
func (m *Mask) Bools() [][]bool {
	rows := make([][]bool, m.rows)
	for r := range rows {
		rows[r] = append([]bool(nil), m.bits[r*m.cols:(r+1)*m.cols]...)
	}
	return rows
}
