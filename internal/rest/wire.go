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

package rest

import (
	"errors"
	"fmt"
	"math"

	"github.com/mlnoga/anisodiff/internal/diffusion"
	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/mat"
)

// Returned for request bodies whose image or mask data does not match the stated shape
var ErrMalformed = errors.New("malformed wire data")

// A grayscale image on the wire, with row-major pixel data
type wireImage struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// A boolean mask on the wire, with row-major entries
type wireMask struct {
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
	Data []bool `json:"data"`
}

func checkShape(rows, cols, n int) error {
	if rows < 0 || cols < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrMalformed, cols, rows)
	}
	if rows == 0 || cols == 0 {
		return diffusion.ErrEmptyImage
	}
	if n != rows*cols {
		return fmt.Errorf("%w: %d entries for %dx%d", ErrMalformed, n, cols, rows)
	}
	return nil
}

func (w *wireImage) toDense() (*mat.Dense, error) {
	if w == nil {
		return nil, diffusion.ErrEmptyImage
	}
	if err := checkShape(w.Rows, w.Cols, len(w.Data)); err != nil {
		return nil, err
	}
	return mat.NewDense(w.Rows, w.Cols, w.Data), nil
}

// Converts a matrix for output. JSON has no encoding for NaN or infinities, so these are rejected
func fromDense(m *mat.Dense) (*wireImage, error) {
	rows, cols := m.Dims()
	data := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := m.At(r, c)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: result at (%d, %d) is %v", diffusion.ErrNonFinite, r, c, v)
			}
			data = append(data, v)
		}
	}
	return &wireImage{Rows: rows, Cols: cols, Data: data}, nil
}

func (w *wireMask) toMask() (*diffusion.Mask, error) {
	if w == nil {
		return nil, nil
	}
	if err := checkShape(w.Rows, w.Cols, len(w.Data)); err != nil {
		if errors.Is(err, diffusion.ErrEmptyImage) {
			return nil, fmt.Errorf("%w: empty mask", diffusion.ErrInvalidMask)
		}
		return nil, err
	}
	m := diffusion.NewMask(w.Rows, w.Cols)
	for i, b := range w.Data {
		if b {
			if err := m.Set(i/w.Cols, i%w.Cols, true); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Returns the rows of a 3x3 matrix
func mat3Rows(m f64.Mat3) [][]float64 {
	return [][]float64{m[0:3], m[3:6], m[6:9]}
}
