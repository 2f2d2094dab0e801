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

	"gonum.org/v1/gonum/mat"
)

// Check if coordinate is within [0, size-1], and if not, reflect out of bounds coordinates back into the value range.
// Mirrors about the outer pixel edge, i.e. d c b a | a b c d | d c b a
func reflectIndex(size, x int) int {
	if x < 0 {
		return -x - 1
	}
	if x >= size {
		return 2*size - x - 1
	}
	return x
}

// Applies the 3x3 kernel centered on each pixel of the 2D image given by data and width, and stores the result in res.
// Neighbors outside the image are reflected back into it. Zero kernel entries are skipped
func ApplyKernel(res, data []float64, width int, k Kernel) {
	height := len(data) / width
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sum := 0.0
			for dy := -1; dy <= 1; dy++ {
				y1 := reflectIndex(height, y+dy)
				for dx := -1; dx <= 1; dx++ {
					kv := k.At(dy, dx)
					if kv == 0 {
						continue
					}
					sum += kv * data[y1*width+reflectIndex(width, x+dx)]
				}
			}
			res[y*width+x] = sum
		}
	}
}

// Copies the given matrix into a newly allocated row-major raster
func rasterOf(m mat.Matrix) (data []float64, rows, cols int, err error) {
	if isNil(m) {
		return nil, 0, 0, fmt.Errorf("%w: nil matrix", ErrEmptyImage)
	}
	rows, cols = m.Dims()
	if rows == 0 || cols == 0 {
		return nil, rows, cols, fmt.Errorf("%w: %dx%d", ErrEmptyImage, rows, cols)
	}
	return mat.DenseCopyOf(m).RawMatrix().Data, rows, cols, nil
}

// Reports whether the matrix is nil, including a nil *mat.Dense
func isNil(m mat.Matrix) bool {
	if m == nil {
		return true
	}
	d, ok := m.(*mat.Dense)
	return ok && d == nil
}
