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

	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/mat"
)

// Gathers the 3x3 neighborhood of an interior pixel. Each row of the result holds one
// column of the image, i.e. result row i, column j is the image value at (r-1+j, c-1+i):
//
//	(r-1,c-1) (r,c-1) (r+1,c-1)
//	(r-1,c  ) (r,c  ) (r+1,c  )
//	(r-1,c+1) (r,c+1) (r+1,c+1)
//
// Border pixels have no full neighborhood and are rejected
func Neighborhood(p Coord, img mat.Matrix) (f64.Mat3, error) {
	if isNil(img) {
		return f64.Mat3{}, fmt.Errorf("%w: nil matrix", ErrEmptyImage)
	}
	rows, cols := img.Dims()
	if p.Row < 1 || p.Row > rows-2 || p.Col < 1 || p.Col > cols-2 {
		return f64.Mat3{}, fmt.Errorf("%w: %v is not an interior pixel of %dx%d", ErrOutOfBounds, p, rows, cols)
	}
	r, c := p.Row, p.Col
	return f64.Mat3{
		img.At(r-1, c-1), img.At(r, c-1), img.At(r+1, c-1),
		img.At(r-1, c), img.At(r, c), img.At(r+1, c),
		img.At(r-1, c+1), img.At(r, c+1), img.At(r+1, c+1),
	}, nil
}
