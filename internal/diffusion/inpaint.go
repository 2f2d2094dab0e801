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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Performs one inpainting step with the historical parameters from DefaultParams
func InpaintStep(img mat.Matrix, mask *Mask) (*mat.Dense, error) {
	return InpaintStepWith(img, mask, DefaultParams())
}

// Performs one diffusion step restricted to the pixels where the mask is true.
// All other pixels are returned unchanged. With an all-true mask the result equals Diffuse
func InpaintStepWith(img mat.Matrix, mask *Mask, p Params) (*mat.Dense, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if mask == nil {
		return nil, fmt.Errorf("%w: nil mask", ErrInvalidMask)
	}
	data, rows, cols, err := rasterOf(img)
	if err != nil {
		return nil, err
	}
	if mRows, mCols := mask.Dims(); mRows != rows || mCols != cols {
		return nil, fmt.Errorf("%w: image %dx%d, mask %dx%d", ErrShapeMismatch, rows, cols, mRows, mCols)
	}

	step := correction(data, cols, p)
	floats.Scale(p.Delta, step)

	// data is a private copy, so only masked entries are touched
	for _, c := range mask.Coords() {
		i := c.Row*cols + c.Col
		data[i] += step[i]
	}
	return mat.NewDense(rows, cols, data), nil
}
