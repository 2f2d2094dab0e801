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
	"strings"

	"golang.org/x/image/math/f64"
)

// Compass direction of a first-order neighbor difference
type Direction int

const (
	North Direction = iota
	South
	East
	West
	NorthEast
	SouthEast
	SouthWest
	NorthWest
)

// Number of directions, and hence of kernels, gradients and coefficients per diffusion step
const NumDirections = 8

var directionNames = [NumDirections]string{"N", "S", "E", "W", "NE", "SE", "SW", "NW"}

// Row and column offset of the neighbor, in kernel order
var directionOffsets = [NumDirections][2]int{
	{-1, 0}, {+1, 0}, {0, +1}, {0, -1},
	{-1, +1}, {+1, +1}, {+1, -1}, {-1, -1},
}

func (d Direction) String() string {
	if d < 0 || d >= NumDirections {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Returns the row and column offset of the neighbor in this direction
func (d Direction) Offset() (dr, dc int) {
	o := directionOffsets[d]
	return o[0], o[1]
}

// A 3x3 finite difference kernel, row-major from top left to bottom right
type Kernel f64.Mat3

// Returns a kernel with +1 at the neighbor in the given direction and -1 at the center,
// i.e. the difference of the neighbor value minus the center value
func NewKernel(d Direction) Kernel {
	var k Kernel
	dr, dc := d.Offset()
	k[4] = -1
	k[(dr+1)*3+dc+1] = 1
	return k
}

// Returns the entry at the given row and column offset from the center, each in [-1, 1]
func (k Kernel) At(dr, dc int) float64 {
	return k[(dr+1)*3+dc+1]
}

func (k Kernel) Mat3() f64.Mat3 { return f64.Mat3(k) }

// Returns the kernel as three rows of three values
func (k Kernel) Rows() [][]float64 {
	return [][]float64{
		{k[0], k[1], k[2]},
		{k[3], k[4], k[5]},
		{k[6], k[7], k[8]},
	}
}

func (k Kernel) String() string {
	b := strings.Builder{}
	for i, row := range k.Rows() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "[%2g %2g %2g]", row[0], row[1], row[2])
	}
	return b.String()
}

// Generates the eight directional difference kernels, indexed by Direction
func GenerateKernels() (kernels [NumDirections]Kernel) {
	for d := range kernels {
		kernels[d] = NewKernel(Direction(d))
	}
	return kernels
}
