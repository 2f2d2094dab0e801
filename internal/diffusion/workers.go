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
	"runtime"

	"github.com/klauspost/cpuid"
)

// Images below this many pixels are always computed serially in auto mode
const parallelMinPixels = 128 * 128

// Returns the number of logical cores. Falls back to the runtime's count where
// CPUID is unavailable, e.g. on non-x86 architectures
func logicalCores() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Returns the number of goroutines evaluating directions for an image with given pixel count
func workers(p Params, pixels int) int {
	n := p.MaxThreads
	if n <= 0 {
		if pixels < parallelMinPixels {
			return 1
		}
		n = logicalCores()
	}
	if n > NumDirections {
		n = NumDirections
	}
	return n
}
