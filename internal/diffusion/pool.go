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
	"sync"
)

// Pool of constant sized scratch rasters, to reduce memory allocation overhead across steps
var poolFloat64 = struct {
	sync.RWMutex
	m map[int]*sync.Pool
}{m: make(map[int]*sync.Pool)}

// Clears the scratch raster pools and triggers garbage collection
func ClearPools() {
	poolFloat64.Lock()
	poolFloat64.m = make(map[int]*sync.Pool)
	poolFloat64.Unlock()
	runtime.GC()
}

// Returns a pool for []float64 arrays of the given size
func getSizedPoolFloat64(size int) *sync.Pool {
	poolFloat64.RLock()
	pool := poolFloat64.m[size]
	poolFloat64.RUnlock()
	if pool != nil {
		return pool
	}
	poolFloat64.Lock()
	defer poolFloat64.Unlock()
	if pool = poolFloat64.m[size]; pool == nil {
		pool = &sync.Pool{
			New: func() interface{} {
				return make([]float64, size)
			},
		}
		poolFloat64.m[size] = pool
	}
	return pool
}

// Retrieves an array of given size from the pool. Contents are undefined
func getScratch(size int) []float64 {
	return getSizedPoolFloat64(size).Get().([]float64)
}

// Returns an array to the pool. The caller must not use it afterwards
func putScratch(arr []float64) {
	getSizedPoolFloat64(cap(arr)).Put(arr[:cap(arr)])
}
