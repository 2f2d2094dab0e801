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

package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistics on data arrays
type BasicStats struct {
	Min    float64 // Minimum
	Max    float64 // Maximum
	Mean   float64 // Mean (average)
	StdDev float64 // Standard deviation (norm 2, sigma), of the population
}

// Pretty print basic stats to string
func (s *BasicStats) String() string {
	return fmt.Sprintf("Min %.6g Max %.6g Mean %.6g StdDev %.6g", s.Min, s.Max, s.Mean, s.StdDev)
}

// Pretty print basic stats to CSV header
func (s *BasicStats) ToCSVHeader() string {
	return "Min,Max,Mean,StdDev"
}

// Pretty print basic stats to CSV line item
func (s *BasicStats) ToCSVLine() string {
	return fmt.Sprintf("%.6g,%.6g,%.6g,%.6g", s.Min, s.Max, s.Mean, s.StdDev)
}

// Calculate basic statistics for a data array. Empty arrays yield NaN entries
func CalcBasicStats(data []float64) (s *BasicStats) {
	if len(data) == 0 {
		nan := math.NaN()
		return &BasicStats{Min: nan, Max: nan, Mean: nan, StdDev: nan}
	}
	s = &BasicStats{Min: floats.Min(data), Max: floats.Max(data), Mean: stat.Mean(data, nil)}
	s.StdDev = math.Sqrt(stat.MomentAbout(2, data, s.Mean, nil))
	return s
}
