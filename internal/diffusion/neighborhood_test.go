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
	"errors"
	"testing"

	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/mat"
)

// 5x5 image with value 10*row+col
func indexImage() *mat.Dense {
	img := mat.NewDense(5, 5, nil)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			img.Set(r, c, float64(10*r+c))
		}
	}
	return img
}

func TestNeighborhood(t *testing.T) {
	img := indexImage()
	tcs := []struct {
		P    Coord
		Want f64.Mat3
	}{
		{Coord{2, 2}, f64.Mat3{11, 21, 31, 12, 22, 32, 13, 23, 33}},
		{Coord{1, 1}, f64.Mat3{0, 10, 20, 1, 11, 21, 2, 12, 22}},
		{Coord{1, 3}, f64.Mat3{2, 12, 22, 3, 13, 23, 4, 14, 24}},
		{Coord{3, 2}, f64.Mat3{21, 31, 41, 22, 32, 42, 23, 33, 43}},
	}
	for _, tc := range tcs {
		got, err := Neighborhood(tc.P, img)
		if err != nil {
			t.Fatalf("Neighborhood(%v): %s", tc.P, err.Error())
		}
		if got != tc.Want {
			t.Errorf("Neighborhood(%v)=%v; want %v", tc.P, got, tc.Want)
		}
	}
}

func TestNeighborhoodBorder(t *testing.T) {
	img := indexImage()
	for _, p := range []Coord{{0, 2}, {4, 2}, {2, 0}, {2, 4}, {0, 0}, {-1, 2}, {2, 7}} {
		if _, err := Neighborhood(p, img); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Neighborhood(%v) err=%v; want ErrOutOfBounds", p, err)
		}
	}
	if _, err := Neighborhood(Coord{1, 1}, mat.NewDense(2, 2, nil)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("2x2 image err=%v; want ErrOutOfBounds", err)
	}
	if _, err := Neighborhood(Coord{1, 1}, nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("nil image err=%v; want ErrEmptyImage", err)
	}
}
