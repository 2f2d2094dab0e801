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

	"gonum.org/v1/gonum/mat"
)

func TestReflectIndex(t *testing.T) {
	tcs := []struct{ Size, X, Want int }{
		{5, -1, 0},
		{5, -2, 1},
		{5, 0, 0},
		{5, 2, 2},
		{5, 4, 4},
		{5, 5, 4},
		{5, 6, 3},
		{1, -1, 0},
		{1, 1, 0},
	}
	for _, tc := range tcs {
		if got := reflectIndex(tc.Size, tc.X); got != tc.Want {
			t.Errorf("reflectIndex(%d,%d)=%d; want %d", tc.Size, tc.X, got, tc.Want)
		}
	}
}

func TestApplyKernelIdentity(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	res := make([]float64, len(data))
	ApplyKernel(res, data, 3, Kernel{4: 1})
	for i := range data {
		if res[i] != data[i] {
			t.Errorf("res[%d]=%g; want %g", i, res[i], data[i])
		}
	}
}

func TestGradients(t *testing.T) {
	img := mat.NewDense(3, 4, []float64{
		0, 1, 2, 3,
		10, 11, 12, 13,
		20, 21, 22, 23,
	})
	grads, err := Gradients(img)
	if err != nil {
		t.Fatalf("Gradients: %s", err.Error())
	}

	tcs := []struct {
		D        Direction
		Row, Col int
		Want     float64
	}{
		{North, 0, 2, 0},
		{North, 2, 2, -10},
		{South, 1, 1, 10},
		{South, 2, 1, 0},
		{East, 1, 1, 1},
		{East, 1, 3, 0},
		{West, 1, 0, 0},
		{West, 2, 2, -1},
		{NorthEast, 1, 1, -9},
		{NorthEast, 0, 1, 1},
		{NorthEast, 0, 3, 0},
		{SouthEast, 0, 0, 11},
		{SouthWest, 1, 1, 9},
		{NorthWest, 0, 0, 0},
		{NorthWest, 2, 3, -11},
	}
	for _, tc := range tcs {
		if len(grads[tc.D]) != 12 {
			t.Fatalf("len(grads[%v])=%d; want 12", tc.D, len(grads[tc.D]))
		}
		if got := grads[tc.D][tc.Row*4+tc.Col]; got != tc.Want {
			t.Errorf("%v gradient at (%d,%d)=%g; want %g", tc.D, tc.Row, tc.Col, got, tc.Want)
		}
	}
}

func TestGradientsEmpty(t *testing.T) {
	if _, err := Gradients(&mat.Dense{}); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("err=%v; want ErrEmptyImage", err)
	}
	var nilDense *mat.Dense
	if _, err := Gradients(nilDense); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("nil *mat.Dense err=%v; want ErrEmptyImage", err)
	}
	if _, err := Gradients(nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("nil err=%v; want ErrEmptyImage", err)
	}
}
