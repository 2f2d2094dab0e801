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

// Package diffusion implements single steps of Perona-Malik anisotropic diffusion
// on grayscale images, with an optional mask restricting the update for inpainting.
// Iteration, I/O and color handling are left to the caller.
package diffusion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Historical step size and contrast of the inpainting step
const (
	DefaultDelta = 0.1
	DefaultKappa = 15
)

// Configuration of a single diffusion step
type Params struct {
	Variant    Variant `json:"variant"`
	Delta      float64 `json:"delta"`      // step size, small and positive for a stable scheme. Not enforced
	Kappa      float64 `json:"kappa"`      // contrast, must be nonzero
	DD         float64 `json:"dd"`         // reserved legacy coefficient parameter. Accepted, never read
	MaxThreads int     `json:"maxThreads"` // number of directions computed concurrently, 0=auto
}

// Returns the parameters of the historical inpainting step: rational, delta 0.1, kappa 15
func DefaultParams() Params {
	return Params{
		Variant: Rational,
		Delta:   DefaultDelta,
		Kappa:   DefaultKappa,
	}
}

// Checks the parameters before any computation takes place
func (p Params) Validate() error {
	if p.Variant != Rational && p.Variant != Exponential {
		return fmt.Errorf("%w %d", ErrUnknownVariant, int(p.Variant))
	}
	if math.IsNaN(p.Kappa) || math.IsInf(p.Kappa, 0) {
		return fmt.Errorf("%w: kappa=%g", ErrNonFinite, p.Kappa)
	}
	if p.Kappa == 0 {
		return ErrZeroKappa
	}
	if math.IsNaN(p.Delta) || math.IsInf(p.Delta, 0) {
		return fmt.Errorf("%w: delta=%g", ErrNonFinite, p.Delta)
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("%v delta=%.4g kappa=%.4g", p.Variant, p.Delta, p.Kappa)
}

// Computes the directional gradients of the image, one per kernel from GenerateKernels.
// Each gradient has the shape of the image, in row-major order
func Gradients(img mat.Matrix) (grads [NumDirections][]float64, err error) {
	data, _, cols, err := rasterOf(img)
	if err != nil {
		return grads, err
	}
	kernels := GenerateKernels()
	for d, k := range kernels {
		grads[d] = make([]float64, len(data))
		ApplyKernel(grads[d], data, cols, k)
	}
	return grads, nil
}

// Computes the unscaled diffusion correction of the image: the sum over all directions
// of the edge stop coefficient times the gradient
func Correction(img mat.Matrix, p Params) (*mat.Dense, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	data, rows, cols, err := rasterOf(img)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(rows, cols, correction(data, cols, p)), nil
}

// Performs one explicit Euler step of anisotropic diffusion and returns the result
// image + delta*correction as a new matrix. The input is not modified
func Diffuse(img mat.Matrix, p Params) (*mat.Dense, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	data, rows, cols, err := rasterOf(img)
	if err != nil {
		return nil, err
	}
	step := correction(data, cols, p)
	floats.Scale(p.Delta, step)
	return mat.NewDense(rows, cols, floats.AddTo(step, data, step)), nil
}

// Performs one diffusion step with the given step size, contrast and variant
func DiffuseWith(img mat.Matrix, delta, kappa float64, v Variant) (*mat.Dense, error) {
	return Diffuse(img, Params{Variant: v, Delta: delta, Kappa: kappa})
}

// Computes the correction of the image given by data and width. Chooses between
// serial and concurrent evaluation of the directions, both yield identical results
func correction(data []float64, width int, p Params) []float64 {
	if n := workers(p, len(data)); n > 1 {
		return correctionParallel(data, width, p, n)
	}
	return correctionSerial(data, width, p)
}

func correctionSerial(data []float64, width int, p Params) []float64 {
	kernels := GenerateKernels()
	corr := make([]float64, len(data))
	grad, coef := getScratch(len(data)), getScratch(len(data))
	for _, k := range kernels {
		directionalFlux(coef, grad, data, width, k, p)
		floats.Add(corr, coef)
	}
	putScratch(grad)
	putScratch(coef)
	return corr
}

// Evaluates the directions with at most the given number of goroutines. Each direction
// owns its buffers, and the sum is formed in direction order once all are done
func correctionParallel(data []float64, width int, p Params, threads int) []float64 {
	kernels := GenerateKernels()
	var fluxes [NumDirections][]float64
	limiter := make(chan bool, threads)
	for d := range kernels {
		limiter <- true
		go func(d int) {
			defer func() { <-limiter }()
			grad, coef := getScratch(len(data)), getScratch(len(data))
			directionalFlux(coef, grad, data, width, kernels[d], p)
			putScratch(grad)
			fluxes[d] = coef
		}(d)
	}
	for i := 0; i < cap(limiter); i++ { // wait for goroutines to finish
		limiter <- true
	}

	corr := make([]float64, len(data))
	for _, flux := range fluxes {
		floats.Add(corr, flux)
		putScratch(flux)
	}
	return corr
}

// Computes gradient and coefficient for one kernel, and leaves their elementwise product in coef.
// Overwrites grad
func directionalFlux(coef, grad, data []float64, width int, k Kernel, p Params) {
	ApplyKernel(grad, data, width, k)
	Coefficients(coef, grad, p.Kappa, p.Variant)
	floats.Mul(coef, grad)
}
