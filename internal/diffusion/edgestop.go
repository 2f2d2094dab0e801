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
	"math"
)

// Edge stopping function: maps a gradient to a diffusion coefficient in (0,1]
type Variant int

const (
	Rational    Variant = iota // g(n) = 1/(1+(n/kappa)^2)
	Exponential                // g(n) = exp(-(n/kappa)^2)
)

func (v Variant) String() string {
	switch v {
	case Rational:
		return "rational"
	case Exponential:
		return "exponential"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// Parses a variant from its name
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "rational", "":
		return Rational, nil
	case "exponential", "exp":
		return Exponential, nil
	}
	return Rational, fmt.Errorf("%w '%s'", ErrUnknownVariant, s)
}

func (v Variant) MarshalText() ([]byte, error) {
	if v != Rational && v != Exponential {
		return nil, fmt.Errorf("%w %d", ErrUnknownVariant, int(v))
	}
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Returns the diffusion coefficient for gradient n and contrast kappa.
// Equals 1 for n=0 and decays towards 0 as |n| grows. kappa=0 is not guarded,
// and yields NaN for n=0 resp. 0 otherwise
func EdgeStop(v Variant, n, kappa float64) float64 {
	s := n / kappa
	switch v {
	case Rational:
		return 1 / (1 + s*s)
	case Exponential:
		return math.Exp(-s * s)
	}
	return math.NaN()
}

// Applies the edge stopping function elementwise to the gradients and stores the coefficients in dst
func Coefficients(dst, grad []float64, kappa float64, v Variant) {
	for i, n := range grad {
		dst[i] = EdgeStop(v, n, kappa)
	}
}
