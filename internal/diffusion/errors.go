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
)

// Contract violations reported by the diffusion operations. Returned errors wrap
// one of these with details, test with errors.Is
var (
	ErrEmptyImage     = errors.New("empty image")
	ErrShapeMismatch  = errors.New("shape mismatch")
	ErrInvalidMask    = errors.New("invalid mask")
	ErrOutOfBounds    = errors.New("index out of bounds")
	ErrZeroKappa      = errors.New("kappa must be nonzero")
	ErrNonFinite      = errors.New("non-finite parameter")
	ErrUnknownVariant = errors.New("unknown edge stop variant")
)
