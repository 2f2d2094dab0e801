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

package ops

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mlnoga/anisodiff/internal/diffusion"
	"github.com/mlnoga/anisodiff/internal/stats"
	"gonum.org/v1/gonum/mat"
)

// Applies one anisotropic diffusion step to the whole image. Takes one frame, produces one frame
type OpDiffuse struct {
	OpBase
	diffusion.Params
}

var _ Operator = (*OpDiffuse)(nil) // this type is an Operator
func init() { SetOperatorFactory(func() Operator { return NewOpDiffuseDefault() }) } // register the operator for JSON decoding

func NewOpDiffuseDefault() *OpDiffuse { return NewOpDiffuse(diffusion.DefaultParams()) }

func NewOpDiffuse(p diffusion.Params) *OpDiffuse {
	return &OpDiffuse{
		OpBase: OpBase{Type: "diffuse", Active: true},
		Params: p,
	}
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpDiffuse) UnmarshalJSON(data []byte) error {
	return op.unmarshalWith(data, diffusion.DefaultParams())
}

func (op *OpDiffuse) unmarshalWith(data []byte, p diffusion.Params) error {
	type defaults OpDiffuse
	def := defaults(*NewOpDiffuse(p))
	err := json.Unmarshal(data, &def)
	if err != nil {
		return err
	}
	*op = OpDiffuse(def)
	return nil
}

// Unmarshals an OpDiffuse from JSON, taking missing entries from p. Empty or null JSON yields p as is
func NewOpDiffuseFromJSON(data []byte, p diffusion.Params) (*OpDiffuse, error) {
	op := NewOpDiffuse(p)
	if isEmptyJSON(data) {
		return op, nil
	}
	if err := op.unmarshalWith(data, p); err != nil {
		return nil, err
	}
	if op.Type != "diffuse" {
		return nil, fmt.Errorf("operator type '%s' where 'diffuse' was expected", op.Type)
	}
	return op, nil
}

func (op *OpDiffuse) Apply(f *Frame, c *Context) (result *Frame, err error) {
	if !op.Active {
		return f, nil
	}
	p, err := prepareStep(f, c, op.Params)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(c.Log, "%d: Diffusing %s pixels with %v\n", f.ID, f.DimensionsToString(), p)

	img, err := diffusion.Diffuse(f.Image, p)
	if err != nil {
		return nil, fmt.Errorf("%d: %w", f.ID, err)
	}
	logStats(c, f.ID, img)
	return NewFrame(f.ID, img, f.Mask), nil
}

// Applies one diffusion step restricted to the frame's mask. Takes one frame with mask, produces one frame
type OpInpaint struct {
	OpBase
	diffusion.Params
}

var _ Operator = (*OpInpaint)(nil) // this type is an Operator
func init() { SetOperatorFactory(func() Operator { return NewOpInpaintDefault() }) } // register the operator for JSON decoding

func NewOpInpaintDefault() *OpInpaint { return NewOpInpaint(diffusion.DefaultParams()) }

func NewOpInpaint(p diffusion.Params) *OpInpaint {
	return &OpInpaint{
		OpBase: OpBase{Type: "inpaint", Active: true},
		Params: p,
	}
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpInpaint) UnmarshalJSON(data []byte) error {
	return op.unmarshalWith(data, diffusion.DefaultParams())
}

func (op *OpInpaint) unmarshalWith(data []byte, p diffusion.Params) error {
	type defaults OpInpaint
	def := defaults(*NewOpInpaint(p))
	err := json.Unmarshal(data, &def)
	if err != nil {
		return err
	}
	*op = OpInpaint(def)
	return nil
}

// Unmarshals an OpInpaint from JSON, taking missing entries from p. Empty or null JSON yields p as is
func NewOpInpaintFromJSON(data []byte, p diffusion.Params) (*OpInpaint, error) {
	op := NewOpInpaint(p)
	if isEmptyJSON(data) {
		return op, nil
	}
	if err := op.unmarshalWith(data, p); err != nil {
		return nil, err
	}
	if op.Type != "inpaint" {
		return nil, fmt.Errorf("operator type '%s' where 'inpaint' was expected", op.Type)
	}
	return op, nil
}

func (op *OpInpaint) Apply(f *Frame, c *Context) (result *Frame, err error) {
	if !op.Active {
		return f, nil
	}
	p, err := prepareStep(f, c, op.Params)
	if err != nil {
		return nil, err
	}
	if f.Mask == nil {
		return nil, fmt.Errorf("%d: %w: %s operator needs a mask", f.ID, diffusion.ErrInvalidMask, op.Type)
	}
	fmt.Fprintf(c.Log, "%d: Inpainting %d of %s pixels with %v\n", f.ID, f.Mask.Count(), f.DimensionsToString(), p)

	img, err := diffusion.InpaintStepWith(f.Image, f.Mask, p)
	if err != nil {
		return nil, fmt.Errorf("%d: %w", f.ID, err)
	}
	logStats(c, f.ID, img)
	return NewFrame(f.ID, img, f.Mask), nil
}

// Checks the frame against the memory budget, and fills in the context's thread limit if unset
func prepareStep(f *Frame, c *Context, p diffusion.Params) (diffusion.Params, error) {
	if f == nil || f.Image == nil {
		return p, fmt.Errorf("%w: frame without image", diffusion.ErrEmptyImage)
	}
	rows, cols := f.Image.Dims()
	if err := c.CheckMemory(rows, cols); err != nil {
		return p, fmt.Errorf("%d: %w", f.ID, err)
	}
	if p.MaxThreads == 0 {
		p.MaxThreads = c.MaxThreads
	}
	return p, nil
}

func isEmptyJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func logStats(c *Context, id int, img *mat.Dense) {
	fmt.Fprintf(c.Log, "%d: Result %v\n", id, stats.CalcBasicStats(img.RawMatrix().Data))
}

// Reports whether err is a contract violation of the diffusion operations
func IsContractViolation(err error) bool {
	for _, e := range []error{
		diffusion.ErrEmptyImage, diffusion.ErrShapeMismatch, diffusion.ErrInvalidMask,
		diffusion.ErrOutOfBounds, diffusion.ErrZeroKappa, diffusion.ErrNonFinite,
		diffusion.ErrUnknownVariant,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
