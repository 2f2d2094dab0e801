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
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mlnoga/anisodiff/internal/diffusion"
	"github.com/pbnjay/memory"
	"gonum.org/v1/gonum/mat"
)

// Returned when a frame's working set for one step exceeds the memory budget
var ErrInsufficientMemory = errors.New("insufficient memory")

// An execution context for operators
type Context struct {
	Log          io.Writer
	MemoryMB     int              // memory.TotalMemory()/1024/1024
	StepMemoryMB int              // MemoryMB*7/10
	MaxThreads   int              `json:"maxThreads"` // 0=auto
	Params       diffusion.Params // defaults for operators created without explicit parameters
}

func NewContext(log io.Writer, params diffusion.Params) *Context {
	memoryMB := int(memory.TotalMemory() / 1024 / 1024)
	return &Context{
		Log:          log,
		MemoryMB:     memoryMB,
		StepMemoryMB: memoryMB * 7 / 10,
		MaxThreads:   params.MaxThreads,
		Params:       params,
	}
}

// Returns the number of bytes one diffusion step holds at peak for an image of given shape:
// input copy, result, correction, and a gradient and coefficient buffer per direction
func StepWorkingSet(rows, cols int) int64 {
	return int64(2*diffusion.NumDirections+3) * int64(rows) * int64(cols) * 8
}

// Checks if a step over an image of given shape fits into the memory budget.
// A zero budget disables the check
func (c *Context) CheckMemory(rows, cols int) error {
	if c.StepMemoryMB <= 0 {
		return nil
	}
	need := StepWorkingSet(rows, cols)
	if need > int64(c.StepMemoryMB)*1024*1024 {
		return fmt.Errorf("%w: %dx%d image needs %d MiB, budget is %d MiB",
			ErrInsufficientMemory, cols, rows, need/1024/1024, c.StepMemoryMB)
	}
	return nil
}

// An image with optional inpainting mask, as passed between operators
type Frame struct {
	ID    int             // Sequential ID number, for log output
	Image *mat.Dense      // Grayscale intensities, rows x cols
	Mask  *diffusion.Mask // Pixels eligible for inpainting, if any
}

func NewFrame(id int, img *mat.Dense, mask *diffusion.Mask) *Frame {
	return &Frame{ID: id, Image: img, Mask: mask}
}

// Returns the image dimensions as width x height
func (f *Frame) DimensionsToString() string {
	if f.Image == nil {
		return "0x0"
	}
	rows, cols := f.Image.Dims()
	return fmt.Sprintf("%dx%d", cols, rows)
}

// A single-step image processing operator: takes one frame and produces one frame or an error
type Operator interface {
	GetType() string
	IsActive() bool
	Apply(f *Frame, c *Context) (fOut *Frame, err error)
}

// Base type for operators, including type information for JSON serializing/deserializing
type OpBase struct {
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

func (op *OpBase) GetType() string { return op.Type }
func (op *OpBase) IsActive() bool  { return op.Active }

// Factory method for operators. For JSON serializing/deserializing
type OperatorFactory func() Operator

// Mapping from operator type strings to factory method for the type
var operatorFactories = map[string]OperatorFactory{}

// Returns the operator factory for a given type string
func GetOperatorFactory(t string) OperatorFactory {
	return operatorFactories[t]
}

// Registers a given type string for a given type of Operator, identified via an exemplar generator
func SetOperatorFactory(f OperatorFactory) {
	op := f()
	t := op.GetType()
	if GetOperatorFactory(t) != nil {
		panic(fmt.Sprintf("error: re-registering operator key %s\n", t))
	}
	operatorFactories[t] = f
}

// Unmarshals a polymorphic operator from JSON, selecting the type via the "type" key.
// Missing entries take the defaults of the operator type
func NewOperatorFromJSON(raw []byte) (Operator, error) {
	var base OpBase
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, err
	}
	factory := GetOperatorFactory(base.Type)
	if factory == nil {
		return nil, fmt.Errorf("unknown operator type '%s' in raw JSON message '%s'", base.Type, string(raw))
	}
	op := factory()
	if err := json.Unmarshal(raw, op); err != nil {
		return nil, err
	}
	return op, nil
}
