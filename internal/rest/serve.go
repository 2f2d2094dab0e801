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

package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/mlnoga/anisodiff/internal/diffusion"
	"github.com/mlnoga/anisodiff/internal/ops"
)

type server struct {
	ctx    *ops.Context
	nextID int64 // frame IDs for log output
}

// Creates the HTTP router for the diffusion API. Operators without explicit parameters use the context defaults
func NewRouter(c *ops.Context) *gin.Engine {
	s := &server{ctx: c}
	r := gin.New()
	r.Use(gin.LoggerWithWriter(c.Log), gin.Recovery())
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/ping", getPing)
			v1.GET("/kernels", getKernels)
			v1.POST("/diffuse", s.postDiffuse)
			v1.POST("/inpaint", s.postInpaint)
			v1.POST("/neighborhood", postNeighborhood)
		}
	}
	return r
}

// Listens and serves the diffusion API on the given address, e.g. ":8080"
func Serve(addr string, c *ops.Context) error {
	fmt.Fprintf(c.Log, "Serving on %s with defaults %v\n", addr, c.Params)
	return NewRouter(c).Run(addr)
}

func getPing(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "pong",
	})
}

type wireKernel struct {
	Direction string      `json:"direction"`
	Matrix    [][]float64 `json:"matrix"`
}

func getKernels(c *gin.Context) {
	kernels := diffusion.GenerateKernels()
	res := make([]wireKernel, len(kernels))
	for i, k := range kernels {
		res[i] = wireKernel{Direction: diffusion.Direction(i).String(), Matrix: k.Rows()}
	}
	c.JSON(http.StatusOK, gin.H{"kernels": res})
}

type postDiffuseArgs struct {
	Image *wireImage      `json:"image"`
	Op    json.RawMessage `json:"op"`
}

func (s *server) postDiffuse(c *gin.Context) {
	var args postDiffuseArgs
	if err := c.ShouldBindJSON(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	op, err := ops.NewOpDiffuseFromJSON(args.Op, s.ctx.Params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	img, err := args.Image.toDense()
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.apply(c, op, ops.NewFrame(s.frameID(), img, nil))
}

type postInpaintArgs struct {
	Image *wireImage      `json:"image"`
	Mask  *wireMask       `json:"mask"`
	Op    json.RawMessage `json:"op"`
}

func (s *server) postInpaint(c *gin.Context) {
	var args postInpaintArgs
	if err := c.ShouldBindJSON(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	op, err := ops.NewOpInpaintFromJSON(args.Op, s.ctx.Params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	img, err := args.Image.toDense()
	if err != nil {
		abortWithError(c, err)
		return
	}
	mask, err := args.Mask.toMask()
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.apply(c, op, ops.NewFrame(s.frameID(), img, mask))
}

func (s *server) frameID() int {
	return int(atomic.AddInt64(&s.nextID, 1))
}

func (s *server) apply(c *gin.Context, op ops.Operator, f *ops.Frame) {
	res, err := op.Apply(f, s.ctx)
	if err != nil {
		fmt.Fprintf(s.ctx.Log, "%d: Error: %s\n", f.ID, err.Error())
		abortWithError(c, err)
		return
	}
	img, err := fromDense(res.Image)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": img})
}

type postNeighborhoodArgs struct {
	Image *wireImage `json:"image"`
	Row   int        `json:"row"`
	Col   int        `json:"col"`
}

func postNeighborhood(c *gin.Context) {
	var args postNeighborhoodArgs
	if err := c.ShouldBindJSON(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	img, err := args.Image.toDense()
	if err != nil {
		abortWithError(c, err)
		return
	}
	m, err := diffusion.Neighborhood(diffusion.Coord{Row: args.Row, Col: args.Col}, img)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matrix": mat3Rows(m)})
}

// Maps errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrMalformed):
		return http.StatusBadRequest
	case errors.Is(err, ops.ErrInsufficientMemory):
		return http.StatusRequestEntityTooLarge
	case ops.IsContractViolation(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusOf(err), gin.H{"error": err.Error()})
}
