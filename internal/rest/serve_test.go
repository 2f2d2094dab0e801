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
	"bytes"
	"encoding/json"
	"io/ioutil"
	"math"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mlnoga/anisodiff/internal/diffusion"
	"github.com/mlnoga/anisodiff/internal/ops"
	"github.com/valyala/fastrand"
	"gonum.org/v1/gonum/mat"
)

func testRouter(stepMemoryMB int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(&ops.Context{
		Log:          ioutil.Discard,
		StepMemoryMB: stepMemoryMB,
		Params:       diffusion.DefaultParams(),
	})
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encoding request: %s", err.Error())
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func wireOf(m *mat.Dense) *wireImage {
	rows, cols := m.Dims()
	return &wireImage{Rows: rows, Cols: cols, Data: mat.DenseCopyOf(m).RawMatrix().Data}
}

func randomDense(rows, cols int) *mat.Dense {
	rng := fastrand.RNG{}
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(rng.Uint32n(1000)) / 10
	}
	return mat.NewDense(rows, cols, data)
}

func decodeImage(t *testing.T, w *httptest.ResponseRecorder) *mat.Dense {
	var res struct {
		Image *wireImage `json:"image"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding %s: %s", w.Body.String(), err.Error())
	}
	img, err := res.Image.toDense()
	if err != nil {
		t.Fatalf("response image: %s", err.Error())
	}
	return img
}

func TestPing(t *testing.T) {
	w := do(t, testRouter(0), "GET", "/api/v1/ping", nil)
	if w.Code != http.StatusOK || w.Body.String() != `{"message":"pong"}` {
		t.Errorf("ping=%d %s; want 200 pong", w.Code, w.Body.String())
	}
}

func TestGetKernels(t *testing.T) {
	w := do(t, testRouter(0), "GET", "/api/v1/kernels", nil)
	var res struct {
		Kernels []wireKernel `json:"kernels"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding %s: %s", w.Body.String(), err.Error())
	}
	if len(res.Kernels) != diffusion.NumDirections {
		t.Fatalf("got %d kernels; want %d", len(res.Kernels), diffusion.NumDirections)
	}
	n := res.Kernels[0]
	want := [][]float64{{0, 1, 0}, {0, -1, 0}, {0, 0, 0}}
	if n.Direction != "N" || !reflect.DeepEqual(n.Matrix, want) {
		t.Errorf("kernel 0=%v; want N %v", n, want)
	}
	if res.Kernels[7].Direction != "NW" {
		t.Errorf("kernel 7 direction=%s; want NW", res.Kernels[7].Direction)
	}
}

func TestPostDiffuse(t *testing.T) {
	r := testRouter(0)
	img := randomDense(6, 9)

	w := do(t, r, "POST", "/api/v1/diffuse", gin.H{"image": wireOf(img), "op": gin.H{"kappa": 20, "variant": "exponential"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d %s; want 200", w.Code, w.Body.String())
	}
	want, err := diffusion.DiffuseWith(img, diffusion.DefaultDelta, 20, diffusion.Exponential)
	if err != nil {
		t.Fatalf("Diffuse: %s", err.Error())
	}
	if got := decodeImage(t, w); !mat.Equal(got, want) {
		t.Errorf("REST result differs from Diffuse")
	}

	// no op given: context defaults apply
	w = do(t, r, "POST", "/api/v1/diffuse", gin.H{"image": wireOf(img)})
	want, _ = diffusion.Diffuse(img, diffusion.DefaultParams())
	if w.Code != http.StatusOK || !mat.Equal(decodeImage(t, w), want) {
		t.Errorf("default op: status=%d or result differs from Diffuse", w.Code)
	}
}

func TestPostInpaint(t *testing.T) {
	r := testRouter(0)
	img := randomDense(5, 5)
	mask := &wireMask{Rows: 5, Cols: 5, Data: make([]bool, 25)}
	mask.Data[12] = true

	w := do(t, r, "POST", "/api/v1/inpaint", gin.H{"image": wireOf(img), "mask": mask})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d %s; want 200", w.Code, w.Body.String())
	}
	m, _ := diffusion.NewMaskFromCoords(5, 5, []diffusion.Coord{{Row: 2, Col: 2}})
	want, err := diffusion.InpaintStep(img, m)
	if err != nil {
		t.Fatalf("InpaintStep: %s", err.Error())
	}
	got := decodeImage(t, w)
	if !mat.Equal(got, want) {
		t.Errorf("REST result differs from InpaintStep")
	}
	if got.At(0, 0) != img.At(0, 0) {
		t.Errorf("pixel outside mask changed from %v to %v", img.At(0, 0), got.At(0, 0))
	}
}

func TestPostNeighborhood(t *testing.T) {
	img := mat.NewDense(5, 5, nil)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			img.Set(r, c, float64(10*r+c))
		}
	}
	w := do(t, testRouter(0), "POST", "/api/v1/neighborhood", gin.H{"image": wireOf(img), "row": 2, "col": 2})
	var res struct {
		Matrix [][]float64 `json:"matrix"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding %s: %s", w.Body.String(), err.Error())
	}
	want := [][]float64{{11, 21, 31}, {12, 22, 32}, {13, 23, 33}}
	if w.Code != http.StatusOK || !reflect.DeepEqual(res.Matrix, want) {
		t.Errorf("neighborhood=%d %v; want 200 %v", w.Code, res.Matrix, want)
	}
}

func TestErrorStatus(t *testing.T) {
	img := wireOf(randomDense(4, 4))
	tcs := []struct {
		Name string
		Path string
		Body interface{}
		Code int
	}{
		{"bad json", "/api/v1/diffuse", `{"image":`, http.StatusBadRequest},
		{"short data", "/api/v1/diffuse", gin.H{"image": wireImage{Rows: 2, Cols: 2, Data: []float64{1, 2, 3}}}, http.StatusBadRequest},
		{"wrong op type", "/api/v1/diffuse", gin.H{"image": img, "op": gin.H{"type": "inpaint"}}, http.StatusBadRequest},
		{"unknown variant", "/api/v1/diffuse", gin.H{"image": img, "op": gin.H{"variant": "gauss"}}, http.StatusBadRequest},
		{"no image", "/api/v1/diffuse", gin.H{}, http.StatusUnprocessableEntity},
		{"empty image", "/api/v1/diffuse", gin.H{"image": wireImage{}}, http.StatusUnprocessableEntity},
		{"zero kappa", "/api/v1/diffuse", gin.H{"image": img, "op": gin.H{"kappa": 0}}, http.StatusUnprocessableEntity},
		{"no mask", "/api/v1/inpaint", gin.H{"image": img}, http.StatusUnprocessableEntity},
		{"mask shape", "/api/v1/inpaint", gin.H{"image": img, "mask": wireMask{Rows: 1, Cols: 2, Data: []bool{true, false}}}, http.StatusUnprocessableEntity},
		{"border", "/api/v1/neighborhood", gin.H{"image": img, "row": 0, "col": 1}, http.StatusUnprocessableEntity},
	}
	r := testRouter(0)
	for _, tc := range tcs {
		w := do(t, r, "POST", tc.Path, tc.Body)
		if w.Code != tc.Code {
			t.Errorf("%s: status=%d %s; want %d", tc.Name, w.Code, w.Body.String(), tc.Code)
		}
	}
}

func TestMemoryGuardStatus(t *testing.T) {
	w := do(t, testRouter(1), "POST", "/api/v1/diffuse", gin.H{"image": wireOf(mat.NewDense(300, 300, nil))})
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status=%d %s; want 413", w.Code, w.Body.String())
	}
}

func TestFromDenseNonFinite(t *testing.T) {
	m := mat.NewDense(1, 2, []float64{1, math.NaN()})
	if _, err := fromDense(m); statusOf(err) != http.StatusUnprocessableEntity {
		t.Errorf("NaN result err=%v; want non-finite contract violation", err)
	}
}

func TestMakeSandboxNoop(t *testing.T) {
	var log bytes.Buffer
	if err := MakeSandbox("", -1, &log); err != nil || log.Len() != 0 {
		t.Errorf("no-op sandbox err=%v log=%q; want nil and no output", err, log.String())
	}
}
