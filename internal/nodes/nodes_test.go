package nodes

import (
	"context"
	"math"
	"testing"

	"github.com/aretw0/flojoy"
	"github.com/aretw0/flojoy/pkg/container"
	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/aretw0/flojoy/pkg/job"
	"github.com/aretw0/flojoy/pkg/params"
	"github.com/aretw0/flojoy/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t   *testing.T
	rt  *flojoy.Runtime
	reg *registry.Registry
}

func newHarness(t *testing.T) *harness {
	reg := registry.NewRegistry()
	Register(reg)
	return &harness{t: t, rt: flojoy.New(), reg: reg}
}

func (h *harness) run(name, jobID string, ctrls map[string]any, deps ...job.Dependency) domain.Result {
	h.t.Helper()
	controls := make(map[string]params.Control, len(ctrls))
	for p, v := range ctrls {
		controls[p] = params.Control{Param: p, Value: v}
	}
	res, err := h.reg.Execute(context.Background(), h.rt, name, flojoy.Call{
		NodeID:   name + "-" + jobID,
		JobID:    jobID,
		Previous: deps,
		Controls: controls,
	})
	require.NoError(h.t, err)
	return res
}

func data(t *testing.T, res domain.Result, key string) []float64 {
	t.Helper()
	dc, err := job.Resolve(res)
	require.NoError(t, err)
	arr, ok := dc.Array(key)
	require.True(t, ok, "missing %q", key)
	return arr.Data()
}

func TestRegister(t *testing.T) {
	reg := registry.NewRegistry()
	Register(reg)
	assert.Equal(t, []string{"ADD", "CONDITIONAL", "CONSTANT", "END", "LINSPACE", "SINE", "TEXT"}, reg.Names())
}

func TestLinspace(t *testing.T) {
	h := newHarness(t)
	res := h.run("LINSPACE", "j1", map[string]any{"start": 0, "end": 1, "step": 5})
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, data(t, res, "x"))
	assert.Equal(t, data(t, res, "x"), data(t, res, "y"))
}

func TestConstantAndAdd(t *testing.T) {
	h := newHarness(t)
	h.run("LINSPACE", "lin", map[string]any{"start": 0, "end": 2, "step": 3})
	h.run("CONSTANT", "c1", map[string]any{"constant": 2},
		job.Dependency{JobID: "lin", InputName: PortDefault})
	h.run("CONSTANT", "c2", map[string]any{"constant": 5},
		job.Dependency{JobID: "lin", InputName: PortDefault})

	res := h.run("ADD", "sum", nil,
		job.Dependency{JobID: "c1", InputName: PortDefault, Multiple: true},
		job.Dependency{JobID: "c2", InputName: PortDefault, Multiple: true},
		job.Dependency{JobID: "lin", InputName: PortDefault, Multiple: true},
	)
	assert.Equal(t, []float64{0, 1, 2}, data(t, res, "x"))
	assert.Equal(t, []float64{7, 8, 9}, data(t, res, "y"))
}

func TestConstant_DefaultAxis(t *testing.T) {
	h := newHarness(t)
	y := data(t, h.run("CONSTANT", "c", nil), "y")
	assert.Len(t, y, 1000)
	assert.Equal(t, 3.0, y[0])
}

func TestSine(t *testing.T) {
	h := newHarness(t)
	h.run("LINSPACE", "lin", map[string]any{"start": 0, "end": 0.5, "step": 3})
	res := h.run("SINE", "s", map[string]any{"amplitude": 2, "frequency": 1, "offset": 1},
		job.Dependency{JobID: "lin", InputName: PortDefault})

	y := data(t, res, "y")
	require.Len(t, y, 3)
	assert.InDelta(t, 1, y[0], 1e-9)
	assert.InDelta(t, 3, y[1], 1e-9)
	assert.InDelta(t, 1, y[2], 1e-9)

	_, err := h.reg.Execute(context.Background(), h.rt, "SINE", flojoy.Call{
		JobID:    "bad",
		Controls: map[string]params.Control{"w": {Param: "waveform", Value: "triangle"}},
	})
	assert.ErrorContains(t, err, "unknown waveform")
}

func TestSine_Square(t *testing.T) {
	h := newHarness(t)
	h.run("LINSPACE", "lin", map[string]any{"start": 0.25, "end": 0.75, "step": 2})
	y := data(t, h.run("SINE", "s", map[string]any{"waveform": "square"},
		job.Dependency{JobID: "lin", InputName: PortDefault}), "y")
	assert.Equal(t, []float64{1, -1}, y)
	assert.False(t, math.IsNaN(y[0]))
}

func TestConditional(t *testing.T) {
	h := newHarness(t)
	h.run("CONSTANT", "a", map[string]any{"constant": 4})
	h.run("CONSTANT", "b", map[string]any{"constant": 2})
	deps := []job.Dependency{
		{JobID: "a", InputName: PortX},
		{JobID: "b", InputName: PortY},
	}

	res := h.run("CONDITIONAL", "cmp", map[string]any{"operator_type": ">"}, deps...)
	assert.Equal(t, []string{DirectionTrue}, job.NextDirections(res))

	res = h.run("CONDITIONAL", "cmp2", map[string]any{"operator_type": "=="}, deps...)
	assert.Equal(t, []string{DirectionFalse}, job.NextDirections(res))
	assert.Equal(t, 4.0, data(t, res, "y")[0], "the x input is passed on")

	_, err := h.reg.Execute(context.Background(), h.rt, "CONDITIONAL", flojoy.Call{JobID: "none"})
	assert.ErrorIs(t, err, errNoInput)
}

func TestText(t *testing.T) {
	h := newHarness(t)
	res := h.run("TEXT", "t", map[string]any{"value": "hello"})
	dc := res.(*container.DataContainer)
	s, ok := container.TextOf(dc)
	assert.True(t, ok)
	assert.Equal(t, "hello", s)
}

func TestEnd(t *testing.T) {
	h := newHarness(t)
	h.run("TEXT", "t", map[string]any{"value": "done"})
	res := h.run("END", "e", nil, job.Dependency{JobID: "t", InputName: PortDefault})
	s, ok := job.Text(res)
	assert.True(t, ok)
	assert.Equal(t, "done", s)
}
