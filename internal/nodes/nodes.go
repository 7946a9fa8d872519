package nodes

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/flojoy"
	"github.com/aretw0/flojoy/pkg/container"
	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/aretw0/flojoy/pkg/job"
	"github.com/aretw0/flojoy/pkg/ndarray"
	"github.com/aretw0/flojoy/pkg/registry"
	"github.com/spf13/cast"
)

// Input port names.
const (
	PortDefault = "default"
	PortX       = "x"
	PortY       = "y"
)

// Directions emitted by CONDITIONAL.
const (
	DirectionTrue  = "true"
	DirectionFalse = "false"
)

var errNoInput = errors.New("missing input")

// Register adds the built-in nodes to reg.
func Register(reg *registry.Registry) {
	reg.Register("LINSPACE", linspace, flojoy.WithParams("start", "end", "step"))
	reg.Register("CONSTANT", constant, flojoy.WithParams("constant"))
	reg.Register("SINE", sine, flojoy.WithParams("amplitude", "frequency", "offset", "waveform"))
	reg.Register("ADD", add)
	reg.Register("CONDITIONAL", conditional, flojoy.WithParams("operator_type"))
	reg.Register("TEXT", text, flojoy.WithParams("value"))
	reg.Register("END", end)
}

func param(in flojoy.Input, name string, def float64) float64 {
	v, ok := in.Param(name)
	if !ok {
		return def
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return def
	}
	return f
}

// linspace returns step evenly spaced samples between start and end.
func linspace(_ context.Context, _ *flojoy.Runtime, in flojoy.Input) (domain.Result, error) {
	start := param(in, "start", 10)
	end := param(in, "end", 0)
	n := int(param(in, "step", 1000))
	if n < 1 {
		return nil, fmt.Errorf("LINSPACE needs at least one step, got %d", n)
	}

	x := make([]float64, n)
	for i := range x {
		if n == 1 {
			x[i] = start
			continue
		}
		x[i] = start + (end-start)*float64(i)/float64(n-1)
	}
	return container.OrderedPair(x, x)
}

// constant fills y with the constant over the x axis of its input, or over
// the default axis.
func constant(_ context.Context, _ *flojoy.Runtime, in flojoy.Input) (domain.Result, error) {
	c := param(in, "constant", 3)
	x := xAxis(in, PortDefault)
	return container.OrderedPair(x, ndarray.Full(x.Shape(), c))
}

func sine(_ context.Context, _ *flojoy.Runtime, in flojoy.Input) (domain.Result, error) {
	amplitude := param(in, "amplitude", 1)
	frequency := param(in, "frequency", 1)
	offset := param(in, "offset", 0)
	waveform := "sine"
	if v, ok := in.Param("waveform"); ok {
		waveform = cast.ToString(v)
	}

	x := xAxis(in, PortDefault)
	y := make([]float64, x.Size())
	for i, v := range x.Data() {
		phase := 2 * math.Pi * frequency * v
		switch waveform {
		case "square":
			y[i] = amplitude*math.Copysign(1, math.Sin(phase)) + offset
		case "sawtooth":
			y[i] = amplitude*2*(frequency*v-math.Floor(0.5+frequency*v)) + offset
		case "sine":
			y[i] = amplitude*math.Sin(phase) + offset
		default:
			return nil, fmt.Errorf("SINE: unknown waveform %q", waveform)
		}
	}
	return container.OrderedPair(x, y)
}

// add sums the y values of every input on the default port.
func add(_ context.Context, _ *flojoy.Runtime, in flojoy.Input) (domain.Result, error) {
	inputs := in.Inputs.All(PortDefault)
	if len(inputs) == 0 {
		return nil, fmt.Errorf("ADD: %w", errNoInput)
	}

	x, err := values(inputs[0], "x")
	if err != nil {
		return nil, fmt.Errorf("ADD: %w", err)
	}
	sum := make([]float64, 0)
	for i, dc := range inputs {
		y, err := values(dc, "y")
		if err != nil {
			return nil, fmt.Errorf("ADD: input %d: %w", i, err)
		}
		if i == 0 {
			sum = append(sum, y.Data()...)
			continue
		}
		if y.Size() != len(sum) {
			return nil, fmt.Errorf("ADD: input %d has %d values, want %d", i, y.Size(), len(sum))
		}
		for j, v := range y.Data() {
			sum[j] += v
		}
	}
	return container.OrderedPair(x, sum)
}

// conditional compares the first value of its x and y inputs and sends the
// flow to the true or false direction. The x input is passed on, under
// "data" and under the direction taken.
func conditional(_ context.Context, _ *flojoy.Runtime, in flojoy.Input) (domain.Result, error) {
	a, ok := in.Inputs.One(PortX)
	if !ok {
		return nil, fmt.Errorf("CONDITIONAL: %w %q", errNoInput, PortX)
	}
	b, ok := in.Inputs.One(PortY)
	if !ok {
		return nil, fmt.Errorf("CONDITIONAL: %w %q", errNoInput, PortY)
	}
	av, err := first(a)
	if err != nil {
		return nil, fmt.Errorf("CONDITIONAL: %w", err)
	}
	bv, err := first(b)
	if err != nil {
		return nil, fmt.Errorf("CONDITIONAL: %w", err)
	}

	op := ">="
	if v, ok := in.Param("operator_type"); ok {
		op = cast.ToString(v)
	}
	flag, err := compare(op, av, bv)
	if err != nil {
		return nil, fmt.Errorf("CONDITIONAL: %w", err)
	}
	env := job.NewBuilder().
		FromData(a).
		FlowByFlag(flag, []string{DirectionTrue}, []string{DirectionFalse}).
		Build().(*domain.Envelope)
	// The taken direction also names an edge downstream nodes can read.
	env.Fields[env.FlowToDirections[0]] = a
	return env, nil
}

func compare(op string, a, b float64) (bool, error) {
	switch op {
	case "<=":
		return a <= b, nil
	case ">":
		return a > b, nil
	case "<":
		return a < b, nil
	case ">=":
		return a >= b, nil
	case "!=":
		return a != b, nil
	case "==":
		return a == b, nil
	default:
		return false, fmt.Errorf("unknown operator %q", op)
	}
}

func text(_ context.Context, _ *flojoy.Runtime, in flojoy.Input) (domain.Result, error) {
	v, _ := in.Param("value")
	return container.TextBlob(cast.ToString(v))
}

// end forwards its input unchanged.
func end(_ context.Context, _ *flojoy.Runtime, in flojoy.Input) (domain.Result, error) {
	if dc, ok := in.Inputs.One(PortDefault); ok {
		return dc, nil
	}
	return job.DefaultData(), nil
}

// xAxis returns the x values of the input on port, or 0..999.
func xAxis(in flojoy.Input, port string) *ndarray.Array {
	if dc, ok := in.Inputs.One(port); ok {
		if x, err := values(dc, "x"); err == nil {
			return x
		}
	}
	x, _ := job.DefaultData().Array("x")
	return x
}

func values(dc *container.DataContainer, key string) (*ndarray.Array, error) {
	arr, ok := dc.Array(key)
	if !ok {
		return nil, fmt.Errorf("%s container has no %q array", dc.Type(), key)
	}
	return arr, nil
}

// first returns the leading value of a scalar, vector or ordered pair.
func first(dc *container.DataContainer) (float64, error) {
	for _, key := range []string{"c", "v", "y"} {
		if arr, ok := dc.Array(key); ok && arr.Size() > 0 {
			return arr.Data()[0], nil
		}
	}
	return 0, fmt.Errorf("cannot compare a %s container", dc.Type())
}
