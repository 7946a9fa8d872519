package job

import (
	"slices"

	"github.com/aretw0/flojoy/pkg/container"
	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/aretw0/flojoy/pkg/ndarray"
)

// defaultLen is the length of the payload a Builder starts with.
const defaultLen = 1000

// Builder assembles the result of a node. Without flow instructions Build
// returns the payload itself; with any, it returns a *domain.Envelope.
//
// Instructions of the same kind overwrite each other, different kinds
// accumulate.
type Builder struct {
	data       *container.DataContainer
	nodes      []string
	directions []string
}

// NewBuilder returns a builder seeded with DefaultData.
func NewBuilder() *Builder {
	return &Builder{data: DefaultData()}
}

// DefaultData is the ordered pair x = 0..999, y = 1 used when a node has no
// input to pass on.
func DefaultData() *container.DataContainer {
	x := ndarray.Arange(0, defaultLen, 1)
	y := ndarray.Full([]int{defaultLen}, 1)
	// arrays are stored as-is, so this cannot fail
	dc, _ := container.OrderedPair(x, y)
	return dc
}

// FromInputs seeds the payload with the first input, or DefaultData when
// there is none.
func (b *Builder) FromInputs(inputs []*container.DataContainer) *Builder {
	if len(inputs) == 0 {
		b.data = DefaultData()
		return b
	}
	b.data = inputs[0]
	return b
}

// FromData seeds the payload with dc.
func (b *Builder) FromData(dc *container.DataContainer) *Builder {
	b.data = dc
	return b
}

// FlowToNodes asks the scheduler to activate ids next. An empty list is
// ignored.
func (b *Builder) FlowToNodes(ids []string) *Builder {
	if len(ids) > 0 {
		b.nodes = slices.Clone(ids)
	}
	return b
}

// FlowToDirections asks the scheduler to follow the named directions. An
// empty list is ignored.
func (b *Builder) FlowToDirections(names []string) *Builder {
	if len(names) > 0 {
		b.directions = slices.Clone(names)
	}
	return b
}

// FlowByFlag records trueDirs when flag is set and falseDirs otherwise. The
// chosen list is recorded even when empty.
func (b *Builder) FlowByFlag(flag bool, trueDirs, falseDirs []string) *Builder {
	dirs := falseDirs
	if flag {
		dirs = trueDirs
	}
	b.directions = append([]string{}, dirs...)
	return b
}

// Build returns the payload, or an envelope holding it under
// domain.DataField when an instruction was recorded.
func (b *Builder) Build() domain.Result {
	if b.nodes == nil && b.directions == nil {
		if b.data == nil {
			return nil
		}
		return b.data
	}
	env := &domain.Envelope{
		FlowToNodes:      b.nodes,
		FlowToDirections: b.directions,
		ResultField:      domain.DataField,
		Fields:           map[string]domain.Result{domain.DataField: nil},
	}
	if b.data != nil {
		env.Fields[domain.DataField] = b.data
	}
	return env
}
