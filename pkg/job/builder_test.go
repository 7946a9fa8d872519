package job

import (
	"testing"

	"github.com/aretw0/flojoy/pkg/container"
	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(t *testing.T) *container.DataContainer {
	t.Helper()
	dc, err := container.OrderedPair([]int{1, 2}, []int{3, 4})
	require.NoError(t, err)
	return dc
}

func TestBuilder_NoInstructionsReturnsPayload(t *testing.T) {
	dc := pair(t)
	res := NewBuilder().FromData(dc).Build()
	assert.Same(t, dc, res)
	assert.False(t, IsFlowControlled(res))

	res = NewBuilder().FlowToNodes(nil).FlowToDirections([]string{}).FromData(dc).Build()
	assert.Same(t, dc, res, "empty lists record nothing")
}

func TestBuilder_DefaultData(t *testing.T) {
	res := NewBuilder().Build()
	dc, ok := res.(*container.DataContainer)
	require.True(t, ok)
	require.NoError(t, dc.Validate())

	x, _ := dc.Array("x")
	y, _ := dc.Array("y")
	assert.Equal(t, 1000, x.Len())
	assert.Equal(t, 0.0, x.At(0))
	assert.Equal(t, 999.0, x.At(999))
	assert.Equal(t, 1.0, y.At(500))

	res = NewBuilder().FromData(pair(t)).FromInputs(nil).Build()
	dc = res.(*container.DataContainer)
	x, _ = dc.Array("x")
	assert.Equal(t, 1000, x.Len())
}

func TestBuilder_FromInputsTakesFirst(t *testing.T) {
	first, second := pair(t), pair(t)
	res := NewBuilder().FromInputs([]*container.DataContainer{first, second}).Build()
	assert.Same(t, first, res)
}

func TestBuilder_FlowToNodes(t *testing.T) {
	dc := pair(t)
	res := NewBuilder().FromData(dc).FlowToNodes([]string{"A", "B"}).Build()

	env, ok := res.(*domain.Envelope)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, env.FlowToNodes)
	assert.Nil(t, env.FlowToDirections)
	assert.Equal(t, domain.DataField, env.ResultField)
	data, _ := env.Field(domain.DataField)
	assert.Same(t, dc, data)

	assert.True(t, IsFlowControlled(res))
	assert.Equal(t, []string{"A", "B"}, NextNodes(res))
}

func TestBuilder_FlowByFlag(t *testing.T) {
	res := NewBuilder().FlowByFlag(true, []string{"X"}, []string{"Y"}).Build()
	assert.Equal(t, []string{"X"}, NextDirections(res))

	res = NewBuilder().FlowByFlag(false, []string{"X"}, []string{"Y"}).Build()
	assert.Equal(t, []string{"Y"}, NextDirections(res))

	res = NewBuilder().FlowByFlag(false, []string{"X"}, nil).Build()
	assert.True(t, IsFlowControlled(res), "an empty chosen list is still an instruction")
	assert.Nil(t, NextDirections(res))
}

func TestBuilder_InstructionsMerge(t *testing.T) {
	res := NewBuilder().
		FlowToDirections([]string{"a"}).
		FlowToNodes([]string{"n1"}).
		FlowToDirections([]string{"b"}).
		Build()

	env := res.(*domain.Envelope)
	assert.Equal(t, []string{"b"}, env.FlowToDirections, "same kind overwrites")
	assert.Equal(t, []string{"n1"}, env.FlowToNodes, "other kinds accumulate")
}

func TestBuilder_CopiesLists(t *testing.T) {
	ids := []string{"A"}
	res := NewBuilder().FlowToNodes(ids).Build()
	ids[0] = "Z"
	assert.Equal(t, []string{"A"}, NextNodes(res))
}
