package flojoy

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/flojoy/pkg/container"
	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/aretw0/flojoy/pkg/job"
	"github.com/aretw0/flojoy/pkg/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_RunPostsResult(t *testing.T) {
	ctx := context.Background()
	rt := New()
	dc := pair(t)

	node := rt.Wrap("CONST", func(context.Context, *Runtime, Input) (domain.Result, error) {
		return dc, nil
	})
	assert.Equal(t, "CONST", node.Name())

	got, err := node.Run(ctx, Call{NodeID: "CONST-1", JobID: "job-1"})
	require.NoError(t, err)
	assert.Same(t, dc, got)

	posted, err := rt.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Same(t, dc, posted)
}

func TestNode_ParamsAreFormattedAndFiltered(t *testing.T) {
	ctx := context.Background()
	rt := New()

	var seen Input
	node := rt.Wrap("SINE", func(_ context.Context, _ *Runtime, in Input) (domain.Result, error) {
		seen = in
		return job.DefaultData(), nil
	}, WithParams("amplitude", "waveform", ParamType))

	_, err := node.Run(ctx, Call{
		NodeID: "SINE-1",
		JobID:  "job-1",
		Controls: map[string]params.Control{
			"c1": {Param: "amplitude", Value: "2.5", Type: params.TypeFloat},
			"c2": {Param: "waveform", Value: "sine", Type: params.TypeSelect},
			"c3": {Param: "undeclared", Value: "1", Type: params.TypeInt},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"amplitude": 2.5,
		"waveform":  "sine",
		ParamType:   DefaultNodeType,
	}, seen.Params)
	v, ok := seen.Param("amplitude")
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
	_, ok = seen.Param("undeclared")
	assert.False(t, ok)
	assert.Nil(t, seen.Default, "metadata is injected only on request")
	assert.Nil(t, seen.Init)
}

func TestNode_BadControlFailsBeforeRunning(t *testing.T) {
	rt := New()
	ran := false
	node := rt.Wrap("N", func(context.Context, *Runtime, Input) (domain.Result, error) {
		ran = true
		return nil, nil
	}, WithParams("n"))

	_, err := node.Run(context.Background(), Call{
		JobID:    "job-1",
		Controls: map[string]params.Control{"c": {Param: "n", Value: "many", Type: params.TypeInt}},
	})
	assert.ErrorIs(t, err, params.ErrParse)
	assert.False(t, ran)
}

func TestNode_InputsFromPreviousJobs(t *testing.T) {
	ctx := context.Background()
	rt := New()
	a, b := pair(t), pair(t)
	require.NoError(t, rt.Post(ctx, "job-a", a))
	require.NoError(t, rt.Post(ctx, "job-b", b))

	var seen Input
	node := rt.Wrap("ADD", func(_ context.Context, _ *Runtime, in Input) (domain.Result, error) {
		seen = in
		return in.Inputs.All("in")[0], nil
	})

	_, err := node.Run(ctx, Call{
		JobID: "job-c",
		Previous: []job.Dependency{
			{JobID: "job-a", InputName: "in", Multiple: true},
			{JobID: "job-b", InputName: "in", Multiple: true},
			{JobID: "ghost", InputName: "other"},
		},
	})
	require.NoError(t, err)

	all := seen.Inputs.All("in")
	require.Len(t, all, 2)
	assert.Same(t, a, all[0])
	assert.Same(t, b, all[1])
	require.Len(t, seen.Report, 3)
	assert.Equal(t, job.Absent, seen.Report[2].Status)
}

func TestNode_MetadataAndInitContainer(t *testing.T) {
	ctx := context.Background()
	rt := New()
	require.NoError(t, rt.RegisterInit("SCOPE", func(context.Context) (any, error) { return "scope-handle", nil }))
	require.NoError(t, rt.RunInit(ctx, "SCOPE", "SCOPE-1"))

	var seen Input
	node := rt.Wrap("SCOPE", func(_ context.Context, _ *Runtime, in Input) (domain.Result, error) {
		seen = in
		return job.DefaultData(), nil
	}, WithMetadata(), WithNodeType("instrument"))

	_, err := node.Run(ctx, Call{NodeID: "SCOPE-1", JobID: "job-1", JobsetID: "set-1"})
	require.NoError(t, err)

	assert.Equal(t, &DefaultParams{
		NodeID:   "SCOPE-1",
		JobID:    "job-1",
		JobsetID: "set-1",
		NodeType: "instrument",
	}, seen.Default)
	require.NotNil(t, seen.Init)
	assert.Equal(t, "scope-handle", seen.Init.Get())
}

func TestNode_InvalidResultIsNotPosted(t *testing.T) {
	ctx := context.Background()
	rt := New()

	bad, err := container.New(container.TypeScalar, map[string]any{"x": 1})
	require.NoError(t, err)
	node := rt.Wrap("BAD", func(context.Context, *Runtime, Input) (domain.Result, error) {
		return bad, nil
	})
	_, err = node.Run(ctx, Call{JobID: "job-1"})
	assert.ErrorIs(t, err, container.ErrValidation)

	wrapped := rt.Wrap("BAD_ENV", func(context.Context, *Runtime, Input) (domain.Result, error) {
		return job.NewBuilder().FromData(bad).FlowToDirections([]string{"true"}).Build(), nil
	})
	_, err = wrapped.Run(ctx, Call{JobID: "job-2"})
	assert.ErrorIs(t, err, container.ErrValidation)

	for _, id := range []string{"job-1", "job-2"} {
		ok, err := rt.Results().Exists(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestNode_ErrorIsNotPosted(t *testing.T) {
	ctx := context.Background()
	rt := New()
	boom := errors.New("instrument offline")

	node := rt.Wrap("FAIL", func(context.Context, *Runtime, Input) (domain.Result, error) {
		return nil, boom
	})
	_, err := node.Run(ctx, Call{NodeID: "FAIL-1", JobID: "job-1"})
	assert.ErrorIs(t, err, boom)

	ok, err := rt.Results().Exists(ctx, "job-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNode_FlowControlledResult(t *testing.T) {
	ctx := context.Background()
	rt := New()

	node := rt.Wrap("CONDITIONAL", func(_ context.Context, _ *Runtime, in Input) (domain.Result, error) {
		return job.NewBuilder().FlowByFlag(true, []string{"true"}, []string{"false"}).Build(), nil
	})
	result, err := node.Run(ctx, Call{JobID: "job-1"})
	require.NoError(t, err)

	assert.True(t, job.IsFlowControlled(result))
	assert.Equal(t, []string{"true"}, job.NextDirections(result))
	dc, err := job.Resolve(result)
	require.NoError(t, err)
	assert.Equal(t, container.TypeOrderedPair, dc.Type())
}
