package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/flojoy"
	"github.com/aretw0/flojoy/internal/nodes"
	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/aretw0/flojoy/pkg/job"
	"github.com/aretw0/flojoy/pkg/params"
	"github.com/aretw0/flojoy/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demo = `
name: demo
jobs:
  - id: lin
    node: LINSPACE
    ctrls:
      c1: {param: start, value: 0, type: float}
      c2: {param: end, value: 1, type: float}
      c3: {param: step, value: "3", type: int}
  - id: const
    node: CONSTANT
    ctrls:
      c1: {param: constant, value: 0.5, type: float}
    previous:
      - {job_id: lin, input_name: default}
  - id: cmp
    node: CONDITIONAL
    ctrls:
      c1: {param: operator_type, value: ">", type: select}
    previous:
      - {job_id: const, input_name: x}
      - {job_id: lin, input_name: y}
  - id: done
    node: END
    previous:
      - {job_id: cmp, input_name: default, edge: "true"}
`

func counter() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	p, err := Load(write(t, "demo.yaml", demo), counter())
	require.NoError(t, err)

	assert.Equal(t, "demo", p.Name)
	require.Len(t, p.Jobs, 4)

	lin := p.Jobs[0]
	assert.Equal(t, "lin", lin.ID)
	assert.Equal(t, "LINSPACE-lin", lin.NodeID)
	assert.Equal(t, "id-1", lin.JobsetID)
	assert.Equal(t, params.Control{Param: "step", Value: "3", Type: params.TypeInt}, lin.Controls["c3"])
	assert.Empty(t, lin.Previous)

	assert.Equal(t, []job.Dependency{
		{JobID: "cmp", InputName: "default", Edge: "true"},
	}, p.Jobs[3].Previous)
	assert.Equal(t, domain.DefaultEdge, p.Jobs[1].Previous[0].Edge)
}

func TestLoad_JSONAndDefaults(t *testing.T) {
	p, err := Load(write(t, "p.json", `{"jobs":[{"node":"TEXT","ctrls":{"c":{"param":"value","value":"hi"}}}]}`), counter())
	require.NoError(t, err)

	assert.Equal(t, "pipeline", p.Name)
	require.Len(t, p.Jobs, 1)
	assert.Equal(t, "id-2", p.Jobs[0].ID)
	assert.Equal(t, "TEXT-id-2", p.Jobs[0].NodeID)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), counter())
	assert.Error(t, err)

	_, err = Load(write(t, "bad.yaml", "jobs: [1"), counter())
	assert.Error(t, err)

	_, err = Load(write(t, "dep.yaml", "jobs:\n  - node: END\n    previous:\n      - {input_name: x}\n"), counter())
	assert.ErrorContains(t, err, "missing job_id")
}

func TestRun(t *testing.T) {
	p, err := Load(write(t, "demo.yaml", demo), counter())
	require.NoError(t, err)

	reg := registry.NewRegistry()
	nodes.Register(reg)
	rt := flojoy.New()
	bound, err := reg.Bind(rt)
	require.NoError(t, err)

	outcomes := Run(context.Background(), rt, bound, p)
	require.Len(t, outcomes, 4)
	for _, o := range outcomes {
		require.NoError(t, o.Err, o.Job.ID)
	}

	assert.Equal(t, []string{"true"}, job.NextDirections(outcomes[2].Result), "0.5 > 0")
	dc, err := job.Resolve(outcomes[3].Result)
	require.NoError(t, err)
	y, _ := dc.Array("y")
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, y.Data())
}

func TestRun_FailuresDoNotStopTheRun(t *testing.T) {
	rt := flojoy.New()
	reg := registry.NewRegistry()
	nodes.Register(reg)
	bound, err := reg.Bind(rt)
	require.NoError(t, err)

	p := &Pipeline{Jobs: []Job{
		{ID: "a", Node: "MISSING"},
		{ID: "b", Node: "ADD", Previous: []job.Dependency{{JobID: "a", InputName: "default"}}},
		{ID: "c", Node: "TEXT", Init: true},
		{ID: "d", Node: "TEXT"},
	}}
	outcomes := Run(context.Background(), rt, bound, p)

	assert.ErrorContains(t, outcomes[0].Err, "node not found")
	assert.Error(t, outcomes[1].Err, "ADD without inputs fails")
	assert.ErrorIs(t, outcomes[2].Err, domain.ErrNoInitFunction)
	assert.NoError(t, outcomes[3].Err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes = Run(ctx, rt, bound, p)
	assert.ErrorIs(t, outcomes[0].Err, context.Canceled)
}
