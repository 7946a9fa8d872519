package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoPipeline = `
name: demo
jobs:
  - id: lin
    node: LINSPACE
    ctrls:
      c1: {param: start, value: 0, type: float}
      c2: {param: end, value: 10, type: float}
      c3: {param: step, value: 11, type: int}
  - id: sine
    node: SINE
    ctrls:
      c1: {param: amplitude, value: 2, type: float}
    previous:
      - {job_id: lin, input_name: default}
  - id: limit
    node: CONSTANT
    ctrls:
      c1: {param: constant, value: 1, type: float}
  - id: cmp
    node: CONDITIONAL
    ctrls:
      c1: {param: operator_type, value: "<", type: select}
    previous:
      - {job_id: sine, input_name: x}
      - {job_id: limit, input_name: y}
`

// resetFlags restores every flag so commands do not leak state between
// executions of the shared root command.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	base := []string{"--config", filepath.Join(t.TempDir(), "none.yaml")}
	rootCmd.SetArgs(append(args, base...))
	err := rootCmd.Execute()
	return out.String(), err
}

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "flojoy version 0.1.0")
}

func TestTypes(t *testing.T) {
	out, err := execute(t, "types")
	require.NoError(t, err)
	assert.Contains(t, out, "| `ordered_pair` | `x`, `y` | - |")
	assert.Contains(t, out, "parametric_surface")
}

func TestValidateContainers(t *testing.T) {
	good := write(t, "good.json", `{"type":"scalar","c":[1]}`)
	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "1 file(s) valid")

	bad := write(t, "bad.json", `{"type":"scalr","c":[1]}`)
	out, err = execute(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "Validation failed")
	assert.Contains(t, out, `did you mean "scalar"?`)
}

func TestValidatePipeline(t *testing.T) {
	out, err := execute(t, "validate", "--pipeline", write(t, "demo.yaml", demoPipeline))
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	_, err = execute(t, "validate", "--pipeline", write(t, "bad.yaml", "jobs:\n  - node: NOPE\n"))
	assert.ErrorContains(t, err, "unknown node 'NOPE'")
}

func TestGraph(t *testing.T) {
	out, err := execute(t, "graph", write(t, "demo.yaml", demoPipeline))
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR")
	assert.Contains(t, out, "sine -- \"x\" --> cmp")
}

func TestRun(t *testing.T) {
	out, err := execute(t, "run", "--metrics", write(t, "demo.yaml", demoPipeline))
	require.NoError(t, err)

	assert.Contains(t, out, "# demo")
	assert.Contains(t, out, "| `lin` | LINSPACE | ok |")
	assert.Contains(t, out, "| `cmp` | CONDITIONAL | ok |")
	assert.Contains(t, out, "directions: true", "sin(0) is below 1")
	assert.Contains(t, out, "## Metrics")
	assert.Contains(t, out, "flojoy_input_resolutions_total | status=resolved | 3 |")
}

func TestRun_ReportsFailures(t *testing.T) {
	path := write(t, "p.yaml", `
jobs:
  - id: add
    node: ADD
`)
	out, err := execute(t, "run", "--graph", path)
	assert.ErrorContains(t, err, "1 of 1 jobs failed")
	assert.Contains(t, out, "| `add` | ADD | failed |")
	assert.Contains(t, out, "```mermaid")
	assert.Contains(t, out, "class add failed")
}

func TestRun_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfgPath := write(t, "flojoy.yaml", "store:\n  backend: redis\n  redis:\n    addr: "+mr.Addr()+"\n")
	pipe := write(t, "demo.yaml", demoPipeline)

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"run", "--keep", "--config", cfgPath, pipe})
	require.NoError(t, rootCmd.Execute())

	assert.True(t, mr.Exists("flojoy:job:lin"), "results are kept in redis")
	assert.True(t, mr.Exists("flojoy:job:cmp"))

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"run", "--config", cfgPath, pipe})
	require.NoError(t, rootCmd.Execute())
	assert.False(t, mr.Exists("flojoy:job:lin"), "results are cleared without --keep")

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"run", "--offline", "--keep", "--config", cfgPath, pipe})
	require.NoError(t, rootCmd.Execute())
	assert.False(t, mr.Exists("flojoy:job:lin"), "offline runs stay in memory")
}

func TestRun_BadConfig(t *testing.T) {
	cfgPath := write(t, "flojoy.json", `{"store":{"backend":"etcd"}}`)
	resetFlags(rootCmd)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"types", "--config", cfgPath})
	assert.ErrorContains(t, rootCmd.Execute(), "unknown store backend")
}
