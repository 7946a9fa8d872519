package pipeline

import (
	"context"
	"fmt"

	"github.com/aretw0/flojoy"
	"github.com/aretw0/flojoy/pkg/domain"
)

// Outcome is the result of one job of a run.
type Outcome struct {
	Job    Job
	Result domain.Result
	Err    error
}

// Run executes the jobs in file order. A failing job is recorded and the
// run goes on; its dependents see it as absent.
func Run(ctx context.Context, rt *flojoy.Runtime, nodes map[string]*flojoy.Node, p *Pipeline) []Outcome {
	out := make([]Outcome, 0, len(p.Jobs))
	for _, j := range p.Jobs {
		if err := ctx.Err(); err != nil {
			out = append(out, Outcome{Job: j, Err: err})
			continue
		}
		res, err := runJob(ctx, rt, nodes, j)
		if err != nil {
			rt.Logger().WarnContext(ctx, "job failed", "job_id", j.ID, "node", j.Node, "error", err)
		}
		out = append(out, Outcome{Job: j, Result: res, Err: err})
	}
	return out
}

func runJob(ctx context.Context, rt *flojoy.Runtime, nodes map[string]*flojoy.Node, j Job) (domain.Result, error) {
	node, ok := nodes[j.Node]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", j.Node)
	}
	if j.Init {
		if err := rt.RunInit(ctx, j.Node, j.NodeID); err != nil {
			return nil, err
		}
	}
	return node.Run(ctx, flojoy.Call{
		NodeID:   j.NodeID,
		JobID:    j.ID,
		JobsetID: j.JobsetID,
		Previous: j.Previous,
		Controls: j.Controls,
	})
}
