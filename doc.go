/*
Package flojoy runs the nodes of a visual dataflow graph on the client side.

An external scheduler owns graph traversal. For each job it calls a wrapped
node with the ids of the jobs feeding it; the Runtime resolves those
upstream results into typed data containers, formats the control panel
parameters, runs the node and posts its result back so downstream nodes can
read it.

# Usage

	rt := flojoy.New(flojoy.WithLogger(slog.Default()))

	linspace := rt.Wrap("LINSPACE", func(ctx context.Context, rt *flojoy.Runtime, in flojoy.Input) (domain.Result, error) {
		return container.OrderedPair([]float64{0, 1, 2}, []float64{0, 1, 2})
	})

	result, err := linspace.Run(ctx, flojoy.Call{NodeID: "LINSPACE-1", JobID: "job-1"})

Results are either a *container.DataContainer or a *domain.Envelope built
with job.Builder, which also tells the scheduler what to run next.

# Memory

Besides job results the Runtime keeps scratch memory (per job key/value
entries tagged by type) and node init containers, the values an InitFunc
prepared once for a node. Clear drops all three.

The default Runtime stores everything in process memory and must be used
from a single goroutine. Workers sharing results use the Redis adapter
together with its Locker.
*/
package flojoy
