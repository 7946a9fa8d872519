package flojoy

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/flojoy/pkg/container"
	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/aretw0/flojoy/pkg/job"
	"github.com/aretw0/flojoy/pkg/params"
)

// dumpLimit caps the size of results written to debug records.
const dumpLimit = 200

// DefaultNodeType is the node type reported in DefaultParams unless the
// node declares another one.
const DefaultNodeType = "default"

// ParamType is the parameter every node receives with value "default".
const ParamType = "type"

// DefaultParams identifies the invocation to nodes that ask for it.
type DefaultParams struct {
	NodeID   string
	JobID    string
	JobsetID string
	NodeType string
}

// Call is one scheduler request to run a node.
type Call struct {
	NodeID   string
	JobID    string
	JobsetID string
	// Previous lists the jobs feeding this node's input ports.
	Previous []job.Dependency
	// Controls are the control panel entries keyed by control id.
	Controls map[string]params.Control
}

// Input is what a node function receives.
type Input struct {
	Inputs job.Inputs
	// Params holds the formatted controls the node declared.
	Params map[string]any
	// Default is set only for nodes wrapped WithMetadata.
	Default *DefaultParams
	// Init is the node's init container, or nil when it has none.
	Init *domain.InitContainer
	// Report has one entry per dependency of the call.
	Report []job.Resolution
}

// Param returns a formatted parameter.
func (in Input) Param(name string) (any, bool) {
	v, ok := in.Params[name]
	return v, ok
}

// NodeFunc is the body of a node.
type NodeFunc func(ctx context.Context, rt *Runtime, in Input) (domain.Result, error)

// Node is a node function wrapped for execution by the runtime.
type Node struct {
	name     string
	nodeType string
	params   []string
	metadata bool
	fn       NodeFunc
	rt       *Runtime
}

// NodeOption configures a wrapped node.
type NodeOption func(*Node)

// WithParams declares the parameters the node accepts. Controls for other
// parameters are dropped.
func WithParams(names ...string) NodeOption {
	return func(n *Node) {
		n.params = append(n.params, names...)
	}
}

// WithMetadata makes the node receive DefaultParams.
func WithMetadata() NodeOption {
	return func(n *Node) {
		n.metadata = true
	}
}

// WithNodeType sets the node type reported in DefaultParams.
func WithNodeType(t string) NodeOption {
	return func(n *Node) {
		n.nodeType = t
	}
}

// Wrap turns fn into a node named name.
func (r *Runtime) Wrap(name string, fn NodeFunc, opts ...NodeOption) *Node {
	n := &Node{name: name, nodeType: DefaultNodeType, fn: fn, rt: r}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Run formats the call's controls, fetches its inputs, runs the node and
// posts the result under the call's job id. A result that fails validation
// is returned with the error and not posted.
func (n *Node) Run(ctx context.Context, call Call) (domain.Result, error) {
	logger := n.rt.logger.With("node", n.name, "node_id", call.NodeID, "job_id", call.JobID)
	logger.DebugContext(ctx, "executing node", "previous_jobs", len(call.Previous))

	formatted, err := params.Values(call.Controls)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", call.NodeID, err)
	}
	formatted[ParamType] = DefaultNodeType

	in := Input{Params: make(map[string]any)}
	for name, v := range formatted {
		if slices.Contains(n.params, name) {
			in.Params[name] = v
		}
	}
	in.Inputs, in.Report = n.rt.FetchInputs(ctx, call.Previous)

	if n.metadata {
		in.Default = &DefaultParams{
			NodeID:   call.NodeID,
			JobID:    call.JobID,
			JobsetID: call.JobsetID,
			NodeType: n.nodeType,
		}
	}
	if n.rt.inits.HasInitContainer(call.NodeID) {
		if in.Init, err = n.rt.inits.InitContainer(call.NodeID); err != nil {
			return nil, err
		}
	}

	result, err := n.fn(ctx, n.rt, in)
	if err != nil {
		return nil, fmt.Errorf("node %s failed: %w", call.NodeID, err)
	}
	if err := validateResult(result); err != nil {
		return result, fmt.Errorf("node %s returned an invalid result: %w", call.NodeID, err)
	}

	logger.DebugContext(ctx, "node finished", "result", DumpString(result, dumpLimit))
	if err := n.rt.Post(ctx, call.JobID, result); err != nil {
		return result, err
	}
	return result, nil
}

// validateResult checks a container result, or the containers carried by
// an envelope.
func validateResult(result domain.Result) error {
	switch r := result.(type) {
	case *container.DataContainer:
		return r.Validate()
	case *domain.Envelope:
		for name, field := range r.Fields {
			dc, ok := field.(*container.DataContainer)
			if !ok {
				continue
			}
			if err := dc.Validate(); err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
		}
	}
	return nil
}
