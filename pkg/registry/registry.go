package registry

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/flojoy"
	"github.com/aretw0/flojoy/pkg/domain"
)

// Entry is a node implementation and the options it is wrapped with.
type Entry struct {
	Func    flojoy.NodeFunc
	Options []flojoy.NodeOption
	// Init, if set, prepares the node's init container.
	Init flojoy.InitFunc
}

// Registry manages the node functions available to a runner.
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]Entry
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes: make(map[string]Entry),
	}
}

// Register adds a node to the registry.
// If a node with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn flojoy.NodeFunc, opts ...flojoy.NodeOption) {
	r.RegisterEntry(name, Entry{Func: fn, Options: opts})
}

// RegisterEntry adds a node described by e.
func (r *Registry) RegisterEntry(name string, e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[name] = e
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.nodes[name]
	return e, ok
}

// Names returns the registered node names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Bind wraps every registered node for rt and registers their init
// functions.
func (r *Registry) Bind(rt *flojoy.Runtime) (map[string]*flojoy.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bound := make(map[string]*flojoy.Node, len(r.nodes))
	for name, e := range r.nodes {
		if e.Init != nil {
			if err := rt.RegisterInit(name, e.Init); err != nil {
				return nil, err
			}
		}
		bound[name] = rt.Wrap(name, e.Func, e.Options...)
	}
	return bound, nil
}

// Execute looks up a node by name and runs it on rt.
// Returns an error if the node is not found.
func (r *Registry) Execute(ctx context.Context, rt *flojoy.Runtime, name string, call flojoy.Call) (domain.Result, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("node not found: %s", name)
	}
	return rt.Wrap(name, e.Func, e.Options...).Run(ctx, call)
}
