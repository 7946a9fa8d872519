package flojoy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/flojoy/internal/logging"
	"github.com/aretw0/flojoy/pkg/adapters/memory"
	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/aretw0/flojoy/pkg/job"
	"github.com/aretw0/flojoy/pkg/persistence/middleware"
	"github.com/aretw0/flojoy/pkg/ports"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// InitFunc prepares the long-lived value a node keeps between runs, such as
// an open instrument handle. A nil value leaves the init container empty.
type InitFunc func(ctx context.Context) (any, error)

// Runtime holds the memory shared by the nodes of a job set: posted job
// results, scratch memory and node init containers.
//
// The default Runtime keeps everything in a memory.Store, which has no
// locking. Such a Runtime must be owned by a single goroutine.
type Runtime struct {
	results     ports.ResultStore
	scratch     ports.ScratchStore
	inits       ports.InitStore
	locker      ports.Locker
	middlewares []middleware.Middleware
	registry    prometheus.Registerer
	initFuncs   map[string]InitFunc
	fetcher     *job.Fetcher
	logger      *slog.Logger
	offline     bool
	debug       bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the structured logger used by the runtime and its nodes.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithResultStore replaces the store job results are posted to.
func WithResultStore(s ports.ResultStore) Option {
	return func(r *Runtime) {
		r.results = s
	}
}

// WithScratchStore replaces the scratch memory backend.
func WithScratchStore(s ports.ScratchStore) Option {
	return func(r *Runtime) {
		r.scratch = s
	}
}

// WithInitStore replaces the node init container registry.
func WithInitStore(s ports.InitStore) Option {
	return func(r *Runtime) {
		r.inits = s
	}
}

// WithLocker serializes scratch set updates. Use it when the scratch store
// is shared between processes.
func WithLocker(l ports.Locker) Option {
	return func(r *Runtime) {
		r.locker = l
	}
}

// WithStoreMiddleware decorates the result store. The first middleware is
// the outermost.
func WithStoreMiddleware(mws ...middleware.Middleware) Option {
	return func(r *Runtime) {
		r.middlewares = append(r.middlewares, mws...)
	}
}

// WithMetrics registers store and input resolution metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Runtime) {
		r.registry = reg
	}
}

// WithOffline marks results as local to this process.
func WithOffline(offline bool) Option {
	return func(r *Runtime) {
		r.offline = offline
	}
}

// WithDebug enables debug records for node execution.
func WithDebug(debug bool) Option {
	return func(r *Runtime) {
		r.debug = debug
	}
}

// New creates a Runtime. Stores that are not given default to one shared
// memory.Store.
func New(opts ...Option) *Runtime {
	r := &Runtime{initFuncs: make(map[string]InitFunc)}
	for _, opt := range opts {
		opt(r)
	}

	if r.results == nil || r.scratch == nil || r.inits == nil {
		mem := memory.NewStore()
		if r.results == nil {
			r.results = mem
		}
		if r.scratch == nil {
			r.scratch = mem
		}
		if r.inits == nil {
			r.inits = mem
		}
	}
	if r.locker == nil {
		r.locker = ports.NopLocker{}
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}

	mws := append([]middleware.Middleware{}, r.middlewares...)
	var outcomes *prometheus.CounterVec
	if r.registry != nil {
		mws = append(mws, middleware.NewMetrics(r.registry).Middleware())
		outcomes = job.NewOutcomeCounter(r.registry)
	}
	if r.debug {
		mws = append(mws, middleware.NewLoggingMiddleware(r.logger))
	}
	r.results = middleware.Chain(r.results, mws...)

	r.fetcher = &job.Fetcher{Store: r.results, Logger: r.logger, Outcomes: outcomes}
	return r
}

// Offline reports whether results stay local to this process.
func (r *Runtime) Offline() bool { return r.offline }

// Debug reports whether node execution is traced.
func (r *Runtime) Debug() bool { return r.debug }

// Logger returns the runtime logger.
func (r *Runtime) Logger() *slog.Logger { return r.logger }

// Results returns the result store nodes post to.
func (r *Runtime) Results() ports.ResultStore { return r.results }

// Post stores result under jobID.
func (r *Runtime) Post(ctx context.Context, jobID string, result domain.Result) error {
	if err := r.results.Post(ctx, jobID, result); err != nil {
		return fmt.Errorf("failed to post result of job %s: %w", jobID, err)
	}
	return nil
}

// Get returns the result posted under jobID.
func (r *Runtime) Get(ctx context.Context, jobID string) (domain.Result, error) {
	return r.results.Get(ctx, jobID)
}

// FetchInputs resolves deps against the posted results.
func (r *Runtime) FetchInputs(ctx context.Context, deps []job.Dependency) (job.Inputs, []job.Resolution) {
	return r.fetcher.Fetch(ctx, deps)
}

// Clear drops every job result, scratch entry and init container.
func (r *Runtime) Clear(ctx context.Context) error {
	r.inits.ClearInitContainers()
	return errors.Join(
		r.results.Clear(ctx),
		r.scratch.ClearScratch(ctx),
	)
}

// RegisterInit maps nodeName to the function that initializes it.
func (r *Runtime) RegisterInit(nodeName string, fn InitFunc) error {
	if r.inits.HasInitContainer(nodeName) {
		return fmt.Errorf("%w: node %s", domain.ErrDuplicateInitStore, nodeName)
	}
	r.initFuncs[nodeName] = fn
	return nil
}

// InitFunc returns the init function registered for nodeName.
func (r *Runtime) InitFunc(nodeName string) (InitFunc, error) {
	fn, ok := r.initFuncs[nodeName]
	if !ok {
		return nil, fmt.Errorf("%w: node %s", domain.ErrNoInitFunction, nodeName)
	}
	return fn, nil
}

// RunInit creates the init container of nodeID and fills it with the value
// returned by the init function of nodeName.
func (r *Runtime) RunInit(ctx context.Context, nodeName, nodeID string) error {
	fn, err := r.InitFunc(nodeName)
	if err != nil {
		return err
	}
	c, err := r.inits.CreateInitContainer(nodeID)
	if err != nil {
		return err
	}
	v, err := fn(ctx)
	if err != nil {
		return fmt.Errorf("init of node %s failed: %w", nodeID, err)
	}
	if v != nil {
		c.Set(v)
	}
	r.logger.DebugContext(ctx, "node initialized", "node_id", nodeID, "node", nodeName)
	return nil
}

// InitContainer returns the init container of nodeID.
func (r *Runtime) InitContainer(nodeID string) (*domain.InitContainer, error) {
	return r.inits.InitContainer(nodeID)
}

// NewJobID returns a fresh random job id.
func NewJobID() string {
	return uuid.NewString()
}

// DumpString formats v and truncates it to limit bytes followed by "...".
// A limit of zero or less keeps the whole text.
func DumpString(v any, limit int) string {
	s := fmt.Sprint(v)
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
