package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/flojoy/internal/logging"
	"github.com/aretw0/flojoy/pkg/container"
	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/aretw0/flojoy/pkg/ports"
	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus"
)

// Dependency describes one upstream job feeding an input port.
type Dependency struct {
	JobID     string `json:"job_id" yaml:"job_id" mapstructure:"job_id"`
	InputName string `json:"input_name" yaml:"input_name" mapstructure:"input_name"`
	// Multiple collects every dependency of the port instead of keeping the last.
	Multiple bool `json:"multiple" yaml:"multiple" mapstructure:"multiple"`
	// Edge names the envelope field to read. Empty means domain.DefaultEdge.
	Edge string `json:"edge" yaml:"edge" mapstructure:"edge"`
}

// DecodeDependencies reads dependency descriptors from loosely typed data,
// such as a decoded JSON request or YAML file. Scalars are converted where
// possible ("true" becomes true).
func DecodeDependencies(raw any) ([]Dependency, error) {
	var deps []Dependency
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &deps,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode dependencies: %w", err)
	}
	for i := range deps {
		if deps[i].JobID == "" {
			return nil, fmt.Errorf("dependency %d: missing job_id", i)
		}
		if deps[i].Edge == "" {
			deps[i].Edge = domain.DefaultEdge
		}
	}
	return deps, nil
}

// Inputs maps an input port to the containers that reached it. Ports fed by
// a single dependency hold one container.
type Inputs map[string][]*container.DataContainer

// One returns the last container that reached port.
func (in Inputs) One(port string) (*container.DataContainer, bool) {
	dcs := in[port]
	if len(dcs) == 0 {
		return nil, false
	}
	return dcs[len(dcs)-1], true
}

// All returns every container that reached port, in dependency order.
func (in Inputs) All(port string) []*container.DataContainer {
	return in[port]
}

// Status is the outcome of resolving one dependency.
type Status int

const (
	// Resolved means the dependency produced a container.
	Resolved Status = iota
	// Absent means the upstream job has nothing yet. It is not an error.
	Absent
	// Failed means the result exists but could not be read.
	Failed
)

func (s Status) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Absent:
		return "absent"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Resolution reports what happened to one dependency.
type Resolution struct {
	Dependency Dependency
	Status     Status
	Err        error
}

// Fetcher resolves dependencies against a store.
type Fetcher struct {
	Store  ports.ResultStore
	Logger *slog.Logger
	// Outcomes, if set, counts resolutions by status label.
	Outcomes *prometheus.CounterVec
}

// NewOutcomeCounter returns a counter suitable for Fetcher.Outcomes and
// registers it with reg when reg is not nil.
func NewOutcomeCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flojoy_input_resolutions_total",
			Help: "Upstream dependencies resolved by outcome",
		},
		[]string{"status"},
	)
	if reg != nil {
		reg.MustRegister(c)
	}
	return c
}

// FetchInputs resolves deps with a Fetcher built from store and logger.
func FetchInputs(ctx context.Context, store ports.ResultStore, deps []Dependency, logger *slog.Logger) (Inputs, []Resolution) {
	f := &Fetcher{Store: store, Logger: logger}
	return f.Fetch(ctx, deps)
}

// Fetch resolves every dependency and groups the containers by port. A
// dependency that fails or is absent leaves its port untouched and never
// stops the others; its outcome is reported in the returned resolutions,
// one per dependency and in the same order.
func (f *Fetcher) Fetch(ctx context.Context, deps []Dependency) (Inputs, []Resolution) {
	logger := f.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	inputs := make(Inputs)
	report := make([]Resolution, 0, len(deps))
	for _, dep := range deps {
		logger.DebugContext(ctx, "fetching input",
			"job_id", dep.JobID, "input", dep.InputName, "edge", dep.Edge)

		dc, err := f.resolve(ctx, dep)
		res := Resolution{Dependency: dep, Status: Resolved, Err: err}
		switch {
		case errors.Is(err, domain.ErrNotFound):
			res.Status = Absent
		case err != nil:
			res.Status = Failed
			logger.WarnContext(ctx, "failed to resolve input",
				"job_id", dep.JobID, "input", dep.InputName, "error", err)
		case dc == nil:
			res.Status = Absent
		}
		report = append(report, res)
		if f.Outcomes != nil {
			f.Outcomes.WithLabelValues(res.Status.String()).Inc()
		}
		if res.Status != Resolved {
			continue
		}

		logger.DebugContext(ctx, "got job result", "job_id", dep.JobID)
		if dep.Multiple {
			inputs[dep.InputName] = append(inputs[dep.InputName], dc)
		} else {
			inputs[dep.InputName] = []*container.DataContainer{dc}
		}
	}
	return inputs, report
}

func (f *Fetcher) resolve(ctx context.Context, dep Dependency) (*container.DataContainer, error) {
	result, err := f.Store.Get(ctx, dep.JobID)
	if err != nil {
		return nil, err
	}
	if dep.Edge == "" || dep.Edge == domain.DefaultEdge {
		return Resolve(result)
	}
	env, ok := result.(*domain.Envelope)
	if !ok {
		return nil, fmt.Errorf("%w: edge %q of job %s: result is %T", ErrNoPayload, dep.Edge, dep.JobID, result)
	}
	field, ok := env.Field(dep.Edge)
	if !ok {
		return nil, fmt.Errorf("%w: edge %q of job %s", ErrNoPayload, dep.Edge, dep.JobID)
	}
	return Resolve(field)
}
