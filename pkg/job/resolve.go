package job

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/flojoy/pkg/container"
	"github.com/aretw0/flojoy/pkg/domain"
)

var (
	// ErrNoPayload is returned when an envelope lacks the field its result
	// field points to.
	ErrNoPayload = errors.New("envelope has no payload field")

	// ErrNotContainer is returned when a result cannot be read as a data
	// container.
	ErrNotContainer = errors.New("result is not a data container")
)

// Resolve unwraps a stored result into its data container.
//
// Containers are returned as-is. Envelopes are followed through their result
// field, or domain.DataField when none is named. A nil or empty result
// yields (nil, nil): the upstream job has nothing to pass on yet.
func Resolve(result domain.Result) (*container.DataContainer, error) {
	switch r := result.(type) {
	case nil:
		return nil, nil
	case *container.DataContainer:
		return r, nil
	case *domain.Envelope:
		if r == nil || (len(r.Fields) == 0 && !r.FlowControlled()) {
			return nil, nil
		}
		field := r.ResultField
		if field == "" {
			field = domain.DataField
		}
		payload, ok := r.Field(field)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoPayload, field)
		}
		switch p := payload.(type) {
		case nil:
			return nil, nil
		case *container.DataContainer:
			return p, nil
		default:
			return nil, fmt.Errorf("%w: field %q holds %T", ErrNotContainer, field, payload)
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotContainer, result)
	}
}

// IsFlowControlled reports whether result carries a node or direction
// instruction.
func IsFlowControlled(result domain.Result) bool {
	env, ok := result.(*domain.Envelope)
	return ok && env.FlowControlled()
}

// NextNodes returns the node ids result asks to activate, or an empty list.
func NextNodes(result domain.Result) []string {
	env, ok := result.(*domain.Envelope)
	if !ok || env == nil || env.FlowToNodes == nil {
		return []string{}
	}
	return env.FlowToNodes
}

// NextDirections returns the directions result asks to follow. When the
// envelope itself names none, the first nested envelope that does is used.
// It returns nil when no direction is given anywhere.
func NextDirections(result domain.Result) []string {
	env, ok := result.(*domain.Envelope)
	if !ok || env == nil {
		return nil
	}
	if len(env.FlowToDirections) > 0 {
		return env.FlowToDirections
	}
	for _, name := range sortedFields(env) {
		nested, ok := env.Fields[name].(*domain.Envelope)
		if ok && nested != nil && len(nested.FlowToDirections) > 0 {
			return nested.FlowToDirections
		}
	}
	return nil
}

// Text returns the text carried by result, see container.TextOf.
func Text(result domain.Result) (string, bool) {
	dc, err := Resolve(result)
	if err != nil {
		return "", false
	}
	return container.TextOf(dc)
}

func sortedFields(env *domain.Envelope) []string {
	names := make([]string, 0, len(env.Fields))
	for name := range env.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
