package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/flojoy/pkg/container"
)

// Result is what a node leaves behind under its job id: nil, a
// *container.DataContainer or an *Envelope.
type Result = any

// Envelope is a flow-control result. A nil instruction slice means the
// instruction was never given; an empty one means "none".
type Envelope struct {
	// FlowToNodes lists node ids the scheduler should activate next.
	FlowToNodes []string

	// FlowToDirections lists output directions the scheduler should follow.
	FlowToDirections []string

	// ResultField names the payload field. Empty falls back to DataField.
	ResultField string

	// Fields holds the payload fields, usually just DataField.
	Fields map[string]Result
}

// FlowControlled reports whether any flow instruction was given.
func (e *Envelope) FlowControlled() bool {
	return e != nil && (e.FlowToNodes != nil || e.FlowToDirections != nil)
}

// Field returns the payload field called name.
func (e *Envelope) Field(name string) (Result, bool) {
	if e == nil {
		return nil, false
	}
	v, ok := e.Fields[name]
	return v, ok
}

// Payload returns the field named by ResultField, or DataField.
func (e *Envelope) Payload() (Result, bool) {
	if e == nil {
		return nil, false
	}
	name := e.ResultField
	if name == "" {
		name = DataField
	}
	return e.Field(name)
}

// MarshalJSON writes the scheduler wire form: instruction keys next to the
// payload fields. RESULT_FIELD is always written so the envelope decodes
// back as one.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	obj := make(map[string]json.RawMessage, len(e.Fields)+3)
	for name, v := range e.Fields {
		raw, err := EncodeResult(v)
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", name, err)
		}
		obj[name] = raw
	}
	if e.FlowToNodes != nil {
		obj[KeyFlowToNodes], _ = json.Marshal(e.FlowToNodes)
	}
	if e.FlowToDirections != nil {
		obj[KeyFlowToDirections], _ = json.Marshal(e.FlowToDirections)
	}
	field := e.ResultField
	if field == "" {
		field = DataField
	}
	obj[KeyResultField], _ = json.Marshal(field)
	return json.Marshal(obj)
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	out := Envelope{Fields: make(map[string]Result)}
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw := obj[name]
		var err error
		switch name {
		case KeyFlowToNodes:
			out.FlowToNodes = []string{}
			err = json.Unmarshal(raw, &out.FlowToNodes)
		case KeyFlowToDirections:
			out.FlowToDirections = []string{}
			err = json.Unmarshal(raw, &out.FlowToDirections)
		case KeyResultField:
			err = json.Unmarshal(raw, &out.ResultField)
		default:
			out.Fields[name], err = DecodeResult(raw)
		}
		if err != nil {
			return fmt.Errorf("decode %q: %w", name, err)
		}
	}
	*e = out
	return nil
}

// EncodeResult serializes a Result. Containers and envelopes use their own
// codecs; anything else goes through encoding/json.
func EncodeResult(r Result) ([]byte, error) {
	switch v := r.(type) {
	case nil:
		return []byte("null"), nil
	case *container.DataContainer:
		return v.MarshalJSON()
	case *Envelope:
		return v.MarshalJSON()
	default:
		return json.Marshal(v)
	}
}

// DecodeResult reverses EncodeResult. Objects carrying an instruction key
// become envelopes, objects carrying "type" become containers.
func DecodeResult(data []byte) (Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '{' {
		var v any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return nil, err
		}
		return v, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, err
	}
	for _, k := range []string{KeyFlowToNodes, KeyFlowToDirections, KeyResultField} {
		if _, ok := probe[k]; ok {
			var env Envelope
			if err := env.UnmarshalJSON(trimmed); err != nil {
				return nil, err
			}
			return &env, nil
		}
	}
	if _, ok := probe[container.KeyType]; ok {
		var dc container.DataContainer
		if err := dc.UnmarshalJSON(trimmed); err != nil {
			return nil, err
		}
		return &dc, nil
	}

	var v map[string]any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, err
	}
	return v, nil
}
