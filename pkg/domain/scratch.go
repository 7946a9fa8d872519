package domain

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/aretw0/flojoy/pkg/box"
	"github.com/aretw0/flojoy/pkg/ndarray"
)

// ScratchTag records what kind of value a scratch entry holds.
type ScratchTag string

const (
	ScratchArray  ScratchTag = "np_array"
	ScratchString ScratchTag = "string"
	ScratchMap    ScratchTag = "dict"
	ScratchSet    ScratchTag = "set"
)

// ScratchEntry is a value kept in the scratch memory of a job.
//
// Value holds *ndarray.Array, string, *box.Box or []string depending on Tag.
type ScratchEntry struct {
	Tag   ScratchTag
	Value any
}

// ScratchKey builds the composite key "<jobID>-<key>".
func ScratchKey(jobID, key string) string {
	return jobID + "-" + key
}

// NewScratchEntry tags value by its Go type. Numbers and numeric slices are
// stored as arrays, mappings as boxes.
func NewScratchEntry(value any) (ScratchEntry, error) {
	switch v := value.(type) {
	case string:
		return ScratchEntry{Tag: ScratchString, Value: v}, nil
	case *box.Box:
		return ScratchEntry{Tag: ScratchMap, Value: v}, nil
	case map[string]any:
		return ScratchEntry{Tag: ScratchMap, Value: box.New(v)}, nil
	case bool, nil:
		return ScratchEntry{}, fmt.Errorf("%w: scratch memory does not support %T", ErrTypeMismatch, value)
	}
	arr, err := ndarray.FromAny(value)
	if err != nil {
		return ScratchEntry{}, fmt.Errorf("%w: scratch memory does not support %T", ErrTypeMismatch, value)
	}
	return ScratchEntry{Tag: ScratchArray, Value: arr}, nil
}

// Expect fails with ErrTypeMismatch unless the entry carries tag.
func (e ScratchEntry) Expect(tag ScratchTag) error {
	if e.Tag != tag {
		return fmt.Errorf("%w: expected %s, got %s", ErrTypeMismatch, tag, e.Tag)
	}
	return nil
}

// Set returns the members of a set entry.
func (e ScratchEntry) Set() []string {
	s, _ := e.Value.([]string)
	return s
}

// WithMember returns a set entry that also holds item.
func (e ScratchEntry) WithMember(item string) ScratchEntry {
	members := e.Set()
	if slices.Contains(members, item) {
		return e
	}
	return ScratchEntry{Tag: ScratchSet, Value: append(slices.Clone(members), item)}
}

// WithoutMember returns a set entry without item.
func (e ScratchEntry) WithoutMember(item string) ScratchEntry {
	members := slices.DeleteFunc(slices.Clone(e.Set()), func(m string) bool { return m == item })
	return ScratchEntry{Tag: ScratchSet, Value: members}
}

type scratchWire struct {
	Tag   ScratchTag      `json:"type"`
	Value json.RawMessage `json:"value"`
}

func (e ScratchEntry) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(e.Value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(scratchWire{Tag: e.Tag, Value: raw})
}

func (e *ScratchEntry) UnmarshalJSON(data []byte) error {
	var w scratchWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var err error
	switch w.Tag {
	case ScratchArray:
		var arr ndarray.Array
		err = json.Unmarshal(w.Value, &arr)
		e.Value = &arr
	case ScratchString:
		var s string
		err = json.Unmarshal(w.Value, &s)
		e.Value = s
	case ScratchMap:
		var b box.Box
		err = json.Unmarshal(w.Value, &b)
		e.Value = &b
	case ScratchSet:
		var members []string
		err = json.Unmarshal(w.Value, &members)
		e.Value = members
	default:
		return fmt.Errorf("%w: unknown scratch tag %q", ErrTypeMismatch, w.Tag)
	}
	e.Tag = w.Tag
	return err
}

// InitContainer holds the value a node's init function produced.
type InitContainer struct {
	value any
}

func (c *InitContainer) Set(v any) { c.value = v }

func (c *InitContainer) Get() any { return c.value }
