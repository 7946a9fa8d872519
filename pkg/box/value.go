package box

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind tells which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindLeaf
	KindMap
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindLeaf:
		return "leaf"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a node of a boxed tree: null, an opaque leaf, a nested Box or a
// list of Values. The zero Value is null.
type Value struct {
	kind Kind
	leaf any
	box  *Box
	list []Value
}

// Wrap converts v into a Value. Mappings become nested boxes and []any
// becomes a list, recursively. Every other value, including typed slices
// such as []float64 or []byte, is kept as a leaf. Wrapping a Value or a
// *Box returns it unchanged.
func Wrap(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case *Box:
		if t == nil {
			return Value{}
		}
		return Value{kind: KindMap, box: t}
	case map[string]any:
		return Value{kind: KindMap, box: New(t)}
	case *orderedmap.OrderedMap[string, any]:
		b := New(nil)
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			b.Set(pair.Key, pair.Value)
		}
		return Value{kind: KindMap, box: b}
	case []any:
		return wrapList(t)
	case []map[string]any:
		return wrapList(t)
	case []*Box:
		return wrapList(t)
	case []Value:
		return Value{kind: KindList, list: t}
	default:
		return Value{kind: KindLeaf, leaf: v}
	}
}

func wrapList[T any](items []T) Value {
	list := make([]Value, len(items))
	for i, item := range items {
		list[i] = Wrap(item)
	}
	return Value{kind: KindList, list: list}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds nothing.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Leaf returns the raw leaf value, or nil when v is not a leaf.
func (v Value) Leaf() any {
	if v.kind != KindLeaf {
		return nil
	}
	return v.leaf
}

// Box returns the nested box when v is a mapping.
func (v Value) Box() (*Box, bool) {
	return v.box, v.kind == KindMap
}

// List returns the items when v is a list.
func (v Value) List() ([]Value, bool) {
	return v.list, v.kind == KindList
}

// Get looks up key when v is a mapping.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	return v.box.Get(key)
}

// Unwrap converts v back to plain Go values: map[string]any, []any or the
// original leaf.
func (v Value) Unwrap() any {
	switch v.kind {
	case KindLeaf:
		return v.leaf
	case KindMap:
		return v.box.ToMap()
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Unwrap()
		}
		return out
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindLeaf:
		return fmt.Sprint(v.leaf)
	case KindMap:
		return v.box.String()
	case KindList:
		s := "["
		for i, item := range v.list {
			if i > 0 {
				s += ", "
			}
			s += item.String()
		}
		return s + "]"
	default:
		return "None"
	}
}

// MarshalJSON encodes leaves with encoding/json and keeps mapping order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindLeaf:
		return json.Marshal(v.leaf)
	case KindMap:
		return v.box.MarshalJSON()
	case KindList:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}
