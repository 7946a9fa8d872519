package box

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Box is an insertion-ordered mapping from field names to Values.
// The zero Box is empty and ready to use.
type Box struct {
	fields *orderedmap.OrderedMap[string, Value]
}

// New boxes m. Keys of a Go map have no order, so they are inserted sorted.
func New(m map[string]any) *Box {
	b := &Box{fields: orderedmap.New[string, Value]()}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Set(k, m[k])
	}
	return b
}

func (b *Box) init() {
	if b.fields == nil {
		b.fields = orderedmap.New[string, Value]()
	}
}

// Set stores v under key, wrapping nested mappings and lists.
func (b *Box) Set(key string, v any) {
	b.init()
	b.fields.Set(key, Wrap(v))
}

// Get returns the value stored under key.
func (b *Box) Get(key string) (Value, bool) {
	if b == nil || b.fields == nil {
		return Value{}, false
	}
	return b.fields.Get(key)
}

// Has reports whether key is present, even when it holds null.
func (b *Box) Has(key string) bool {
	_, ok := b.Get(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (b *Box) Delete(key string) bool {
	if b == nil || b.fields == nil {
		return false
	}
	_, ok := b.fields.Delete(key)
	return ok
}

// Len returns the number of fields.
func (b *Box) Len() int {
	if b == nil || b.fields == nil {
		return 0
	}
	return b.fields.Len()
}

// Keys returns field names in insertion order.
func (b *Box) Keys() []string {
	keys := make([]string, 0, b.Len())
	b.Range(func(k string, _ Value) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Range calls fn for every field in order until fn returns false.
func (b *Box) Range(fn func(key string, v Value) bool) {
	if b == nil || b.fields == nil {
		return
	}
	for pair := b.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Path walks nested boxes and lists. List elements are addressed by their
// decimal index, e.g. Path("points", "0", "x").
func (b *Box) Path(keys ...string) (Value, bool) {
	cur := Wrap(b)
	for _, k := range keys {
		switch cur.Kind() {
		case KindMap:
			next, ok := cur.box.Get(k)
			if !ok {
				return Value{}, false
			}
			cur = next
		case KindList:
			i, err := strconv.Atoi(k)
			if err != nil || i < 0 || i >= len(cur.list) {
				return Value{}, false
			}
			cur = cur.list[i]
		default:
			return Value{}, false
		}
	}
	return cur, true
}

// ToMap unwraps the box into plain nested maps and slices.
func (b *Box) ToMap() map[string]any {
	out := make(map[string]any, b.Len())
	b.Range(func(k string, v Value) bool {
		out[k] = v.Unwrap()
		return true
	})
	return out
}

// Copy returns a new box holding the same values. Nested boxes are shared.
func (b *Box) Copy() *Box {
	c := &Box{fields: orderedmap.New[string, Value]()}
	b.Range(func(k string, v Value) bool {
		c.fields.Set(k, v)
		return true
	})
	return c
}

func (b *Box) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	b.Range(func(k string, v Value) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(strconv.Quote(k))
		sb.WriteString(": ")
		sb.WriteString(v.String())
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}

// MarshalJSON encodes the box as a JSON object in insertion order.
func (b *Box) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	b.Range(func(k string, v Value) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, _ := json.Marshal(k)
		buf.Write(key)
		buf.WriteByte(':')
		var raw []byte
		raw, err = v.MarshalJSON()
		if err != nil {
			return false
		}
		buf.Write(raw)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping its key order.
func (b *Box) UnmarshalJSON(data []byte) error {
	om := orderedmap.New[string, any]()
	if err := json.Unmarshal(data, om); err != nil {
		return err
	}
	*b = Box{fields: orderedmap.New[string, Value]()}
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		b.Set(pair.Key, pair.Value)
	}
	return nil
}
