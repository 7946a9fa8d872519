package container

import (
	"fmt"
	"strings"

	"github.com/aretw0/flojoy/pkg/box"
	"github.com/aretw0/flojoy/pkg/ndarray"
)

// DataContainer is the typed payload passed between nodes.
//
// Numeric fields are stored as *ndarray.Array. Strings, byte slices and
// arrays are kept as given; nested mappings are boxed with their values
// converted the same way. "type" and "extra" are metadata and are never
// converted.
//
// The zero DataContainer has no type and no fields; Set fills it. A
// DataContainer belongs to one job at a time and is not safe for concurrent
// mutation.
type DataContainer struct {
	typ    Type
	fields *box.Box
}

// Field is a key/value pair used to build a container in a fixed order.
type Field struct {
	Key   string
	Value any
}

// New builds a container of type t. Keys of fields are inserted in sorted
// order; use NewOrdered to control it. An empty t defaults to ordered_pair.
func New(t Type, fields map[string]any) (*DataContainer, error) {
	b := box.New(fields)
	ordered := make([]Field, 0, b.Len())
	for _, k := range b.Keys() {
		ordered = append(ordered, Field{Key: k, Value: fields[k]})
	}
	return NewOrdered(t, ordered...)
}

// NewOrdered builds a container of type t from fields in the given order.
func NewOrdered(t Type, fields ...Field) (*DataContainer, error) {
	if t == "" {
		t = TypeOrderedPair
	}
	dc := &DataContainer{typ: t, fields: box.New(nil)}
	for _, f := range fields {
		if err := dc.Set(f.Key, f.Value); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

// Type returns the type tag.
func (dc *DataContainer) Type() Type {
	return dc.typ
}

// SetType replaces the type tag. It is not checked until Validate.
func (dc *DataContainer) SetType(t Type) {
	dc.typ = t
}

// Set stores value under key, converting it to array form when it is
// numeric. Setting "type" changes the tag.
func (dc *DataContainer) Set(key string, value any) error {
	if dc.fields == nil {
		dc.fields = box.New(nil)
	}
	switch key {
	case KeyType:
		switch t := value.(type) {
		case Type:
			dc.typ = t
		case string:
			dc.typ = Type(t)
		default:
			return newValidationError(ErrUnsupportedValue, dc.typ, key,
				"type must be a string, got %T", value)
		}
		return nil
	case KeyExtra:
		dc.fields.Set(key, value)
		return nil
	}

	coerced, err := coerce(value)
	if err != nil {
		return newValidationError(ErrUnsupportedValue, dc.typ, key,
			"unsupported value for key %q: %v", key, err)
	}
	dc.fields.Set(key, coerced)
	return nil
}

func coerce(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string, []byte, *ndarray.Array:
		return v, nil
	case ndarray.Array:
		return &v, nil
	case bool:
		if v {
			return ndarray.Of(1), nil
		}
		return ndarray.Of(0), nil
	case map[string]any:
		return coerceBox(box.New(v))
	case *box.Box:
		return coerceBox(v)
	case box.Value:
		switch v.Kind() {
		case box.KindNull:
			return nil, nil
		case box.KindMap:
			b, _ := v.Box()
			return coerceBox(b)
		case box.KindLeaf:
			return coerce(v.Leaf())
		default:
			return coerce(v.Unwrap())
		}
	}

	arr, err := ndarray.FromAny(value)
	if err != nil {
		return nil, err
	}
	return arr, nil
}

func coerceBox(b *box.Box) (*box.Box, error) {
	out := box.New(nil)
	var err error
	b.Range(func(k string, v box.Value) bool {
		var c any
		c, err = coerce(v)
		if err != nil {
			err = fmt.Errorf("%s: %w", k, err)
			return false
		}
		out.Set(k, c)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the boxed value of key. Nested mappings stay boxed.
func (dc *DataContainer) Get(key string) (box.Value, bool) {
	return dc.fields.Get(key)
}

// Has reports whether key is present, even when it holds null.
func (dc *DataContainer) Has(key string) bool {
	return dc.fields.Has(key)
}

// Array returns the numeric array stored under key.
func (dc *DataContainer) Array(key string) (*ndarray.Array, bool) {
	v, ok := dc.fields.Get(key)
	if !ok {
		return nil, false
	}
	arr, ok := v.Leaf().(*ndarray.Array)
	return arr, ok
}

// Text returns the string stored under key.
func (dc *DataContainer) Text(key string) (string, bool) {
	v, ok := dc.fields.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.Leaf().(string)
	return s, ok
}

// Bytes returns the byte slice stored under key.
func (dc *DataContainer) Bytes(key string) ([]byte, bool) {
	v, ok := dc.fields.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.Leaf().([]byte)
	return b, ok
}

// Extra returns the free-form metadata attached to the container.
func (dc *DataContainer) Extra() (box.Value, bool) {
	return dc.fields.Get(KeyExtra)
}

// Keys returns field names in insertion order, without "type".
func (dc *DataContainer) Keys() []string {
	return dc.fields.Keys()
}

// Fields returns the boxed fields. Changes to the box bypass conversion.
func (dc *DataContainer) Fields() *box.Box {
	if dc.fields == nil {
		dc.fields = box.New(nil)
	}
	return dc.fields
}

// Copy returns a container with the same type and field values. Arrays are
// shared, not cloned.
func (dc *DataContainer) Copy() *DataContainer {
	return &DataContainer{typ: dc.typ, fields: dc.fields.Copy()}
}

// ToMap unwraps the container, including its "type" key.
func (dc *DataContainer) ToMap() map[string]any {
	m := dc.fields.ToMap()
	m[KeyType] = string(dc.typ)
	return m
}

func (dc *DataContainer) String() string {
	var sb strings.Builder
	sb.WriteString("DataContainer(type=")
	sb.WriteString(string(dc.typ))
	dc.fields.Range(func(k string, v box.Value) bool {
		sb.WriteString(", ")
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(v.String())
		return true
	})
	sb.WriteByte(')')
	return sb.String()
}
