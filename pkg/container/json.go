package container

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aretw0/flojoy/pkg/box"
	"github.com/aretw0/flojoy/pkg/ndarray"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// bytesTag marks a base64 encoded byte slice in the JSON form.
const bytesTag = "$bytes"

// MarshalJSON encodes the container as an object whose first key is
// "type". Arrays become nested lists and byte slices {"$bytes": "<base64>"}.
func (dc *DataContainer) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	t, _ := json.Marshal(string(dc.typ))
	buf.Write(t)

	var err error
	dc.fields.Range(func(k string, v box.Value) bool {
		buf.WriteByte(',')
		key, _ := json.Marshal(k)
		buf.Write(key)
		buf.WriteByte(':')
		var raw []byte
		if k == KeyExtra {
			raw, err = v.MarshalJSON()
		} else {
			raw, err = encodeValue(v)
		}
		if err != nil {
			err = fmt.Errorf("encode %q: %w", k, err)
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

func encodeValue(v box.Value) ([]byte, error) {
	switch v.Kind() {
	case box.KindNull:
		return []byte("null"), nil
	case box.KindMap:
		b, _ := v.Box()
		out := orderedmap.New[string, json.RawMessage]()
		var err error
		b.Range(func(k string, item box.Value) bool {
			var raw []byte
			raw, err = encodeValue(item)
			if err != nil {
				return false
			}
			out.Set(k, raw)
			return true
		})
		if err != nil {
			return nil, err
		}
		return json.Marshal(out)
	}
	if raw, ok := v.Leaf().([]byte); ok {
		return json.Marshal(map[string]string{bytesTag: base64.StdEncoding.EncodeToString(raw)})
	}
	return v.MarshalJSON()
}

// UnmarshalJSON decodes the form written by MarshalJSON, running every
// field through the same conversion as Set.
func (dc *DataContainer) UnmarshalJSON(data []byte) error {
	om := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, om); err != nil {
		return err
	}
	out := &DataContainer{typ: TypeOrderedPair, fields: box.New(nil)}
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		k, raw := pair.Key, pair.Value
		switch k {
		case KeyType:
			var t string
			if err := json.Unmarshal(raw, &t); err != nil {
				return fmt.Errorf("decode type: %w", err)
			}
			out.typ = Type(t)
			continue
		case KeyExtra:
			var extra box.Box
			if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
				out.fields.Set(k, nil)
				continue
			}
			if err := json.Unmarshal(raw, &extra); err != nil {
				var plain any
				if err := json.Unmarshal(raw, &plain); err != nil {
					return fmt.Errorf("decode extra: %w", err)
				}
				out.fields.Set(k, plain)
				continue
			}
			out.fields.Set(k, &extra)
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %q: %w", k, err)
		}
		if err := out.Set(k, decodeValue(v)); err != nil {
			return err
		}
	}
	*dc = *out
	return nil
}

// decodeValue turns tagged objects back into byte slices.
func decodeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if enc, ok := t[bytesTag].(string); ok && len(t) == 1 {
			if raw, err := base64.StdEncoding.DecodeString(enc); err == nil {
				return raw
			}
		}
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = decodeValue(item)
		}
		return out
	case []any:
		arr, err := ndarray.FromAny(t)
		if err != nil {
			return t
		}
		return arr
	}
	return v
}
