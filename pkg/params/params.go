package params

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

// Parameter types understood by Format.
const (
	TypeArray         = "Array"
	TypeFloat         = "float"
	TypeInt           = "int"
	TypeBool          = "bool"
	TypeNodeReference = "NodeReference"
	TypeListStr       = "list[str]"
	TypeListFloat     = "list[float]"
	TypeListInt       = "list[int]"
	TypeSelect        = "select"
	TypeStr           = "str"
)

// ErrParse is returned when a parameter value does not match its type.
var ErrParse = errors.New("cannot parse parameter")

// NodeReference points at another node by id.
type NodeReference struct {
	Ref string
}

func (r NodeReference) String() string { return r.Ref }

// Array is a list parameter whose items are all ints, all floats or all
// strings, whichever fits first.
type Array struct {
	Items []any
}

// Format converts a control panel value to the Go type its parameter type
// names. Unknown types return value unchanged.
func Format(value any, typ string) (any, error) {
	var (
		out any
		err error
	)
	switch typ {
	case TypeArray:
		var items []any
		items, err = ParseArray(cast.ToString(value))
		out = Array{Items: items}
	case TypeFloat:
		out, err = cast.ToFloat64E(value)
	case TypeInt:
		out, err = toInt(value)
	case TypeBool:
		out, err = cast.ToBoolE(value)
	case TypeNodeReference:
		var ref string
		ref, err = cast.ToStringE(value)
		out = NodeReference{Ref: ref}
	case TypeListStr:
		out, err = ParseStrings(cast.ToString(value))
	case TypeListFloat:
		out, err = ParseFloats(cast.ToString(value))
	case TypeListInt:
		out, err = ParseInts(cast.ToString(value))
	case TypeSelect, TypeStr:
		out, err = cast.ToStringE(value)
	default:
		return value, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v as %s: %w", ErrParse, value, typ, err)
	}
	return out, nil
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// ParseStrings splits a comma separated list. An empty string is an empty
// list.
func ParseStrings(s string) ([]string, error) {
	parts := split(s)
	if parts == nil {
		return []string{}, nil
	}
	return parts, nil
}

// ParseInts parses a comma separated list of integers.
func ParseInts(s string) ([]int, error) {
	return parseAll(s, "int", toInt)
}

// toInt reads strings as base 10 so a leading zero is not octal.
func toInt(v any) (int, error) {
	if s, ok := v.(string); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 0)
		return int(n), err
	}
	return cast.ToIntE(v)
}

// ParseFloats parses a comma separated list of numbers.
func ParseFloats(s string) ([]float64, error) {
	return parseAll(s, "float", cast.ToFloat64E)
}

// ParseArray parses a comma separated list as ints, else floats, else
// strings.
func ParseArray(s string) ([]any, error) {
	if ints, err := ParseInts(s); err == nil {
		return toAny(ints), nil
	}
	if floats, err := ParseFloats(s); err == nil {
		return toAny(floats), nil
	}
	strs, _ := ParseStrings(s)
	return toAny(strs), nil
}

func parseAll[T any](s, kind string, conv func(any) (T, error)) ([]T, error) {
	parts := split(s)
	out := make([]T, 0, len(parts))
	for _, p := range parts {
		v, err := conv(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a comma separated list of %s", ErrParse, s, kind)
		}
		out = append(out, v)
	}
	return out, nil
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// Control is one entry of a node's control panel.
type Control struct {
	Param string `mapstructure:"param" yaml:"param" json:"param"`
	Value any    `mapstructure:"value" yaml:"value" json:"value"`
	Type  string `mapstructure:"type" yaml:"type" json:"type"`
}

// DecodeControls reads control panel entries keyed by control id.
func DecodeControls(raw any) (map[string]Control, error) {
	var ctrls map[string]Control
	if err := mapstructure.Decode(raw, &ctrls); err != nil {
		return nil, fmt.Errorf("failed to decode controls: %w", err)
	}
	return ctrls, nil
}

// Values formats every control into a parameter name to value map.
func Values(ctrls map[string]Control) (map[string]any, error) {
	out := make(map[string]any, len(ctrls))
	for id, c := range ctrls {
		v, err := Format(c.Value, c.Type)
		if err != nil {
			return nil, fmt.Errorf("control %s: %w", id, err)
		}
		out[c.Param] = v
	}
	return out, nil
}
