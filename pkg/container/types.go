package container

import (
	"slices"
	"strings"
)

// Type is the tag that selects a data container's schema.
type Type string

const (
	TypeOrderedPair   Type = "ordered_pair"
	TypeOrderedTriple Type = "ordered_triple"
	TypeSurface       Type = "surface"
	TypeScalar        Type = "scalar"
	TypeVector        Type = "vector"
	TypeMatrix        Type = "matrix"
	TypeImage         Type = "image"
	TypeGrayscale     Type = "grayscale"
	TypeBytes         Type = "bytes"
	TypeTextBlob      Type = "text_blob"

	TypeParametricOrderedPair   Type = parametricPrefix + TypeOrderedPair
	TypeParametricOrderedTriple Type = parametricPrefix + TypeOrderedTriple
	TypeParametricSurface       Type = parametricPrefix + TypeSurface
	TypeParametricScalar        Type = parametricPrefix + TypeScalar
	TypeParametricVector        Type = parametricPrefix + TypeVector
	TypeParametricMatrix        Type = parametricPrefix + TypeMatrix
	TypeParametricImage         Type = parametricPrefix + TypeImage
	TypeParametricGrayscale     Type = parametricPrefix + TypeGrayscale
)

const parametricPrefix = "parametric_"

// Reserved field names.
const (
	KeyType  = "type"
	KeyExtra = "extra"
	KeyTime  = "t"
)

type typeSchema struct {
	required []string
	optional []string
}

var baseSchemas = map[Type]typeSchema{
	TypeMatrix:        {required: []string{"m"}},
	TypeVector:        {required: []string{"v"}},
	TypeGrayscale:     {required: []string{"m"}},
	TypeImage:         {required: []string{"r", "g", "b"}, optional: []string{"a"}},
	TypeOrderedPair:   {required: []string{"x", "y"}},
	TypeOrderedTriple: {required: []string{"x", "y", "z"}},
	TypeSurface:       {required: []string{"x", "y", "z"}},
	TypeScalar:        {required: []string{"c"}},
	TypeBytes:         {required: []string{"b"}},
	TypeTextBlob:      {required: []string{"text_blob"}},
}

// baseOrder fixes the listing order of Types.
var baseOrder = []Type{
	TypeOrderedPair, TypeOrderedTriple, TypeSurface, TypeScalar, TypeVector,
	TypeMatrix, TypeImage, TypeGrayscale, TypeBytes, TypeTextBlob,
}

// fieldKeys lists every field name the compatibility matrix knows about.
var fieldKeys = []string{
	"x", "y", "z", "t", "v", "m", "c", "r", "g", "b", "a", "text_blob", "fig", "extra",
}

// combinations maps a key to the keys it may appear with. "t" and "extra"
// go with anything.
var combinations = map[string][]string{
	"x":         {"y", "t", "z", "extra"},
	"y":         {"x", "t", "z", "extra"},
	"z":         {"x", "y", "t", "extra"},
	"c":         {"t", "extra"},
	"v":         {"t", "extra"},
	"m":         {"t", "extra"},
	"t":         without(fieldKeys, "t"),
	"r":         {"g", "b", "t", "a", "extra"},
	"g":         {"r", "b", "t", "a", "extra"},
	"b":         {"r", "g", "t", "a", "extra"},
	"a":         {"r", "g", "b", "t", "extra"},
	"text_blob": {"extra"},
	"fig":       {"t", "extra"},
	"extra":     without(fieldKeys, "extra"),
}

func without(keys []string, drop string) []string {
	out := make([]string, 0, len(keys)-1)
	for _, k := range keys {
		if k != drop {
			out = append(out, k)
		}
	}
	return out
}

// Types returns every valid type tag: the base types followed by their
// parametric variants. bytes and text_blob have no parametric form.
func Types() []Type {
	out := append([]Type(nil), baseOrder...)
	for _, t := range baseOrder {
		if t == TypeBytes || t == TypeTextBlob {
			continue
		}
		out = append(out, parametricPrefix+t)
	}
	return out
}

// Parametric reports whether t carries a time axis.
func (t Type) Parametric() bool {
	return strings.HasPrefix(string(t), parametricPrefix)
}

// Base strips the parametric prefix.
func (t Type) Base() Type {
	return Type(strings.TrimPrefix(string(t), parametricPrefix))
}

// Valid reports whether t is one of Types.
func (t Type) Valid() bool {
	return slices.Contains(Types(), t)
}

// Keys returns the required and optional field names of t. Parametric
// types require "t" in addition to the keys of their base type.
func Keys(t Type) (required, optional []string, ok bool) {
	if !t.Valid() {
		return nil, nil, false
	}
	s := baseSchemas[t.Base()]
	required = append(required, s.required...)
	if t.Parametric() {
		required = append(required, KeyTime)
	}
	optional = append(optional, s.optional...)
	return required, optional, true
}

// Compatible reports whether key a may appear together with key b.
func Compatible(a, b string) bool {
	return slices.Contains(combinations[a], b)
}

func knownKey(k string) bool {
	_, ok := combinations[k]
	return ok
}
