package container

import (
	"slices"
	"strings"

	"github.com/agext/levenshtein"
)

// minSuggestRatio is the similarity a tag needs to be offered as a fix.
const minSuggestRatio = 0.6

// Validate checks the container against the schema of its type.
//
// Checks run in order and stop at the first failure: the type tag, the
// shape of surface z, key compatibility and legality, the time axis of
// parametric types, then required keys.
func (dc *DataContainer) Validate() error {
	t := dc.typ
	if !t.Valid() {
		return unknownTypeError(t)
	}

	if t.Base() == TypeSurface {
		z, ok := dc.Array("z")
		if dc.Has("z") && (!ok || z.Ndim() < 2) {
			return newValidationError(ErrInvalidShape, t, "z",
				"z key must be a 2D array for %q type", t)
		}
	}

	required, optional, _ := Keys(t)
	keys := dc.Keys()
	for _, k := range keys {
		if !knownKey(k) {
			return newValidationError(ErrInvalidKey, t, k,
				"invalid key %q for type %q, supported keys: %s", k, t, strings.Join(append(required, optional...), ", "))
		}
		for _, other := range keys {
			if other == k {
				continue
			}
			if !Compatible(k, other) {
				return newValidationError(ErrIncompatibleKeys, t, k,
					"you can't have %q and %q keys together for %q type", k, other, t)
			}
		}
		if !legalKey(t, k) {
			return newValidationError(ErrInvalidKey, t, k,
				"invalid key %q for type %q, supported keys: %s", k, t, strings.Join(append(required, optional...), ", "))
		}
	}

	if t.Parametric() {
		if !dc.Has(KeyTime) {
			return newValidationError(ErrMissingKey, t, KeyTime,
				"%q key must be provided for type %q", KeyTime, t)
		}
		ts, ok := dc.Array(KeyTime)
		if !ok || !ts.IsNonDecreasing() {
			return newValidationError(ErrUnsortedTimeAxis, t, KeyTime,
				"%q key must be in ascending order for type %q", KeyTime, t)
		}
	}
	for _, k := range required {
		if !dc.Has(k) {
			return newValidationError(ErrMissingKey, t, k,
				"%q key must be provided for type %q", k, t)
		}
	}
	return nil
}

// legalKey reports whether k may be set on a container of type t. Any type
// may carry "extra".
func legalKey(t Type, k string) bool {
	if k == KeyExtra {
		return true
	}
	if k == KeyTime {
		return t.Parametric()
	}
	s := baseSchemas[t.Base()]
	return slices.Contains(s.required, k) || slices.Contains(s.optional, k)
}

func unknownTypeError(t Type) *ValidationError {
	if best, ok := suggestType(t); ok {
		return newValidationError(ErrUnknownType, t, KeyType,
			"unsupported type %q, did you mean %q?", t, best)
	}
	names := make([]string, 0, len(Types()))
	for _, known := range Types() {
		names = append(names, string(known))
	}
	return newValidationError(ErrUnknownType, t, KeyType,
		"unsupported type %q, allowed types: %s", t, strings.Join(names, ", "))
}

// suggestType returns the known tag closest to t by edit distance.
func suggestType(t Type) (Type, bool) {
	var (
		best  Type
		ratio float64
	)
	for _, known := range Types() {
		r := similarity(string(t), string(known))
		if r > ratio {
			best, ratio = known, r
		}
	}
	return best, ratio >= minSuggestRatio
}

func similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	d := levenshtein.Distance(a, b, nil)
	return 1 - float64(d)/float64(longest)
}
