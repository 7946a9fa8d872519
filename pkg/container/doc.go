// Package container implements the typed data container exchanged between
// nodes.
//
// A container carries a type tag (see Types) and a set of fields. Numeric
// fields are converted to ndarray arrays when set, so nodes can rely on
// array semantics regardless of what the producer passed in:
//
//	dc, _ := container.OrderedPair([]int{1, 2, 3}, []float64{2, 4, 6})
//	if err := dc.Validate(); err != nil {
//		return err
//	}
//	y, _ := dc.Array("y")
//
// Validate checks the tag, the key compatibility matrix (see Compatible),
// the keys each type requires (see Keys) and, for parametric types, that
// the "t" axis is non-decreasing.
package container
