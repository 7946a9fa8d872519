// Package box gives field access over arbitrary nested data.
//
// A Box is an ordered mapping whose nested mappings and []any lists are
// themselves wrapped, so callers walk payloads with Get and Path instead of
// type-asserting raw maps:
//
//	b := box.New(map[string]any{"meta": map[string]any{"unit": "V"}})
//	unit, _ := b.Path("meta", "unit")
//	fmt.Println(unit.Leaf()) // V
//
// Wrapping is lossless: ToMap rebuilds the original structure.
package box
