package ndarray

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

var (
	// ErrNotNumeric is returned when a value cannot be read as numbers.
	ErrNotNumeric = errors.New("value is not numeric")
	// ErrRagged is returned when nested slices do not form a rectangular shape.
	ErrRagged = errors.New("ragged nested sequence")
	// ErrShape is returned when a shape does not match the amount of data.
	ErrShape = errors.New("shape does not match data")
)

// Array is a dense, row-major array of float64 values.
type Array struct {
	shape []int
	data  []float64
}

// New creates an array with the given shape over data.
// The data slice is used as is, not copied.
func New(shape []int, data []float64) (*Array, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: empty shape", ErrShape)
	}
	size := 1
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension %d", ErrShape, d)
		}
		size *= d
	}
	if size != len(data) {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", ErrShape, shape, size, len(data))
	}
	return &Array{shape: append([]int(nil), shape...), data: data}, nil
}

// Of creates a one-dimensional array holding values.
func Of(values ...float64) *Array {
	data := append([]float64{}, values...)
	return &Array{shape: []int{len(data)}, data: data}
}

// Scalar creates a one-element array.
func Scalar(v float64) *Array {
	return &Array{shape: []int{1}, data: []float64{v}}
}

// Arange returns evenly spaced values in [start, stop).
func Arange(start, stop, step float64) *Array {
	if step == 0 {
		return Of()
	}
	n := int(math.Ceil((stop - start) / step))
	if n < 0 {
		n = 0
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = start + float64(i)*step
	}
	return &Array{shape: []int{n}, data: data}
}

// Full returns an array of the given shape with every element set to v.
func Full(shape []int, v float64) *Array {
	size := 1
	for _, d := range shape {
		size *= d
	}
	data := make([]float64, size)
	for i := range data {
		data[i] = v
	}
	return &Array{shape: append([]int(nil), shape...), data: data}
}

// FromAny converts Go numbers, numeric slices and nested slices into an Array.
// A single number becomes a one-element array.
func FromAny(v any) (*Array, error) {
	switch a := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrNotNumeric)
	case *Array:
		return a, nil
	case Array:
		return &a, nil
	}

	rv := reflect.ValueOf(v)
	if f, ok := toFloat(rv); ok {
		return Scalar(f), nil
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}

	var shape []int
	var data []float64
	if err := flatten(rv, 0, &shape, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = []float64{}
	}
	return &Array{shape: shape, data: data}, nil
}

func flatten(rv reflect.Value, depth int, shape *[]int, data *[]float64) error {
	for rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return fmt.Errorf("%w: nil element", ErrNotNumeric)
		}
		rv = rv.Elem()
	}

	if f, ok := toFloat(rv); ok {
		if depth != len(*shape) {
			return fmt.Errorf("%w: scalar at depth %d", ErrRagged, depth)
		}
		*data = append(*data, f)
		return nil
	}

	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("%w: element of type %s", ErrNotNumeric, rv.Type())
	}

	n := rv.Len()
	switch {
	case depth < len(*shape):
		if (*shape)[depth] != n {
			return fmt.Errorf("%w: expected length %d at depth %d, got %d", ErrRagged, (*shape)[depth], depth, n)
		}
	case depth == len(*shape) && len(*data) == 0:
		*shape = append(*shape, n)
	default:
		return fmt.Errorf("%w: sequence at depth %d", ErrRagged, depth)
	}

	for i := 0; i < n; i++ {
		if err := flatten(rv.Index(i), depth+1, shape, data); err != nil {
			return err
		}
	}
	return nil
}

func toFloat(rv reflect.Value) (float64, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// Shape returns a copy of the array dimensions.
func (a *Array) Shape() []int {
	return append([]int(nil), a.shape...)
}

// Ndim returns the number of dimensions.
func (a *Array) Ndim() int {
	return len(a.shape)
}

// Size returns the total number of elements.
func (a *Array) Size() int {
	return len(a.data)
}

// Len returns the length of the first axis.
func (a *Array) Len() int {
	if len(a.shape) == 0 {
		return 0
	}
	return a.shape[0]
}

// Data returns the flat, row-major backing slice. It is not a copy.
func (a *Array) Data() []float64 {
	return a.data
}

// At returns the element at the given index, one coordinate per dimension.
func (a *Array) At(idx ...int) float64 {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("ndarray: %d indices for %d dimensions", len(idx), len(a.shape)))
	}
	offset := 0
	for i, x := range idx {
		if x < 0 || x >= a.shape[i] {
			panic(fmt.Sprintf("ndarray: index %d out of range for axis %d with size %d", x, i, a.shape[i]))
		}
		offset = offset*a.shape[i] + x
	}
	return a.data[offset]
}

// Row returns the i-th slice along the first axis, sharing storage.
func (a *Array) Row(i int) *Array {
	if len(a.shape) == 1 {
		return Scalar(a.data[i])
	}
	stride := len(a.data) / a.shape[0]
	return &Array{
		shape: append([]int(nil), a.shape[1:]...),
		data:  a.data[i*stride : (i+1)*stride],
	}
}

// IsNonDecreasing reports whether every element is <= the next one in
// row-major order.
func (a *Array) IsNonDecreasing() bool {
	for i := 0; i+1 < len(a.data); i++ {
		if !(a.data[i] <= a.data[i+1]) {
			return false
		}
	}
	return true
}

// Equal reports whether both arrays have the same shape and elements.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.shape) != len(b.shape) || len(a.data) != len(b.data) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}

// Copy returns a deep copy.
func (a *Array) Copy() *Array {
	return &Array{
		shape: append([]int(nil), a.shape...),
		data:  append([]float64{}, a.data...),
	}
}

// Nested returns the array as nested []any of float64 values.
func (a *Array) Nested() any {
	if len(a.shape) == 1 {
		out := make([]any, len(a.data))
		for i, v := range a.data {
			out[i] = v
		}
		return out
	}
	out := make([]any, a.shape[0])
	for i := range out {
		out[i] = a.Row(i).Nested()
	}
	return out
}

func (a *Array) String() string {
	var sb strings.Builder
	a.write(&sb)
	return sb.String()
}

func (a *Array) write(sb *strings.Builder) {
	sb.WriteByte('[')
	if len(a.shape) == 1 {
		for i, v := range a.data {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	} else {
		for i := 0; i < a.shape[0]; i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			a.Row(i).write(sb)
		}
	}
	sb.WriteByte(']')
}

// MarshalJSON encodes the array as nested JSON lists.
func (a *Array) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Nested())
}

// UnmarshalJSON decodes nested JSON lists of numbers.
func (a *Array) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*a = *parsed
	return nil
}
