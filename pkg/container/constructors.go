package container

// Option adjusts a container built by one of the named constructors.
type Option func(*options)

type options struct {
	extra    any
	hasExtra bool
	alpha    any
	hasAlpha bool
}

// WithExtra attaches free-form metadata under "extra".
func WithExtra(extra any) Option {
	return func(o *options) {
		o.extra, o.hasExtra = extra, true
	}
}

// WithAlpha sets the alpha channel of an image.
func WithAlpha(a any) Option {
	return func(o *options) {
		o.alpha, o.hasAlpha = a, true
	}
}

func build(t Type, opts []Option, fields ...Field) (*DataContainer, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.hasAlpha {
		fields = append(fields, Field{Key: "a", Value: o.alpha})
	}
	if o.hasExtra {
		fields = append(fields, Field{Key: KeyExtra, Value: o.extra})
	}
	return NewOrdered(t, fields...)
}

func OrderedPair(x, y any, opts ...Option) (*DataContainer, error) {
	return build(TypeOrderedPair, opts, Field{"x", x}, Field{"y", y})
}

func ParametricOrderedPair(x, y, t any, opts ...Option) (*DataContainer, error) {
	return build(TypeParametricOrderedPair, opts, Field{"x", x}, Field{"y", y}, Field{KeyTime, t})
}

func OrderedTriple(x, y, z any, opts ...Option) (*DataContainer, error) {
	return build(TypeOrderedTriple, opts, Field{"x", x}, Field{"y", y}, Field{"z", z})
}

func ParametricOrderedTriple(x, y, z, t any, opts ...Option) (*DataContainer, error) {
	return build(TypeParametricOrderedTriple, opts, Field{"x", x}, Field{"y", y}, Field{"z", z}, Field{KeyTime, t})
}

// Surface expects z to be at least two-dimensional; Validate enforces it.
func Surface(x, y, z any, opts ...Option) (*DataContainer, error) {
	return build(TypeSurface, opts, Field{"x", x}, Field{"y", y}, Field{"z", z})
}

func ParametricSurface(x, y, z, t any, opts ...Option) (*DataContainer, error) {
	return build(TypeParametricSurface, opts, Field{"x", x}, Field{"y", y}, Field{"z", z}, Field{KeyTime, t})
}

func Scalar(c any, opts ...Option) (*DataContainer, error) {
	return build(TypeScalar, opts, Field{"c", c})
}

func ParametricScalar(c, t any, opts ...Option) (*DataContainer, error) {
	return build(TypeParametricScalar, opts, Field{"c", c}, Field{KeyTime, t})
}

func Vector(v any, opts ...Option) (*DataContainer, error) {
	return build(TypeVector, opts, Field{"v", v})
}

func ParametricVector(v, t any, opts ...Option) (*DataContainer, error) {
	return build(TypeParametricVector, opts, Field{"v", v}, Field{KeyTime, t})
}

func Matrix(m any, opts ...Option) (*DataContainer, error) {
	return build(TypeMatrix, opts, Field{"m", m})
}

func ParametricMatrix(m, t any, opts ...Option) (*DataContainer, error) {
	return build(TypeParametricMatrix, opts, Field{"m", m}, Field{KeyTime, t})
}

// Image builds an RGB image. Use WithAlpha for an alpha channel.
func Image(r, g, b any, opts ...Option) (*DataContainer, error) {
	return build(TypeImage, opts, Field{"r", r}, Field{"g", g}, Field{"b", b})
}

func ParametricImage(r, g, b, t any, opts ...Option) (*DataContainer, error) {
	return build(TypeParametricImage, opts, Field{"r", r}, Field{"g", g}, Field{"b", b}, Field{KeyTime, t})
}

func Grayscale(m any, opts ...Option) (*DataContainer, error) {
	return build(TypeGrayscale, opts, Field{"m", m})
}

func ParametricGrayscale(m, t any, opts ...Option) (*DataContainer, error) {
	return build(TypeParametricGrayscale, opts, Field{"m", m}, Field{KeyTime, t})
}

// Bytes wraps raw binary data under "b".
func Bytes(b []byte, opts ...Option) (*DataContainer, error) {
	return build(TypeBytes, opts, Field{"b", b})
}

// TextBlob wraps a string under "text_blob".
func TextBlob(text string, opts ...Option) (*DataContainer, error) {
	return build(TypeTextBlob, opts, Field{"text_blob", text})
}
