// Package ndarray provides the dense numeric array that backs data container
// fields. It covers what node payloads need (shape, element access, ordering
// checks, JSON encoding) and nothing like a full linear algebra library.
package ndarray
