// Package registry maps node names to their implementations.
package registry
