// Package params converts control panel values into typed node parameters.
package params
