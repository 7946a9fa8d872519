// Package config loads the flojoy runtime configuration.
package config
