// Package pipeline loads pre-ordered job sets and runs them against a
// flojoy Runtime. Ordering is the scheduler's concern; a pipeline file
// lists jobs in the order they were dispatched.
package pipeline
