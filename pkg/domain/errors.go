package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound groups every lookup failure of the stores.
var ErrNotFound = errors.New("not found")

var (
	// ErrJobNotFound is returned when no result was posted for a job id.
	ErrJobNotFound = fmt.Errorf("job result %w", ErrNotFound)

	// ErrScratchNotFound is returned when a scratch key holds nothing.
	ErrScratchNotFound = fmt.Errorf("scratch entry %w", ErrNotFound)

	// ErrInitStoreNotFound is returned when a node has no init container.
	ErrInitStoreNotFound = fmt.Errorf("init store %w", ErrNotFound)

	// ErrNoInitFunction is returned when a node has no registered init function.
	ErrNoInitFunction = fmt.Errorf("init function %w", ErrNotFound)
)

// ErrDuplicateInitStore is returned when a node's init container already exists.
var ErrDuplicateInitStore = errors.New("init store already exists")

// ErrTypeMismatch is returned when a stored value is read as the wrong kind.
var ErrTypeMismatch = errors.New("type mismatch")
