package ports

import (
	"context"

	"github.com/aretw0/flojoy/pkg/domain"
)

// ResultStore keeps the result each job posted, keyed by job id.
type ResultStore interface {
	// Post stores result under jobID, replacing any previous result.
	Post(ctx context.Context, jobID string, result domain.Result) error

	// Get returns the result of jobID.
	// Returns domain.ErrJobNotFound if nothing, or nil, was posted.
	Get(ctx context.Context, jobID string) (domain.Result, error)

	// Exists reports whether jobID has a posted entry.
	Exists(ctx context.Context, jobID string) (bool, error)

	// Delete removes the result of jobID. Deleting a missing job is not an error.
	Delete(ctx context.Context, jobID string) error

	// Clear drops every job result.
	Clear(ctx context.Context) error

	// List returns the ids of all posted jobs.
	List(ctx context.Context) ([]string, error)
}

// ScratchStore is the small key/value memory nodes use during a run.
// Keys are composed with domain.ScratchKey.
type ScratchStore interface {
	SetScratch(ctx context.Context, key string, entry domain.ScratchEntry) error

	// GetScratch returns domain.ErrScratchNotFound for unknown keys.
	GetScratch(ctx context.Context, key string) (domain.ScratchEntry, error)

	DeleteScratch(ctx context.Context, key string) error
	ClearScratch(ctx context.Context) error
}

// InitStore holds the init containers of nodes. Containers carry live Go
// values, so implementations are always in-process.
type InitStore interface {
	// CreateInitContainer returns domain.ErrDuplicateInitStore if nodeID
	// already has one.
	CreateInitContainer(nodeID string) (*domain.InitContainer, error)

	// InitContainer returns domain.ErrInitStoreNotFound if nodeID has none.
	InitContainer(nodeID string) (*domain.InitContainer, error)

	HasInitContainer(nodeID string) bool
	ClearInitContainers()
}
