package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/flojoy/pkg/domain"
)

// Store implements ports.ResultStore, ports.ScratchStore and ports.InitStore
// in memory.
//
// Store has a single owner: it takes no locks and must not be shared
// between goroutines. Results are kept by reference, so a container posted
// and later mutated is seen mutated by readers.
type Store struct {
	results map[string]domain.Result
	scratch map[string]domain.ScratchEntry
	inits   map[string]*domain.InitContainer
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		results: make(map[string]domain.Result),
		scratch: make(map[string]domain.ScratchEntry),
		inits:   make(map[string]*domain.InitContainer),
	}
}

// Post stores the result of a job.
func (s *Store) Post(_ context.Context, jobID string, result domain.Result) error {
	s.results[jobID] = result
	return nil
}

// Get returns the result of a job.
func (s *Store) Get(_ context.Context, jobID string) (domain.Result, error) {
	res, ok := s.results[jobID]
	if !ok || res == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	return res, nil
}

// Exists reports whether a job has an entry, even a nil one.
func (s *Store) Exists(_ context.Context, jobID string) (bool, error) {
	_, ok := s.results[jobID]
	return ok, nil
}

// Delete removes a job result.
func (s *Store) Delete(_ context.Context, jobID string) error {
	delete(s.results, jobID)
	return nil
}

// Clear drops all job results.
func (s *Store) Clear(_ context.Context) error {
	clear(s.results)
	return nil
}

// List returns posted job ids in sorted order.
func (s *Store) List(_ context.Context) ([]string, error) {
	jobs := make([]string, 0, len(s.results))
	for id := range s.results {
		jobs = append(jobs, id)
	}
	sort.Strings(jobs)
	return jobs, nil
}

func (s *Store) SetScratch(_ context.Context, key string, entry domain.ScratchEntry) error {
	s.scratch[key] = entry
	return nil
}

func (s *Store) GetScratch(_ context.Context, key string) (domain.ScratchEntry, error) {
	e, ok := s.scratch[key]
	if !ok {
		return domain.ScratchEntry{}, fmt.Errorf("%w: %s", domain.ErrScratchNotFound, key)
	}
	return e, nil
}

func (s *Store) DeleteScratch(_ context.Context, key string) error {
	delete(s.scratch, key)
	return nil
}

func (s *Store) ClearScratch(_ context.Context) error {
	clear(s.scratch)
	return nil
}

// CreateInitContainer creates the init container of a node.
func (s *Store) CreateInitContainer(nodeID string) (*domain.InitContainer, error) {
	if _, ok := s.inits[nodeID]; ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateInitStore, nodeID)
	}
	c := &domain.InitContainer{}
	s.inits[nodeID] = c
	return c, nil
}

// InitContainer returns the init container of a node.
func (s *Store) InitContainer(nodeID string) (*domain.InitContainer, error) {
	c, ok := s.inits[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInitStoreNotFound, nodeID)
	}
	return c, nil
}

func (s *Store) HasInitContainer(nodeID string) bool {
	_, ok := s.inits[nodeID]
	return ok
}

func (s *Store) ClearInitContainers() {
	clear(s.inits)
}
