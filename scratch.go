package flojoy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/flojoy/pkg/box"
	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/aretw0/flojoy/pkg/ndarray"
)

// setLockTTL bounds how long a crashed holder can block set updates.
const setLockTTL = 5 * time.Second

// WriteScratch stores value in the scratch memory of jobID. Strings, maps
// and numeric values are supported.
func (r *Runtime) WriteScratch(ctx context.Context, jobID, key string, value any) error {
	entry, err := domain.NewScratchEntry(value)
	if err != nil {
		return err
	}
	return r.scratch.SetScratch(ctx, domain.ScratchKey(jobID, key), entry)
}

// ReadScratch returns the raw scratch entry under key.
func (r *Runtime) ReadScratch(ctx context.Context, jobID, key string) (domain.ScratchEntry, error) {
	return r.scratch.GetScratch(ctx, domain.ScratchKey(jobID, key))
}

func (r *Runtime) readTagged(ctx context.Context, jobID, key string, tag domain.ScratchTag) (any, error) {
	entry, err := r.ReadScratch(ctx, jobID, key)
	if err != nil {
		return nil, err
	}
	if err := entry.Expect(tag); err != nil {
		return nil, fmt.Errorf("scratch %s: %w", domain.ScratchKey(jobID, key), err)
	}
	return entry.Value, nil
}

// ScratchArray reads an array entry.
func (r *Runtime) ScratchArray(ctx context.Context, jobID, key string) (*ndarray.Array, error) {
	v, err := r.readTagged(ctx, jobID, key, domain.ScratchArray)
	if err != nil {
		return nil, err
	}
	return v.(*ndarray.Array), nil
}

// ScratchString reads a string entry.
func (r *Runtime) ScratchString(ctx context.Context, jobID, key string) (string, error) {
	v, err := r.readTagged(ctx, jobID, key, domain.ScratchString)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// ScratchMap reads a mapping entry.
func (r *Runtime) ScratchMap(ctx context.Context, jobID, key string) (*box.Box, error) {
	v, err := r.readTagged(ctx, jobID, key, domain.ScratchMap)
	if err != nil {
		return nil, err
	}
	return v.(*box.Box), nil
}

// ScratchSet reads the members of a set entry.
func (r *Runtime) ScratchSet(ctx context.Context, jobID, key string) ([]string, error) {
	v, err := r.readTagged(ctx, jobID, key, domain.ScratchSet)
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// DeleteScratch removes key from the scratch memory of jobID.
func (r *Runtime) DeleteScratch(ctx context.Context, jobID, key string) error {
	return r.scratch.DeleteScratch(ctx, domain.ScratchKey(jobID, key))
}

// AddToSet adds item to the set under key, creating the set if needed.
func (r *Runtime) AddToSet(ctx context.Context, jobID, key, item string) error {
	return r.updateSet(ctx, domain.ScratchKey(jobID, key), func(e domain.ScratchEntry) domain.ScratchEntry {
		return e.WithMember(item)
	})
}

// RemoveFromSet removes item from the set under key.
func (r *Runtime) RemoveFromSet(ctx context.Context, jobID, key, item string) error {
	return r.updateSet(ctx, domain.ScratchKey(jobID, key), func(e domain.ScratchEntry) domain.ScratchEntry {
		return e.WithoutMember(item)
	})
}

func (r *Runtime) updateSet(ctx context.Context, key string, update func(domain.ScratchEntry) domain.ScratchEntry) (err error) {
	unlock, err := r.locker.Lock(ctx, key, setLockTTL)
	if err != nil {
		return fmt.Errorf("failed to lock scratch %s: %w", key, err)
	}
	defer func() {
		err = errors.Join(err, unlock(ctx))
	}()

	entry, err := r.scratch.GetScratch(ctx, key)
	switch {
	case errors.Is(err, domain.ErrScratchNotFound):
		entry = domain.ScratchEntry{Tag: domain.ScratchSet, Value: []string{}}
	case err != nil:
		return err
	}
	if err := entry.Expect(domain.ScratchSet); err != nil {
		return fmt.Errorf("scratch %s: %w", key, err)
	}
	return r.scratch.SetScratch(ctx, key, update(entry))
}
