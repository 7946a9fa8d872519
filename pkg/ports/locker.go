package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken with Locker.
type UnlockFunc func(ctx context.Context) error

// Locker serializes read-modify-write updates on a store shared by several
// workers, such as adding members to a scratch set.
type Locker interface {
	// Lock blocks until key is held, ctx is done or the backend fails.
	// The returned UnlockFunc MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

// NopLocker grants every lock immediately. It suits single-owner stores.
type NopLocker struct{}

func (NopLocker) Lock(context.Context, string, time.Duration) (UnlockFunc, error) {
	return func(context.Context) error { return nil }, nil
}
