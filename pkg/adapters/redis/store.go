package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/flojoy/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// farFuture is the index score of entries without expiration (2100-01-01).
const farFuture = 4102444800

// Store implements ports.ResultStore and ports.ScratchStore using Redis, so
// several scheduler workers can read each other's results.
//
// Results are stored in their JSON wire form (see domain.EncodeResult).
// Init containers hold live values and stay in the memory store.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of job results and scratch entries.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "flojoy:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) jobKey(jobID string) string   { return s.prefix + "job:" + jobID }
func (s *Store) jobIndex() string             { return s.prefix + "jobs" }
func (s *Store) scratchKey(key string) string { return s.prefix + "scratch:" + key }
func (s *Store) scratchIndex() string         { return s.prefix + "scratch" }

func (s *Store) score() float64 {
	if s.ttl == 0 {
		return farFuture
	}
	return float64(time.Now().Add(s.ttl).Unix())
}

func (s *Store) put(ctx context.Context, key, index, member string, data []byte) error {
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.ttl)
	pipe.ZAdd(ctx, index, backend.Z{Score: s.score(), Member: member})
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) remove(ctx context.Context, key, index, member string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.ZRem(ctx, index, member)
	_, err := pipe.Exec(ctx)
	return err
}

// members prunes expired index entries and returns the rest.
func (s *Store) members(ctx context.Context, index string) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, index, "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired entries: %w", err)
	}
	return s.client.ZRange(ctx, index, 0, -1).Result()
}

// Post stores the result of a job.
func (s *Store) Post(ctx context.Context, jobID string, result domain.Result) error {
	data, err := domain.EncodeResult(result)
	if err != nil {
		return fmt.Errorf("failed to encode result of %s: %w", jobID, err)
	}
	if err := s.put(ctx, s.jobKey(jobID), s.jobIndex(), jobID, data); err != nil {
		return fmt.Errorf("failed to post result to redis: %w", err)
	}
	return nil
}

// Get retrieves the result of a job.
func (s *Store) Get(ctx context.Context, jobID string) (domain.Result, error) {
	val, err := s.client.Get(ctx, s.jobKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	res, err := domain.DecodeResult(val)
	if err != nil {
		return nil, fmt.Errorf("failed to decode result of %s: %w", jobID, err)
	}
	if res == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	return res, nil
}

// Exists reports whether a job has an entry.
func (s *Store) Exists(ctx context.Context, jobID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.jobKey(jobID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check redis: %w", err)
	}
	return n > 0, nil
}

// Delete removes a job result.
func (s *Store) Delete(ctx context.Context, jobID string) error {
	return s.remove(ctx, s.jobKey(jobID), s.jobIndex(), jobID)
}

// List returns the ids of live job results.
func (s *Store) List(ctx context.Context) ([]string, error) {
	jobs, err := s.members(ctx, s.jobIndex())
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// Clear drops every job result under the prefix.
func (s *Store) Clear(ctx context.Context) error {
	return s.clear(ctx, s.jobIndex(), s.jobKey)
}

func (s *Store) clear(ctx context.Context, index string, key func(string) string) error {
	ids, err := s.client.ZRange(ctx, index, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, key(id))
	}
	keys = append(keys, index)
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) SetScratch(ctx context.Context, key string, entry domain.ScratchEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode scratch entry %s: %w", key, err)
	}
	if err := s.put(ctx, s.scratchKey(key), s.scratchIndex(), key, data); err != nil {
		return fmt.Errorf("failed to write scratch entry to redis: %w", err)
	}
	return nil
}

func (s *Store) GetScratch(ctx context.Context, key string) (domain.ScratchEntry, error) {
	val, err := s.client.Get(ctx, s.scratchKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.ScratchEntry{}, fmt.Errorf("%w: %s", domain.ErrScratchNotFound, key)
		}
		return domain.ScratchEntry{}, fmt.Errorf("failed to get from redis: %w", err)
	}
	var entry domain.ScratchEntry
	if err := json.Unmarshal(val, &entry); err != nil {
		return domain.ScratchEntry{}, fmt.Errorf("failed to decode scratch entry %s: %w", key, err)
	}
	return entry, nil
}

func (s *Store) DeleteScratch(ctx context.Context, key string) error {
	return s.remove(ctx, s.scratchKey(key), s.scratchIndex(), key)
}

func (s *Store) ClearScratch(ctx context.Context) error {
	return s.clear(ctx, s.scratchIndex(), s.scratchKey)
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Locker returns a Locker sharing the store's client and prefix.
func (s *Store) Locker() *Locker {
	return NewLocker(s.client, s.prefix)
}

// Ping checks that the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unreachable: %w", err)
	}
	return nil
}
