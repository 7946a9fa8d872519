package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/flojoy/pkg/adapters/redis"
	"github.com/aretw0/flojoy/pkg/container"
	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/aretw0/flojoy/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.ResultStore  = (*redis.Store)(nil)
	_ ports.ScratchStore = (*redis.Store)(nil)
	_ ports.Locker       = (*redis.Locker)(nil)
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_ResultContract(t *testing.T) {
	_, client := newClient(t)
	ports.RunResultStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_ScratchContract(t *testing.T) {
	_, client := newClient(t)
	ports.RunScratchStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	dc, err := container.Scalar(3)
	require.NoError(t, err)
	require.NoError(t, store.Post(ctx, "job-ttl", dc))

	jobs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, jobs, "job-ttl")

	mr.FastForward(2 * time.Second)

	_, err = store.Get(ctx, "job-ttl")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	// The index is pruned against wall-clock time.
	time.Sleep(1200 * time.Millisecond)

	jobs, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	dc, _ := container.TextBlob("hello")
	require.NoError(t, store.Post(ctx, "my-job", dc))
	require.NoError(t, store.SetScratch(ctx, domain.ScratchKey("my-job", "k"),
		domain.ScratchEntry{Tag: domain.ScratchString, Value: "v"}))

	assert.True(t, mr.Exists("custom:app:job:my-job"))
	assert.True(t, mr.Exists("custom:app:jobs"))
	assert.True(t, mr.Exists("custom:app:scratch:my-job-k"))

	raw, err := mr.Get("custom:app:job:my-job")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"text_blob","text_blob":"hello"}`, raw)
}

func TestRedisStore_SharedBetweenStores(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()

	writer := redis.NewFromClient(client)
	reader := redis.NewFromClient(client)

	dc, _ := container.OrderedPair([]int{1, 2}, []int{3, 4})
	require.NoError(t, writer.Post(ctx, "job-1", dc))

	got, err := reader.Get(ctx, "job-1")
	require.NoError(t, err)
	loaded, ok := got.(*container.DataContainer)
	require.True(t, ok)
	assert.NoError(t, loaded.Validate())
}

func TestRedisStore_ClearLeavesScratch(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()
	store := redis.NewFromClient(client)

	dc, _ := container.Scalar(1)
	require.NoError(t, store.Post(ctx, "job", dc))
	require.NoError(t, store.SetScratch(ctx, "job-k", domain.ScratchEntry{Tag: domain.ScratchString, Value: "v"}))

	require.NoError(t, store.Clear(ctx))
	assert.False(t, mr.Exists("flojoy:job:job"))
	assert.True(t, mr.Exists("flojoy:scratch:job-k"))
}

func TestRedisStore_PingAndLocker(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("p:"))

	require.NoError(t, store.Ping(ctx))

	unlock, err := store.Locker().Lock(ctx, "k", time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("p:lock:k"))
	require.NoError(t, unlock(ctx))

	mr.Close()
	assert.ErrorContains(t, store.Ping(ctx), "redis unreachable")
}
