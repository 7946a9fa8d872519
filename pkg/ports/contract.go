package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/flojoy/pkg/box"
	"github.com/aretw0/flojoy/pkg/container"
	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/aretw0/flojoy/pkg/ndarray"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunResultStoreContract runs a suite of tests to verify that a ResultStore
// implementation adheres to the interface contract.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()
	jobID := "contract-job-" + time.Now().Format("20060102150405")

	t.Run("Post and Get container", func(t *testing.T) {
		dc, err := container.OrderedPair([]int{1, 2, 3}, []float64{4, 5, 6})
		require.NoError(t, err)

		require.NoError(t, store.Post(ctx, jobID, dc))

		got, err := store.Get(ctx, jobID)
		require.NoError(t, err)
		loaded, ok := got.(*container.DataContainer)
		require.True(t, ok, "expected a data container, got %T", got)
		assert.Equal(t, container.TypeOrderedPair, loaded.Type())
		y, _ := loaded.Array("y")
		assert.Equal(t, []float64{4, 5, 6}, y.Data())
	})

	t.Run("Post and Get envelope", func(t *testing.T) {
		dc, err := container.Scalar(7)
		require.NoError(t, err)
		env := &domain.Envelope{
			FlowToDirections: []string{"true"},
			ResultField:      domain.DataField,
			Fields:           map[string]domain.Result{domain.DataField: dc},
		}
		id := jobID + "-env"
		require.NoError(t, store.Post(ctx, id, env))
		defer func() { _ = store.Delete(ctx, id) }()

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		loaded, ok := got.(*domain.Envelope)
		require.True(t, ok, "expected an envelope, got %T", got)
		assert.Equal(t, []string{"true"}, loaded.FlowToDirections)
		assert.Nil(t, loaded.FlowToNodes)
		payload, ok := loaded.Payload()
		require.True(t, ok)
		assert.IsType(t, &container.DataContainer{}, payload)
	})

	t.Run("Post and Get envelope without instructions", func(t *testing.T) {
		dc, err := container.Scalar(1)
		require.NoError(t, err)
		id := jobID + "-plain-env"
		require.NoError(t, store.Post(ctx, id, &domain.Envelope{
			Fields: map[string]domain.Result{domain.DataField: dc},
		}))
		defer func() { _ = store.Delete(ctx, id) }()

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		loaded, ok := got.(*domain.Envelope)
		require.True(t, ok, "expected an envelope, got %T", got)
		assert.False(t, loaded.FlowControlled())
		payload, ok := loaded.Payload()
		require.True(t, ok)
		assert.IsType(t, &container.DataContainer{}, payload)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent-"+jobID)
		assert.ErrorIs(t, err, domain.ErrJobNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		ok, err := store.Exists(ctx, "non-existent-"+jobID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Nil result", func(t *testing.T) {
		id := jobID + "-nil"
		require.NoError(t, store.Post(ctx, id, nil))
		defer func() { _ = store.Delete(ctx, id) }()

		ok, err := store.Exists(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = store.Get(ctx, id)
		assert.ErrorIs(t, err, domain.ErrJobNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		dc, _ := container.Scalar(1)
		require.NoError(t, store.Post(ctx, jobID, dc))

		require.NoError(t, store.Delete(ctx, jobID))
		_, err := store.Get(ctx, jobID)
		assert.ErrorIs(t, err, domain.ErrJobNotFound, "Get after Delete should return ErrJobNotFound")

		assert.NoError(t, store.Delete(ctx, jobID), "deleting twice is fine")
	})

	t.Run("List and Clear", func(t *testing.T) {
		id1 := jobID + "-1"
		id2 := jobID + "-2"
		dc, _ := container.Scalar(1)
		require.NoError(t, store.Post(ctx, id1, dc))
		require.NoError(t, store.Post(ctx, id2, dc))

		jobs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, jobs, id1)
		assert.Contains(t, jobs, id2)

		require.NoError(t, store.Clear(ctx))
		jobs, err = store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})
}

// RunScratchStoreContract verifies a ScratchStore implementation.
func RunScratchStoreContract(t *testing.T, store ScratchStore) {
	ctx := context.Background()
	key := domain.ScratchKey("contract-job", "memo")

	t.Run("Set and Get", func(t *testing.T) {
		entries := []domain.ScratchEntry{
			{Tag: domain.ScratchString, Value: "hello"},
			{Tag: domain.ScratchArray, Value: ndarray.Of(1, 2, 3)},
			{Tag: domain.ScratchMap, Value: box.New(map[string]any{"k": "v"})},
			{Tag: domain.ScratchSet, Value: []string{"a", "b"}},
		}
		for _, e := range entries {
			require.NoError(t, store.SetScratch(ctx, key, e))
			got, err := store.GetScratch(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, e.Tag, got.Tag)
		}

		got, err := store.GetScratch(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got.Set())
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.GetScratch(ctx, key+"-missing")
		assert.ErrorIs(t, err, domain.ErrScratchNotFound)
	})

	t.Run("Delete and Clear", func(t *testing.T) {
		require.NoError(t, store.SetScratch(ctx, key, domain.ScratchEntry{Tag: domain.ScratchString, Value: "x"}))
		require.NoError(t, store.DeleteScratch(ctx, key))
		_, err := store.GetScratch(ctx, key)
		assert.ErrorIs(t, err, domain.ErrScratchNotFound)

		require.NoError(t, store.SetScratch(ctx, key, domain.ScratchEntry{Tag: domain.ScratchString, Value: "x"}))
		require.NoError(t, store.ClearScratch(ctx))
		_, err = store.GetScratch(ctx, key)
		assert.ErrorIs(t, err, domain.ErrScratchNotFound)
	})
}

// RunInitStoreContract verifies an InitStore implementation.
func RunInitStoreContract(t *testing.T, store InitStore) {
	t.Run("Create once", func(t *testing.T) {
		c, err := store.CreateInitContainer("node-1")
		require.NoError(t, err)
		c.Set(42)

		_, err = store.CreateInitContainer("node-1")
		assert.ErrorIs(t, err, domain.ErrDuplicateInitStore)

		got, err := store.InitContainer("node-1")
		require.NoError(t, err)
		assert.Equal(t, 42, got.Get())
		assert.True(t, store.HasInitContainer("node-1"))
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := store.InitContainer("node-missing")
		assert.ErrorIs(t, err, domain.ErrInitStoreNotFound)
		assert.False(t, store.HasInitContainer("node-missing"))
	})

	t.Run("Clear", func(t *testing.T) {
		store.ClearInitContainers()
		assert.False(t, store.HasInitContainer("node-1"))
		_, err := store.CreateInitContainer("node-1")
		assert.NoError(t, err)
	})
}
