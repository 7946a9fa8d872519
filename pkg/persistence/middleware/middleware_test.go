package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/flojoy/pkg/adapters/memory"
	"github.com/aretw0/flojoy/pkg/container"
	"github.com/aretw0/flojoy/pkg/persistence/middleware"
	"github.com/aretw0/flojoy/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareChain_KeepsContract(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	metrics := middleware.NewMetrics(prometheus.NewRegistry())

	store := middleware.Chain(memory.NewStore(),
		middleware.NewLoggingMiddleware(logger),
		metrics.Middleware(),
	)
	ports.RunResultStoreContract(t, store)
}

func TestMetricsMiddleware_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(reg)
	store := metrics.Middleware()(memory.NewStore())
	ctx := context.Background()

	dc, _ := container.Scalar(1)
	require.NoError(t, store.Post(ctx, "job", dc))
	_, err := store.Get(ctx, "job")
	require.NoError(t, err)
	_, err = store.Get(ctx, "missing")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("post", middleware.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("get", middleware.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("get", middleware.OutcomeNotFound)))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.Duration))

	expected := `
# HELP flojoy_store_operations_total Result store operations by operation and outcome
# TYPE flojoy_store_operations_total counter
flojoy_store_operations_total{op="get",outcome="not_found"} 1
flojoy_store_operations_total{op="get",outcome="ok"} 1
flojoy_store_operations_total{op="post",outcome="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "flojoy_store_operations_total"))
}

func TestLoggingMiddleware_LevelsByOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	store := middleware.NewLoggingMiddleware(logger)(memory.NewStore())
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.Error(t, err)
	assert.Empty(t, buf.String(), "misses are debug records")

	require.NoError(t, store.Post(ctx, "job", "r"))
	assert.Empty(t, buf.String())
}
