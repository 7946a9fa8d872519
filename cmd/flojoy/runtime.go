package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/flojoy"
	"github.com/aretw0/flojoy/pkg/adapters/redis"
	"github.com/aretw0/flojoy/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
)

// pingTimeout bounds the reachability check of a shared backend.
const pingTimeout = 3 * time.Second

// newRuntime builds a Runtime for cfg. The returned func releases backend
// connections.
func newRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (*flojoy.Runtime, func() error, error) {
	opts := []flojoy.Option{
		flojoy.WithLogger(logger),
		flojoy.WithDebug(cfg.Debug),
		flojoy.WithOffline(cfg.Offline),
	}
	if reg != nil {
		opts = append(opts, flojoy.WithMetrics(reg))
	}
	noop := func() error { return nil }

	if cfg.Offline || cfg.Store.Backend != config.BackendRedis {
		return flojoy.New(opts...), noop, nil
	}

	rc := cfg.Store.Redis
	store := redis.New(rc.Addr, rc.Password, rc.DB,
		redis.WithPrefix(rc.Prefix),
		redis.WithTTL(time.Duration(rc.TTL)),
	)
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = store.Close()
		return nil, noop, err
	}
	logger.Debug("using redis store", "addr", rc.Addr, "prefix", rc.Prefix)

	opts = append(opts,
		flojoy.WithResultStore(store),
		flojoy.WithScratchStore(store),
		flojoy.WithLocker(store.Locker()),
	)
	return flojoy.New(opts...), store.Close, nil
}
