package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/aretw0/flojoy/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of store operations.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics counts and times result store operations.
type Metrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flojoy_store_operations_total",
				Help: "Result store operations by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flojoy_store_operation_duration_seconds",
				Help:    "Duration of result store operations",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"op"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Operations, m.Duration)
	}
	return m
}

// Middleware returns a Middleware recording into m.
func (m *Metrics) Middleware() Middleware {
	return func(next ports.ResultStore) ports.ResultStore {
		return &metricsMiddleware{next: next, m: m}
	}
}

type metricsMiddleware struct {
	next ports.ResultStore
	m    *Metrics
}

func (s *metricsMiddleware) observe(op string, start time.Time, err error) {
	outcome := OutcomeOK
	switch {
	case errors.Is(err, domain.ErrNotFound):
		outcome = OutcomeNotFound
	case err != nil:
		outcome = OutcomeError
	}
	s.m.Operations.WithLabelValues(op, outcome).Inc()
	s.m.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *metricsMiddleware) Post(ctx context.Context, jobID string, result domain.Result) error {
	start := time.Now()
	err := s.next.Post(ctx, jobID, result)
	s.observe("post", start, err)
	return err
}

func (s *metricsMiddleware) Get(ctx context.Context, jobID string) (domain.Result, error) {
	start := time.Now()
	res, err := s.next.Get(ctx, jobID)
	s.observe("get", start, err)
	return res, err
}

func (s *metricsMiddleware) Exists(ctx context.Context, jobID string) (bool, error) {
	start := time.Now()
	ok, err := s.next.Exists(ctx, jobID)
	s.observe("exists", start, err)
	return ok, err
}

func (s *metricsMiddleware) Delete(ctx context.Context, jobID string) error {
	start := time.Now()
	err := s.next.Delete(ctx, jobID)
	s.observe("delete", start, err)
	return err
}

func (s *metricsMiddleware) Clear(ctx context.Context) error {
	start := time.Now()
	err := s.next.Clear(ctx)
	s.observe("clear", start, err)
	return err
}

func (s *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	jobs, err := s.next.List(ctx)
	s.observe("list", start, err)
	return jobs, err
}
