package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/aretw0/flojoy/pkg/ports"
)

// NewLoggingMiddleware logs every store operation at debug level and
// failures other than misses at error level.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.ResultStore) ports.ResultStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

type loggingMiddleware struct {
	next   ports.ResultStore
	logger *slog.Logger
}

func (s *loggingMiddleware) log(ctx context.Context, op, jobID string, err error) {
	switch {
	case err == nil || errors.Is(err, domain.ErrNotFound):
		s.logger.DebugContext(ctx, "store "+op, "job_id", jobID, "error", err)
	default:
		s.logger.ErrorContext(ctx, "store "+op+" failed", "job_id", jobID, "error", err)
	}
}

func (s *loggingMiddleware) Post(ctx context.Context, jobID string, result domain.Result) error {
	err := s.next.Post(ctx, jobID, result)
	s.log(ctx, "post", jobID, err)
	return err
}

func (s *loggingMiddleware) Get(ctx context.Context, jobID string) (domain.Result, error) {
	res, err := s.next.Get(ctx, jobID)
	s.log(ctx, "get", jobID, err)
	return res, err
}

func (s *loggingMiddleware) Exists(ctx context.Context, jobID string) (bool, error) {
	ok, err := s.next.Exists(ctx, jobID)
	s.log(ctx, "exists", jobID, err)
	return ok, err
}

func (s *loggingMiddleware) Delete(ctx context.Context, jobID string) error {
	err := s.next.Delete(ctx, jobID)
	s.log(ctx, "delete", jobID, err)
	return err
}

func (s *loggingMiddleware) Clear(ctx context.Context) error {
	err := s.next.Clear(ctx)
	s.log(ctx, "clear", "", err)
	return err
}

func (s *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	jobs, err := s.next.List(ctx)
	s.log(ctx, "list", "", err)
	return jobs, err
}
