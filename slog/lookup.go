// Package slog provides logging decorators for suppfetch services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/suppfetch"
)

// Ensure LoggingService implements suppfetch.LookupService.
var _ suppfetch.LookupService = (*LoggingService)(nil)

// LoggingService wraps a LookupService with one log line per call.
type LoggingService struct {
	next   suppfetch.LookupService
	logger *slog.Logger
}

// NewLoggingService creates a new LoggingService.
func NewLoggingService(next suppfetch.LookupService, logger *slog.Logger) *LoggingService {
	return &LoggingService{next: next, logger: logger}
}

// Lookup delegates to the wrapped service and logs the outcome.
func (s *LoggingService) Lookup(ctx context.Context, q *suppfetch.Query) (r *suppfetch.Result, err error) {
	defer func(begin time.Time) {
		kind := ""
		if r != nil {
			kind = string(r.Kind)
		}
		s.logger.Info("lookup",
			"query", q.Slug(),
			"mode", string(q.EffectiveMode()),
			"kind", kind,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Lookup(ctx, q)
}

// Overview delegates to the wrapped service and logs the outcome.
func (s *LoggingService) Overview(ctx context.Context, q *suppfetch.Query) (o *suppfetch.Overview, err error) {
	defer func(begin time.Time) {
		bytes := 0
		if o != nil {
			bytes = len(o.Markdown)
		}
		s.logger.Info("overview",
			"query", q.Slug(),
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Overview(ctx, q)
}
