package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/suppfetch"
)

var (
	_ suppfetch.Session = (*LoggingSession)(nil)
	_ suppfetch.Page    = (*loggingPage)(nil)
)

// LoggingSession wraps a Session so that every page it hands out logs its
// navigations and snapshots at debug level.
type LoggingSession struct {
	next   suppfetch.Session
	logger *slog.Logger
}

// NewLoggingSession creates a new LoggingSession.
func NewLoggingSession(next suppfetch.Session, logger *slog.Logger) *LoggingSession {
	return &LoggingSession{next: next, logger: logger}
}

// NewPage delegates to the wrapped session and wraps the page.
func (s *LoggingSession) NewPage(ctx context.Context) (suppfetch.Page, error) {
	begin := time.Now()
	p, err := s.next.NewPage(ctx)
	if err != nil {
		s.logger.Warn("page allocation",
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	return &loggingPage{next: p, logger: s.logger}, nil
}

type loggingPage struct {
	next   suppfetch.Page
	logger *slog.Logger
}

func (p *loggingPage) SetRequestFilter(policy *suppfetch.RequestPolicy) error {
	return p.next.SetRequestFilter(policy)
}

func (p *loggingPage) Navigate(ctx context.Context, url string) (err error) {
	defer func(begin time.Time) {
		p.logger.Debug("navigate",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Navigate(ctx, url)
}

func (p *loggingPage) Title(ctx context.Context) (string, error) {
	return p.next.Title(ctx)
}

func (p *loggingPage) Snapshot(ctx context.Context) (snap *suppfetch.Snapshot, err error) {
	defer func(begin time.Time) {
		bytes := 0
		if snap != nil {
			bytes = len(snap.HTML)
		}
		p.logger.Debug("snapshot",
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Snapshot(ctx)
}

func (p *loggingPage) Close() error {
	return p.next.Close()
}
