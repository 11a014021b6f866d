package mock

import (
	"context"
	"time"

	"github.com/fwojciec/suppfetch"
)

var (
	_ suppfetch.LookupService = (*LookupService)(nil)
	_ suppfetch.ResultCache   = (*ResultCache)(nil)
)

// LookupService is a mock implementation of suppfetch.LookupService.
type LookupService struct {
	LookupFn   func(ctx context.Context, q *suppfetch.Query) (*suppfetch.Result, error)
	OverviewFn func(ctx context.Context, q *suppfetch.Query) (*suppfetch.Overview, error)
}

func (s *LookupService) Lookup(ctx context.Context, q *suppfetch.Query) (*suppfetch.Result, error) {
	return s.LookupFn(ctx, q)
}

func (s *LookupService) Overview(ctx context.Context, q *suppfetch.Query) (*suppfetch.Overview, error) {
	return s.OverviewFn(ctx, q)
}

// ResultCache is a mock implementation of suppfetch.ResultCache.
type ResultCache struct {
	FindResultFn func(ctx context.Context, key string) (*suppfetch.Result, error)
	SaveResultFn func(ctx context.Context, key string, r *suppfetch.Result, ttl time.Duration) error
}

func (c *ResultCache) FindResult(ctx context.Context, key string) (*suppfetch.Result, error) {
	return c.FindResultFn(ctx, key)
}

func (c *ResultCache) SaveResult(ctx context.Context, key string, r *suppfetch.Result, ttl time.Duration) error {
	return c.SaveResultFn(ctx, key, r, ttl)
}
