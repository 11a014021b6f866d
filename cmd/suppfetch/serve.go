package main

import (
	"context"
	"time"

	suphttp "github.com/fwojciec/suppfetch/http"
	"golang.org/x/sync/errgroup"
)

// cachePurgeInterval is how often expired cache entries are removed.
const cachePurgeInterval = time.Hour

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	server := suphttp.NewServer(deps.Service, deps.Logger)
	server.Asker = deps.Asker

	g, ctx := errgroup.WithContext(deps.Ctx)

	g.Go(func() error {
		deps.Logger.Info("listening", "addr", c.Addr)
		return server.ListenAndServe(ctx, c.Addr)
	})

	if deps.Cache != nil {
		g.Go(func() error {
			purgeCache(ctx, deps)
			return nil
		})
	}

	return g.Wait()
}

func purgeCache(ctx context.Context, deps *Dependencies) {
	ticker := time.NewTicker(cachePurgeInterval)
	defer ticker.Stop()

	for {
		n, err := deps.Cache.DeleteExpired(ctx)
		if err != nil {
			deps.Logger.Warn("purging result cache", "err", err)
		} else if n > 0 {
			deps.Logger.Info("purged result cache", "removed", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
