package mock

import (
	"context"

	"github.com/fwojciec/suppfetch"
)

var _ suppfetch.OverviewWriter = (*OverviewWriter)(nil)

// OverviewWriter is a mock implementation of suppfetch.OverviewWriter.
type OverviewWriter struct {
	WriteOverviewFn func(ctx context.Context, o *suppfetch.Overview) (string, error)
}

func (w *OverviewWriter) WriteOverview(ctx context.Context, o *suppfetch.Overview) (string, error) {
	return w.WriteOverviewFn(ctx, o)
}
