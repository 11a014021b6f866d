package mock

import (
	"context"

	"github.com/fwojciec/suppfetch"
)

var _ suppfetch.Asker = (*Asker)(nil)

// Asker is a mock implementation of suppfetch.Asker.
type Asker struct {
	AskFn func(ctx context.Context, overview *suppfetch.Overview, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, overview *suppfetch.Overview, question string) (string, error) {
	return a.AskFn(ctx, overview, question)
}
