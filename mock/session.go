package mock

import (
	"context"

	"github.com/fwojciec/suppfetch"
)

var (
	_ suppfetch.Session       = (*Session)(nil)
	_ suppfetch.Page          = (*Page)(nil)
	_ suppfetch.DomainLimiter = (*DomainLimiter)(nil)
)

// Session is a mock implementation of suppfetch.Session.
type Session struct {
	NewPageFn func(ctx context.Context) (suppfetch.Page, error)
}

func (s *Session) NewPage(ctx context.Context) (suppfetch.Page, error) {
	return s.NewPageFn(ctx)
}

// Page is a mock implementation of suppfetch.Page.
type Page struct {
	SetRequestFilterFn func(policy *suppfetch.RequestPolicy) error
	NavigateFn         func(ctx context.Context, url string) error
	TitleFn            func(ctx context.Context) (string, error)
	SnapshotFn         func(ctx context.Context) (*suppfetch.Snapshot, error)
	CloseFn            func() error
}

func (p *Page) SetRequestFilter(policy *suppfetch.RequestPolicy) error {
	return p.SetRequestFilterFn(policy)
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.NavigateFn(ctx, url)
}

func (p *Page) Title(ctx context.Context) (string, error) {
	return p.TitleFn(ctx)
}

func (p *Page) Snapshot(ctx context.Context) (*suppfetch.Snapshot, error) {
	return p.SnapshotFn(ctx)
}

func (p *Page) Close() error {
	return p.CloseFn()
}

// DomainLimiter is a mock implementation of suppfetch.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
