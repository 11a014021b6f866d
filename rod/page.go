package rod

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fwojciec/suppfetch"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// snapshotJS captures the page state in one evaluation.
const snapshotJS = `() => ({
	url: location.href,
	title: document.title,
	text: document.body ? document.body.innerText : "",
	html: document.documentElement ? document.documentElement.outerHTML : ""
})`

var _ suppfetch.Page = (*page)(nil)

// page is a browser tab borrowed from a Session.
type page struct {
	session *Session
	page    *rod.Page
	router  *rod.HijackRouter
	gen     uint64
	timeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

// setup applies the user agent and a small viewport.
func (p *page) setup(userAgent string) error {
	if err := p.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
		return suppfetch.Errorf(suppfetch.ERESOURCE, "setting user agent: %v", err)
	}
	if err := p.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{Width: 800, Height: 600}); err != nil {
		return suppfetch.Errorf(suppfetch.ERESOURCE, "setting viewport: %v", err)
	}
	return nil
}

// SetRequestFilter intercepts every request and aborts those the policy rejects.
func (p *page) SetRequestFilter(policy *suppfetch.RequestPolicy) error {
	if p.router != nil {
		return suppfetch.Errorf(suppfetch.EINVALID, "request filter already installed")
	}

	router := p.page.HijackRequests()
	err := router.Add("*", "", func(h *rod.Hijack) {
		if !policy.Allow(string(h.Request.Type()), h.Request.URL().String()) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	if err != nil {
		return suppfetch.Errorf(suppfetch.ERESOURCE, "installing request filter: %v", err)
	}
	go router.Run()

	p.router = router
	return nil
}

// Navigate loads url and waits for DOMContentLoaded, bounded by the
// session's navigation timeout.
func (p *page) Navigate(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	pg := p.page.Context(ctx)
	wait := pg.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := pg.Navigate(url); err != nil {
		return p.navigationError(url, err)
	}
	wait()

	if err := ctx.Err(); err != nil {
		return p.navigationError(url, err)
	}
	return nil
}

func (p *page) navigationError(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return suppfetch.Errorf(suppfetch.ENAVIGATION, "timed out after %s loading %s", p.timeout, url)
	}
	return suppfetch.Errorf(suppfetch.ENAVIGATION, "loading %s: %v", url, err)
}

// Title returns the document title.
func (p *page) Title(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", suppfetch.Errorf(suppfetch.EEXTRACTION, "reading page title: %v", err)
	}
	return info.Title, nil
}

// Snapshot evaluates the page and returns its visible text and DOM.
func (p *page) Snapshot(ctx context.Context) (*suppfetch.Snapshot, error) {
	res, err := p.page.Context(ctx).Eval(snapshotJS)
	if err != nil {
		return nil, suppfetch.Errorf(suppfetch.EEXTRACTION, "evaluating page: %v", err)
	}
	return &suppfetch.Snapshot{
		URL:   res.Value.Get("url").Str(),
		Title: res.Value.Get("title").Str(),
		Text:  res.Value.Get("text").Str(),
		HTML:  res.Value.Get("html").Str(),
	}, nil
}

// Close stops request interception, closes the tab and returns it to the
// session. Close is safe to call multiple times.
func (p *page) Close() error {
	p.closeOnce.Do(func() {
		var errs []error
		if p.router != nil {
			errs = append(errs, p.router.Stop())
		}
		errs = append(errs, p.page.Close())
		p.session.release(p.gen)

		if err := errors.Join(errs...); err != nil {
			p.closeErr = suppfetch.Errorf(suppfetch.ERESOURCE, "closing page: %v", err)
		}
	})
	return p.closeErr
}
