package suppfetch

import "context"

// Snapshot is the state of a rendered page captured by a single in-page
// evaluation.
type Snapshot struct {
	URL   string
	Title string

	// Text is the page's visible text (innerText of the body). It may be
	// empty when the provider cannot compute it; consumers derive it from HTML.
	Text string

	// HTML is the serialized DOM after rendering.
	HTML string
}

// Session hands out isolated pages from a shared, long-lived browser.
// Implementations must be safe for concurrent use; callers must not assume
// exclusive access to the underlying browser.
type Session interface {
	// NewPage allocates a page. The caller owns the page and must Close it on
	// every path. Returns ERESOURCE if the page cannot be allocated.
	NewPage(ctx context.Context) (Page, error)
}

// Page is a single browser tab borrowed from a Session for one lookup.
type Page interface {
	// SetRequestFilter installs policy. Must be called before Navigate.
	SetRequestFilter(policy *RequestPolicy) error

	// Navigate loads url and waits for the document to be parsed. The wait is
	// bounded by the page's navigation timeout. Returns ENAVIGATION on failure.
	Navigate(ctx context.Context, url string) error

	// Title returns the current document title.
	Title(ctx context.Context) (string, error)

	// Snapshot evaluates the page and returns its text and DOM.
	// Returns EEXTRACTION if the evaluation fails.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Close releases the page.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
