// Package lookup runs the supplement lookup pipeline: it drives a page from a
// shared browser session to the entity page, extracts and shapes the matches
// for each search term and falls back to the site's search listing when
// nothing relevant is found.
package lookup

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/suppfetch"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long found results stay cached.
const DefaultCacheTTL = 24 * time.Hour

// DefaultTimeout bounds one shared lookup or overview, independent of the
// callers waiting on it.
const DefaultTimeout = 2 * time.Minute

var _ suppfetch.LookupService = (*Engine)(nil)

// Engine implements suppfetch.LookupService on top of a browser session.
//
// Identical queries in flight at the same time share one browser visit. The
// visit runs detached from any single caller: a caller whose context is
// canceled stops waiting without failing the others.
// Engine is safe for concurrent use once configured.
type Engine struct {
	Session suppfetch.Session

	// Site defaults to suppfetch.DefaultSite when BaseURL is empty.
	Site suppfetch.Site

	// Policy defaults to suppfetch.DefaultRequestPolicy when nil.
	Policy *suppfetch.RequestPolicy

	// Limiter, if set, is awaited before every navigation.
	Limiter suppfetch.DomainLimiter

	// Cache, if set, stores found results for CacheTTL.
	Cache    suppfetch.ResultCache
	CacheTTL time.Duration

	// Extractors are tried in order to pull the main content for Overview.
	Extractors []suppfetch.Extractor
	Converter  suppfetch.Converter

	// Timeout bounds each shared browser visit. Defaults to DefaultTimeout.
	Timeout time.Duration

	Logger *slog.Logger
	Now    func() time.Time

	group singleflight.Group
}

// Lookup resolves q to a found result, or to a not-found result carrying
// suggestions from the site's search listing.
func (e *Engine) Lookup(ctx context.Context, q *suppfetch.Query) (*suppfetch.Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	key := suppfetch.CacheKey(q)
	if r := e.cached(ctx, key); r != nil {
		return r, nil
	}

	v, shared, err := e.do(ctx, "lookup|"+key, func(ctx context.Context) (any, error) {
		r, err := e.lookup(ctx, q)
		if err == nil && r.Found() {
			e.store(ctx, key, r)
		}
		return r, err
	})
	if err != nil {
		return nil, err
	}
	if shared {
		e.logger().Debug("lookup coalesced", "query", q.Slug())
	}
	return v.(*suppfetch.Result), nil
}

func (e *Engine) lookup(ctx context.Context, q *suppfetch.Query) (*suppfetch.Result, error) {
	slug := q.Slug()
	log := e.logger().With("query", slug, "mode", string(q.EffectiveMode()))

	page, err := e.openPage(ctx, log)
	if err != nil {
		return nil, err
	}
	defer e.closePage(page, log)

	data, err := e.extractEntity(ctx, page, q, log)
	switch {
	case err == nil:
		if suppfetch.IsRelevant(data) {
			return suppfetch.NewFoundResult(slug, data), nil
		}
		log.Debug("no relevant content")
	case suppfetch.ErrorCode(err) == suppfetch.ENOTFOUND:
		log.Debug("entity not found")
	default:
		return nil, err
	}

	limit := q.MaxResults
	if limit <= 0 {
		limit = suppfetch.DefaultSuggestionLimit
	}
	suggestions := e.suggest(ctx, page, slug, limit, log)
	return suppfetch.NewNotFoundResult(slug, suggestions), nil
}

// extractEntity loads the entity page and returns the shaped matches for q.
// Returns ENOTFOUND if the site reports the entity does not exist.
func (e *Engine) extractEntity(ctx context.Context, page suppfetch.Page, q *suppfetch.Query, log *slog.Logger) (*suppfetch.MatchSet, error) {
	if err := e.openEntity(ctx, page, q.Slug(), log); err != nil {
		return nil, err
	}

	begin := time.Now()
	var ms *suppfetch.MatchSet
	var err error
	switch q.EffectiveMode() {
	case suppfetch.ModeElements:
		ms, err = ExtractElements(ctx, page)
	case suppfetch.ModeFields:
		ms, err = Extract(ctx, page, q.SearchTerms(), FieldStrategies()...)
	default:
		ms, err = Extract(ctx, page, q.SearchTerms(), ContentStrategies()...)
	}
	logStep(log, "extract", begin, err)
	if err != nil {
		log.Warn("extraction degraded", "err", err)
	}

	return suppfetch.Shape(ms, q.Summarize, q.MaxResults), nil
}

// openEntity navigates page to the entity and checks the site's not-found
// marker.
func (e *Engine) openEntity(ctx context.Context, page suppfetch.Page, slug string, log *slog.Logger) error {
	site := e.site()
	if err := e.navigate(ctx, page, site.EntityURL(slug), log); err != nil {
		return err
	}

	title, err := page.Title(ctx)
	if err != nil {
		return err
	}
	if site.IsNotFound(title) {
		return suppfetch.Errorf(suppfetch.ENOTFOUND, "no entity page for %q", suppfetch.HumanQuery(slug))
	}
	return nil
}

func (e *Engine) suggest(ctx context.Context, page suppfetch.Page, slug string, limit int, log *slog.Logger) []suppfetch.Suggestion {
	begin := time.Now()
	var suggestions []suppfetch.Suggestion
	err := e.wait(ctx)
	if err == nil {
		suggestions, err = FindSuggestions(ctx, page, e.site(), slug, limit)
	}
	logStep(log, "suggest", begin, err)
	if err != nil {
		log.Warn("collecting suggestions failed", "err", err)
		return []suppfetch.Suggestion{}
	}
	return suggestions
}

// Overview returns the main content of the entity page as markdown.
func (e *Engine) Overview(ctx context.Context, q *suppfetch.Query) (*suppfetch.Overview, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if e.Converter == nil || len(e.Extractors) == 0 {
		return nil, suppfetch.Errorf(suppfetch.EINTERNAL, "overview is not configured")
	}

	v, _, err := e.do(ctx, "overview|"+q.Slug(), func(ctx context.Context) (any, error) {
		return e.overview(ctx, q.Slug())
	})
	if err != nil {
		return nil, err
	}
	return v.(*suppfetch.Overview), nil
}

func (e *Engine) overview(ctx context.Context, slug string) (*suppfetch.Overview, error) {
	log := e.logger().With("query", slug, "mode", "overview")

	page, err := e.openPage(ctx, log)
	if err != nil {
		return nil, err
	}
	defer e.closePage(page, log)

	if err := e.openEntity(ctx, page, slug, log); err != nil {
		return nil, err
	}

	snap, err := page.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	begin := time.Now()
	extracted, err := e.extractMain(snap.HTML)
	logStep(log, "extract", begin, err)
	if err != nil {
		return nil, err
	}

	markdown, err := e.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, suppfetch.Errorf(suppfetch.EEXTRACTION, "converting to markdown: %v", err)
	}

	title := extracted.Title
	if title == "" {
		title = snap.Title
	}
	url := snap.URL
	if url == "" {
		url = e.site().EntityURL(slug)
	}

	return &suppfetch.Overview{
		Query:    suppfetch.HumanQuery(slug),
		URL:      url,
		Title:    title,
		Markdown: markdown,
		Fetched:  e.now(),
	}, nil
}

// extractMain returns the first non-empty result from the configured
// extractors.
func (e *Engine) extractMain(html string) (*suppfetch.ExtractResult, error) {
	var lastErr error
	for _, x := range e.Extractors {
		res, err := x.Extract(html)
		if err != nil {
			lastErr = err
			continue
		}
		if res != nil && res.ContentHTML != "" {
			return res, nil
		}
	}
	if lastErr != nil {
		return nil, suppfetch.Errorf(suppfetch.EEXTRACTION, "extracting main content: %v", lastErr)
	}
	return nil, suppfetch.Errorf(suppfetch.EEXTRACTION, "no main content found")
}

// do runs fn once per key among concurrent callers. fn gets a context that
// keeps the first caller's values but not its cancellation, bounded by
// e.Timeout. Each caller returns as soon as its own ctx is done.
func (e *Engine) do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, bool, error) {
	ch := e.group.DoChan(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout())
		defer cancel()
		return fn(ctx)
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	}
}

func (e *Engine) openPage(ctx context.Context, log *slog.Logger) (suppfetch.Page, error) {
	begin := time.Now()
	page, err := e.Session.NewPage(ctx)
	logStep(log, "acquire", begin, err)
	if err != nil {
		return nil, err
	}

	if err := page.SetRequestFilter(e.policy()); err != nil {
		e.closePage(page, log)
		return nil, err
	}
	return page, nil
}

// closePage releases page. A close failure is logged and never replaces the
// outcome of the lookup.
func (e *Engine) closePage(page suppfetch.Page, log *slog.Logger) {
	if err := page.Close(); err != nil {
		log.Warn("closing page", "err", err)
	}
}

func (e *Engine) navigate(ctx context.Context, page suppfetch.Page, url string, log *slog.Logger) error {
	if err := e.wait(ctx); err != nil {
		return err
	}
	begin := time.Now()
	err := page.Navigate(ctx, url)
	logStep(log.With("url", url), "navigate", begin, err)
	return err
}

func (e *Engine) wait(ctx context.Context) error {
	if e.Limiter == nil {
		return nil
	}
	if err := e.Limiter.Wait(ctx, e.site().Host()); err != nil {
		return suppfetch.Errorf(suppfetch.ENAVIGATION, "waiting for rate limit: %v", err)
	}
	return nil
}

func (e *Engine) cached(ctx context.Context, key string) *suppfetch.Result {
	if e.Cache == nil {
		return nil
	}
	r, err := e.Cache.FindResult(ctx, key)
	if err != nil {
		if suppfetch.ErrorCode(err) != suppfetch.ENOTFOUND {
			e.logger().Warn("reading result cache", "key", key, "err", err)
		}
		return nil
	}
	return r
}

func (e *Engine) store(ctx context.Context, key string, r *suppfetch.Result) {
	if e.Cache == nil {
		return
	}
	ttl := e.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if err := e.Cache.SaveResult(ctx, key, r, ttl); err != nil {
		e.logger().Warn("writing result cache", "key", key, "err", err)
	}
}

func (e *Engine) site() suppfetch.Site {
	if e.Site.BaseURL == "" {
		return suppfetch.DefaultSite()
	}
	return e.Site
}

func (e *Engine) policy() *suppfetch.RequestPolicy {
	if e.Policy == nil {
		return suppfetch.DefaultRequestPolicy()
	}
	return e.Policy
}

func (e *Engine) timeout() time.Duration {
	if e.Timeout <= 0 {
		return DefaultTimeout
	}
	return e.Timeout
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func logStep(log *slog.Logger, step string, begin time.Time, err error) {
	log.Debug("lookup step",
		"step", step,
		"duration", time.Since(begin),
		"err", err,
	)
}
