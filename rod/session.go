// Package rod implements suppfetch.Session and suppfetch.Page with a
// headless Chrome browser driven by go-rod.
package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/suppfetch"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// DefaultNavigationTimeout bounds every page navigation.
const DefaultNavigationTimeout = 30 * time.Second

// DefaultUserAgent is sent with every page request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Ensure Session implements suppfetch.Session at compile time.
var _ suppfetch.Session = (*Session)(nil)

// Session owns one shared browser and hands out pages from it. The browser is
// launched on the first NewPage call and recycled once maxPages pages have
// been closed and none are in flight. Chrome accumulates memory over time and
// the baseline never returns to initial levels even with proper page cleanup.
//
// Session is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	browser    *rod.Browser
	launcher   *launcher.Launcher
	generation uint64
	pageCount  int64
	active     int64
	closed     atomic.Bool

	maxPages  int64
	timeout   time.Duration
	userAgent string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMaxPages sets the maximum number of pages before the browser is recycled.
// Defaults to 75 if not specified.
func WithMaxPages(n int64) SessionOption {
	return func(s *Session) {
		s.maxPages = n
	}
}

// WithNavigationTimeout sets the timeout for each page navigation.
// Defaults to DefaultNavigationTimeout (30s) if not specified.
func WithNavigationTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithUserAgent overrides the user agent sent by pages.
func WithUserAgent(ua string) SessionOption {
	return func(s *Session) {
		s.userAgent = ua
	}
}

// NewSession creates a Session. No browser is launched until the first page
// is requested. Close must be called when the Session is no longer needed.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		maxPages:  DefaultMaxPages,
		timeout:   DefaultNavigationTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewPage opens a new page with the user agent and viewport applied.
// Returns ERESOURCE if the browser cannot be launched or the page cannot be
// created; in the latter case the browser is reset so the next call starts fresh.
func (s *Session) NewPage(ctx context.Context) (suppfetch.Page, error) {
	if s.closed.Load() {
		return nil, suppfetch.Errorf(suppfetch.ERESOURCE, "browser session closed")
	}

	browser, gen, err := s.acquire()
	if err != nil {
		return nil, suppfetch.Errorf(suppfetch.ERESOURCE, "starting browser: %v", err)
	}

	p, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		s.release(gen)
		s.Reset()
		return nil, suppfetch.Errorf(suppfetch.ERESOURCE, "opening page: %v", err)
	}
	p = p.Context(context.Background())

	pg := &page{session: s, page: p, gen: gen, timeout: s.timeout}
	if err := pg.setup(s.userAgent); err != nil {
		_ = pg.Close()
		return nil, err
	}
	return pg, nil
}

// Reset closes the current browser so the next NewPage launches a new one.
// Pages still open on the old browser will fail.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.closeBrowser()
	s.generation++
	atomic.StoreInt64(&s.pageCount, 0)
	atomic.StoreInt64(&s.active, 0)
}

// Close releases browser resources. Close is safe to call multiple times.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closeBrowser()
}

// LauncherPID returns the process ID of the browser launcher, or zero before
// the browser has been launched. Used by tests to verify cleanup.
func (s *Session) LauncherPID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.launcher == nil {
		return 0
	}
	return s.launcher.PID()
}

// acquire returns the current browser, launching or recycling it first when
// needed, and counts the caller as an in-flight page.
func (s *Session) acquire() (*rod.Browser, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		if err := s.launchBrowser(); err != nil {
			return nil, 0, err
		}
	} else if atomic.LoadInt64(&s.pageCount) >= s.maxPages && atomic.LoadInt64(&s.active) == 0 {
		s.recycleBrowser()
	}

	atomic.AddInt64(&s.active, 1)
	return s.browser, s.generation, nil
}

// release records a closed page. Pages from a previous browser generation
// are ignored.
func (s *Session) release(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}
	atomic.AddInt64(&s.active, -1)
	atomic.AddInt64(&s.pageCount, 1)
}

// launchBrowser starts a new browser instance with stability flags.
// Must be called with mu held.
func (s *Session) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	s.browser = browser
	s.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (s *Session) closeBrowser() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
	}
	return err
}

// recycleBrowser starts a fresh browser and closes the old one.
// If launching the new browser fails, the old browser is kept.
// Must be called with mu held.
func (s *Session) recycleBrowser() {
	oldBrowser := s.browser
	oldLauncher := s.launcher
	s.browser = nil
	s.launcher = nil

	if err := s.launchBrowser(); err != nil {
		s.browser = oldBrowser
		s.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	s.generation++
	atomic.StoreInt64(&s.pageCount, 0)
}
