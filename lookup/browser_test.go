package lookup_test

import (
	"context"
	"sync"

	"github.com/fwojciec/suppfetch"
	"github.com/fwojciec/suppfetch/mock"
)

// route is a page served by fakeBrowser.
type route struct {
	title  string
	html   string
	navErr error
}

// fakeBrowser serves canned pages keyed by URL and records how they were used.
type fakeBrowser struct {
	routes      map[string]route
	snapshotErr error
	closeErr    error

	mu      sync.Mutex
	visited []string
	opened  int
	closed  int
	policy  *suppfetch.RequestPolicy
}

func (b *fakeBrowser) session() *mock.Session {
	return &mock.Session{
		NewPageFn: func(_ context.Context) (suppfetch.Page, error) {
			b.mu.Lock()
			b.opened++
			b.mu.Unlock()
			return b.page(), nil
		},
	}
}

func (b *fakeBrowser) page() *mock.Page {
	var current string
	return &mock.Page{
		SetRequestFilterFn: func(policy *suppfetch.RequestPolicy) error {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.policy = policy
			return nil
		},
		NavigateFn: func(_ context.Context, url string) error {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.visited = append(b.visited, url)
			r, ok := b.routes[url]
			if !ok {
				return suppfetch.Errorf(suppfetch.ENAVIGATION, "no route for %s", url)
			}
			if r.navErr != nil {
				return r.navErr
			}
			current = url
			return nil
		},
		TitleFn: func(_ context.Context) (string, error) {
			return b.routes[current].title, nil
		},
		SnapshotFn: func(_ context.Context) (*suppfetch.Snapshot, error) {
			if b.snapshotErr != nil {
				return nil, b.snapshotErr
			}
			r := b.routes[current]
			return &suppfetch.Snapshot{URL: current, Title: r.title, HTML: r.html}, nil
		},
		CloseFn: func() error {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.closed++
			return b.closeErr
		},
	}
}

func entityURL(slug string) string {
	return suppfetch.DefaultSite().EntityURL(slug)
}

func searchURL(slug string) string {
	return suppfetch.DefaultSite().SearchURL(slug)
}

const creatineHTML = `<html><head><title>Creatine</title></head><body>
<h1 id="page-title">Creatine</h1>
<section id="creatine-dosage">Take 3-5 g of creatine monohydrate daily.</section>
</body></html>`

const vitaminCHTML = `<html><head><title>Vitamin C</title></head><body>
<h1 id="page-title">Vitamin C</h1>
<section id="dosage-adults">Adults dosage is 500 mg.</section>
<section id="dosage-children">Children dosage is 250 mg.</section>
<section id="dosage-elderly">Elderly dosage is 1000 mg.</section>
<section id="benefits-immune">Immune benefits.</section>
<section id="benefits-skin">Skin benefits.</section>
<section id="benefits-iron">Iron absorption benefits.</section>
</body></html>`

const searchHTML = `<html><head><title>Search</title></head><body>
<nav><a href="/supplements/">All supplements</a><a href="/about/">About</a></nav>
<ul>
<li><a href="/supplements/creatine/">Creatine</a></li>
<li><a href="/supplements/vitamin-c/">Vitamin C</a></li>
<li><a href="https://other.example.com/supplements/fake/">Elsewhere</a></li>
</ul>
</body></html>`
