package lookup

import (
	"context"

	"github.com/fwojciec/suppfetch"
)

// FindSuggestions navigates page to the site's search listing for slug and
// returns up to limit entity links in document order. limit <= 0 uses
// suppfetch.DefaultSuggestionLimit.
//
// The returned slice is never nil. On failure it is empty and the error
// explains why; suggestions are best effort and callers should not abort.
func FindSuggestions(ctx context.Context, page suppfetch.Page, site suppfetch.Site, slug string, limit int) ([]suppfetch.Suggestion, error) {
	if limit <= 0 {
		limit = suppfetch.DefaultSuggestionLimit
	}
	none := []suppfetch.Suggestion{}

	if err := page.Navigate(ctx, site.SearchURL(slug)); err != nil {
		return none, err
	}
	doc, err := snapshotDocument(ctx, page)
	if err != nil {
		return none, err
	}

	links := doc.EntityLinks(site)
	if len(links) > limit {
		links = links[:limit]
	}
	if links == nil {
		return none, nil
	}
	return links, nil
}
