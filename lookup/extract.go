package lookup

import (
	"context"
	"errors"

	"github.com/fwojciec/suppfetch"
	"github.com/fwojciec/suppfetch/goquery"
)

// Extract takes one snapshot of page and runs every strategy for each term.
//
// The returned set always holds every term in order; a term without matches
// holds suppfetch.NoMatches. Failures are absorbed into the set: if the page
// cannot be evaluated every term gets the sentinel, and a failing strategy
// only affects its own term. The returned error, if any, reports those
// absorbed failures and is meant to be logged, not acted upon.
func Extract(ctx context.Context, page suppfetch.Page, terms []string, strategies ...Strategy) (*suppfetch.MatchSet, error) {
	ms := suppfetch.NewMatchSet()

	doc, err := snapshotDocument(ctx, page)
	if err != nil {
		for _, term := range terms {
			ms.Add(term)
		}
		return ms, err
	}

	var errs []error
	for _, term := range terms {
		matches, err := matchTerm(doc, term, strategies)
		if err != nil {
			errs = append(errs, err)
			ms.Add(term)
			continue
		}
		ms.Add(term, matches...)
	}
	return ms, errors.Join(errs...)
}

func matchTerm(doc *goquery.Document, term string, strategies []Strategy) ([]string, error) {
	var all []string
	for _, s := range strategies {
		matches, err := s.Match(doc, term)
		if err != nil {
			return nil, suppfetch.Errorf(suppfetch.EEXTRACTION, "matching %q: %v", term, err)
		}
		all = append(all, matches...)
	}
	return all, nil
}

// ExtractElements takes one snapshot of page and keys the text of every
// element carrying an id by that id. Elements without text hold
// goquery.NoTextContent. A page that cannot be evaluated yields an empty set
// and the evaluation error.
func ExtractElements(ctx context.Context, page suppfetch.Page) (*suppfetch.MatchSet, error) {
	ms := suppfetch.NewMatchSet()

	doc, err := snapshotDocument(ctx, page)
	if err != nil {
		return ms, err
	}
	// A repeated id keeps the text of its last element.
	for _, el := range doc.Elements() {
		ms.Set(el.ID, []string{el.Text})
	}
	return ms, nil
}

func snapshotDocument(ctx context.Context, page suppfetch.Page) (*goquery.Document, error) {
	snap, err := page.Snapshot(ctx)
	if err != nil {
		if suppfetch.ErrorCode(err) == suppfetch.EINTERNAL {
			return nil, suppfetch.Errorf(suppfetch.EEXTRACTION, "evaluating page: %v", err)
		}
		return nil, err
	}
	return goquery.NewDocument(snap)
}
