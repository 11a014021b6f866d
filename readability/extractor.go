// Package readability extracts the main content of supplement pages with
// go-readability. It serves as the fallback when trafilatura finds nothing.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/suppfetch"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements suppfetch.Extractor at compile time.
var _ suppfetch.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct {
	pageURL *url.URL
}

// NewExtractor creates a new Extractor. pageURL resolves relative links and
// may be empty.
func NewExtractor(pageURL string) *Extractor {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		u = nil
	}
	return &Extractor{pageURL: u}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*suppfetch.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, suppfetch.Errorf(suppfetch.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), e.pageURL)
	if err != nil {
		return nil, suppfetch.Errorf(suppfetch.EEXTRACTION, "readability: %v", err)
	}

	return &suppfetch.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
