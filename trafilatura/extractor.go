// Package trafilatura extracts the main content of supplement pages with
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"

	"github.com/fwojciec/suppfetch"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements suppfetch.Extractor at compile time.
var _ suppfetch.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura. Links and tables are kept because dosage
// and study sections rely on them.
type Extractor struct {
	baseURL *url.URL
}

// NewExtractor creates a new Extractor. baseURL resolves relative links and
// may be empty.
func NewExtractor(baseURL string) *Extractor {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		u = nil
	}
	return &Extractor{baseURL: u}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*suppfetch.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, suppfetch.Errorf(suppfetch.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		OriginalURL:     e.baseURL,
		EnableFallback:  true,
		ExcludeComments: true,
		IncludeLinks:    true,
		Deduplicate:     true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, suppfetch.Errorf(suppfetch.EEXTRACTION, "trafilatura: %v", err)
	}

	var contentHTML string
	switch {
	case result.ContentNode != nil:
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, suppfetch.Errorf(suppfetch.EEXTRACTION, "rendering content: %v", err)
		}
	case strings.TrimSpace(result.ContentText) != "":
		contentHTML = paragraphs(result.ContentText)
	}

	return &suppfetch.ExtractResult{
		Title:       strings.TrimSpace(result.Metadata.Title),
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// paragraphs wraps each non-empty line of plain text in an escaped <p>.
func paragraphs(text string) string {
	var sb strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			sb.WriteString("<p>")
			sb.WriteString(template.HTMLEscapeString(line))
			sb.WriteString("</p>\n")
		}
	}
	return sb.String()
}
