// Package goquery queries rendered page snapshots with goquery. It implements
// the matching strategies used to pull supplement content out of an entity
// page and the link collection used on search listing pages.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/suppfetch"
	"golang.org/x/net/html"
)

// NoTextContent stands in for identified elements that have no text.
const NoTextContent = "no text content available"

// Element is a DOM element carrying an id attribute.
type Element struct {
	ID   string
	Text string
}

// Document is a parsed, queryable snapshot of a rendered page.
type Document struct {
	doc  *goquery.Document
	url  string
	text string
}

// NewDocument parses a snapshot. When the snapshot has no visible text, it is
// derived from the HTML.
func NewDocument(snap *suppfetch.Snapshot) (*Document, error) {
	if snap == nil {
		return nil, suppfetch.Errorf(suppfetch.EEXTRACTION, "empty page snapshot")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
	if err != nil {
		return nil, suppfetch.Errorf(suppfetch.EEXTRACTION, "failed to parse HTML: %v", err)
	}

	text := snap.Text
	if strings.TrimSpace(text) == "" {
		text = VisibleText(doc.Nodes...)
	}

	return &Document{doc: doc, url: snap.URL, text: text}, nil
}

// Text returns the page's visible text.
func (d *Document) Text() string {
	return d.text
}

// WindowMatches finds every occurrence of term in the case-folded visible
// text and returns the surrounding window of up to radius runes on each side,
// clipped at the document boundaries and trimmed. Occurrences do not overlap.
func (d *Document) WindowMatches(term string, radius int) []string {
	return windowMatches(d.text, term, radius)
}

func windowMatches(text, term string, radius int) []string {
	needle := []rune(strings.ToLower(term))
	if len(needle) == 0 {
		return nil
	}
	hay := []rune(strings.ToLower(text))

	var matches []string
	for i := 0; i+len(needle) <= len(hay); {
		if !hasRunesAt(hay, needle, i) {
			i++
			continue
		}
		start := max(0, i-radius)
		end := min(len(hay), i+len(needle)+radius)
		if w := strings.TrimSpace(string(hay[start:end])); w != "" {
			matches = append(matches, w)
		}
		i += len(needle)
	}
	return matches
}

func hasRunesAt(hay, needle []rune, i int) bool {
	for j, r := range needle {
		if hay[i+j] != r {
			return false
		}
	}
	return true
}

// IdentifierMatches returns the trimmed text of every element whose id,
// case-folded, contains term. Elements with no text are skipped.
func (d *Document) IdentifierMatches(term string) []string {
	term = strings.ToLower(term)
	if term == "" {
		return nil
	}

	var matches []string
	d.doc.Find("[id]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		if !strings.Contains(strings.ToLower(id), term) {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			matches = append(matches, text)
		}
	})
	return matches
}

// SelectorMatch returns the trimmed text of the first element whose id, class
// or role attribute contains field. The field should already be sanitized to
// [a-z0-9_]; anything else is rejected.
func (d *Document) SelectorMatch(field string) (string, bool) {
	if field == "" || suppfetch.SanitizeField(field) != field {
		return "", false
	}

	selector := `[id*="` + field + `"], [class*="` + field + `"], [role*="` + field + `"]`
	text := strings.TrimSpace(d.doc.Find(selector).First().Text())
	return text, text != ""
}

// Elements returns every element with a non-empty id in document order.
// Elements without text carry NoTextContent.
func (d *Document) Elements() []Element {
	var elements []Element
	d.doc.Find("[id]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		if id == "" {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			text = NoTextContent
		}
		elements = append(elements, Element{ID: id, Text: text})
	})
	return elements
}

// EntityLinks returns the anchors pointing at entity pages of the site, in
// document order. Hrefs are resolved against the document URL, or against
// site.BaseURL when the document has none. Links to the entity index itself
// and to other hosts are skipped. Duplicates are kept.
func (d *Document) EntityLinks(site suppfetch.Site) []suppfetch.Suggestion {
	baseURL := d.url
	if baseURL == "" {
		baseURL = site.BaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}
	siteURL, err := url.Parse(site.BaseURL)
	if err != nil {
		return nil
	}

	var links []suppfetch.Suggestion
	d.doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Host != siteURL.Host {
			return
		}
		if !strings.HasPrefix(resolved.Path, site.EntityPath) || resolved.Path == site.EntityPath {
			return
		}
		resolved.Fragment = ""
		links = append(links, suppfetch.Suggestion{
			Title: strings.Join(strings.Fields(sel.Text()), " "),
			URL:   resolved.String(),
		})
	})
	return links
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// skipText lists elements whose text is never rendered.
var skipText = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
}

// blockElements start a new line in the visible text.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "td": true, "th": true, "tr": true,
	"ul": true,
}

// VisibleText approximates innerText for pages rendered without a browser:
// text of non-rendered elements is dropped, block elements break lines and
// whitespace within a line is collapsed.
func VisibleText(nodes ...*html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipText[n.Data] {
				return
			}
			if blockElements[n.Data] {
				b.WriteByte('\n')
				defer b.WriteByte('\n')
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
