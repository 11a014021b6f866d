package suppfetch

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// Mode selects the extraction strategies a lookup runs.
type Mode string

// Supported lookup modes.
const (
	// ModeContent scans the visible text around every occurrence of each term
	// and collects elements whose id contains the term.
	ModeContent Mode = "content"

	// ModeFields runs a single selector lookup per field and keeps the first
	// element's text. Cheaper than ModeContent.
	ModeFields Mode = "fields"

	// ModeElements returns the text of every element carrying an id, keyed by id.
	ModeElements Mode = "elements"
)

// Query is a caller request for supplement information.
type Query struct {
	// Text is the raw supplement name, e.g. "Vitamin C".
	Text string `json:"query"`

	// Fields are optional section names such as "dosage" or "benefits".
	Fields []string `json:"fields,omitempty"`

	// Summarize truncates long matches.
	Summarize bool `json:"summary,omitempty"`

	// MaxResults caps the matches kept per term. Zero means no cap.
	MaxResults int `json:"maxResults,omitempty"`

	// Mode defaults to ModeContent when empty.
	Mode Mode `json:"mode,omitempty"`
}

// Validate returns an error if the query contains invalid fields.
func (q *Query) Validate() error {
	if SanitizeQuery(q.Text) == "" {
		return Errorf(EINVALID, "Please provide a query parameter.")
	}
	if q.MaxResults < 0 {
		return Errorf(EINVALID, "maxResults must be a positive integer")
	}
	switch q.Mode {
	case "", ModeContent, ModeFields, ModeElements:
	default:
		return Errorf(EINVALID, "unknown mode %q", q.Mode)
	}
	return nil
}

// EffectiveMode returns the mode the query runs in. Field mode without any
// usable field degrades to elements mode.
func (q *Query) EffectiveMode() Mode {
	switch q.Mode {
	case ModeFields:
		if len(SanitizeFields(q.Fields...)) == 0 {
			return ModeElements
		}
		return ModeFields
	case ModeElements:
		return ModeElements
	default:
		return ModeContent
	}
}

// Slug returns the sanitized query, safe to embed as a URL path segment.
func (q *Query) Slug() string {
	return SanitizeQuery(q.Text)
}

// SearchTerms returns the ordered, deduplicated terms to look for on the
// entity page. In content mode these are the sanitized fields followed by the
// sanitized query; in fields mode the fields alone.
func (q *Query) SearchTerms() []string {
	fields := SanitizeFields(q.Fields...)
	switch q.EffectiveMode() {
	case ModeFields:
		return fields
	case ModeElements:
		return nil
	}
	return appendUnique(fields, q.Slug())
}

// CacheKey returns a stable key identifying the shaped result of q.
func CacheKey(q *Query) string {
	var b strings.Builder
	b.WriteString(string(q.EffectiveMode()))
	b.WriteByte('|')
	b.WriteString(q.Slug())
	b.WriteByte('|')
	b.WriteString(strings.Join(SanitizeFields(q.Fields...), ","))
	fmt.Fprintf(&b, "|%t|%d", q.Summarize, q.MaxResults)
	return fmt.Sprintf("%016x", xxhash.Sum64String(b.String()))
}

// SanitizeQuery trims, lowercases and replaces internal whitespace runs with
// a single hyphen.
func SanitizeQuery(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), "-")
}

// SanitizeField trims, lowercases and strips every character outside [a-z0-9_].
func SanitizeField(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return -1
	}, raw)
}

// SanitizeFields accepts either a single comma-joined string or an already
// split list. Every element is split on commas, sanitized, and the result is
// deduplicated preserving first-seen order. Empty fields are dropped.
func SanitizeFields(fields ...string) []string {
	var out []string
	for _, f := range fields {
		for _, part := range strings.Split(f, ",") {
			if s := SanitizeField(part); s != "" {
				out = appendUnique(out, s)
			}
		}
	}
	return out
}

// HumanQuery restores a sanitized query to a readable form.
func HumanQuery(slug string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' {
			return ' '
		}
		return r
	}, slug)
}

// isBlank reports whether s contains only whitespace.
func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
