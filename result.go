package suppfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ResultKind tags which variant a Result holds.
type ResultKind string

// Result variants.
const (
	ResultFound    ResultKind = "found"
	ResultNotFound ResultKind = "not_found"
)

// DefaultSuggestionLimit caps suggestions when the query sets no MaxResults.
const DefaultSuggestionLimit = 5

// Suggestion is an alternative entity offered when a lookup finds nothing.
type Suggestion struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
}

// Result is the outcome of a lookup: either extracted data or, when nothing
// relevant was found, a reason and a list of suggestions.
type Result struct {
	Kind ResultKind

	// Query is the human-readable query (hyphens restored to spaces).
	Query string

	// Data is set for ResultFound.
	Data *MatchSet

	// Reason and Suggestions are set for ResultNotFound.
	Reason      string
	Suggestions []Suggestion
}

// NewFoundResult returns a found result for the sanitized query slug.
func NewFoundResult(slug string, data *MatchSet) *Result {
	return &Result{
		Kind:  ResultFound,
		Query: HumanQuery(slug),
		Data:  data,
	}
}

// NewNotFoundResult returns a not-found result for the sanitized query slug.
func NewNotFoundResult(slug string, suggestions []Suggestion) *Result {
	if suggestions == nil {
		suggestions = []Suggestion{}
	}
	human := HumanQuery(slug)
	return &Result{
		Kind:        ResultNotFound,
		Query:       human,
		Reason:      fmt.Sprintf("No direct data found for the query: %q.", human),
		Suggestions: suggestions,
	}
}

// Found reports whether the result holds extracted data.
func (r *Result) Found() bool {
	return r.Kind == ResultFound
}

type resultJSON struct {
	Query       string       `json:"query"`
	Data        *MatchSet    `json:"data,omitempty"`
	Error       string       `json:"error,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// MarshalJSON encodes found results as {query, data} and not-found results as
// {query, error, suggestions}. Suggestions are always an array when not found.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Kind == ResultNotFound {
		suggestions := r.Suggestions
		if suggestions == nil {
			suggestions = []Suggestion{}
		}
		return json.Marshal(struct {
			Query       string       `json:"query"`
			Error       string       `json:"error"`
			Suggestions []Suggestion `json:"suggestions"`
		}{r.Query, r.Reason, suggestions})
	}
	return json.Marshal(resultJSON{Query: r.Query, Data: r.Data})
}

// UnmarshalJSON decodes either variant, inferring the kind from the payload.
func (r *Result) UnmarshalJSON(data []byte) error {
	var v resultJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Result{Query: v.Query}
	if v.Data != nil {
		r.Kind = ResultFound
		r.Data = v.Data
		return nil
	}
	r.Kind = ResultNotFound
	r.Reason = v.Error
	r.Suggestions = v.Suggestions
	if r.Suggestions == nil {
		r.Suggestions = []Suggestion{}
	}
	return nil
}

// IsRelevant reports whether at least one term found real content.
func IsRelevant(ms *MatchSet) bool {
	for _, term := range ms.Terms() {
		matches, _ := ms.Get(term)
		if len(matches) > 0 && matches[0] != NoMatches {
			return true
		}
	}
	return false
}

// Overview is the main content of an entity page rendered as markdown.
type Overview struct {
	Query    string    `json:"query"`
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Markdown string    `json:"markdown"`
	Fetched  time.Time `json:"fetched"`
}

// LookupService resolves queries against the content site.
type LookupService interface {
	// Lookup runs the extraction pipeline. A missing entity or an entity with
	// no relevant content yields a ResultNotFound, not an error. Errors are
	// returned for invalid queries (EINVALID) and for failures that abort the
	// pipeline, such as navigation timeouts (ENAVIGATION).
	Lookup(ctx context.Context, q *Query) (*Result, error)

	// Overview returns the entity page's main content as markdown.
	// Returns ENOTFOUND if the site reports the entity does not exist.
	Overview(ctx context.Context, q *Query) (*Overview, error)
}

// ResultCache stores found results between lookups.
type ResultCache interface {
	// FindResult returns the cached result for key.
	// Returns ENOTFOUND if there is no live entry.
	FindResult(ctx context.Context, key string) (*Result, error)

	// SaveResult stores r under key until ttl elapses.
	SaveResult(ctx context.Context, key string, r *Result, ttl time.Duration) error
}

// OverviewWriter persists overviews.
type OverviewWriter interface {
	// WriteOverview stores o and returns where it was written.
	WriteOverview(ctx context.Context, o *Overview) (string, error)
}
