package suppfetch

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NoMatches is stored in place of an empty match list so callers can tell
// "searched, found nothing" apart from "never searched".
const NoMatches = "no matches found"

// MatchSet maps search terms to their matches, preserving the order in which
// terms were added. The zero value is ready to use.
type MatchSet struct {
	terms   []string
	matches map[string][]string
}

// NewMatchSet returns an empty MatchSet.
func NewMatchSet() *MatchSet {
	return &MatchSet{}
}

// Add appends matches to term, skipping blank strings and exact duplicates.
// A term added with no usable matches holds the NoMatches sentinel. Adding
// real matches to a term that only holds the sentinel replaces it.
func (m *MatchSet) Add(term string, matches ...string) {
	if m.matches == nil {
		m.matches = make(map[string][]string)
	}
	existing, ok := m.matches[term]
	if !ok {
		m.terms = append(m.terms, term)
	}
	if isSentinel(existing) {
		existing = nil
	}
	for _, s := range matches {
		if isBlank(s) || s == NoMatches {
			continue
		}
		existing = appendUnique(existing, s)
	}
	if len(existing) == 0 {
		existing = []string{NoMatches}
	}
	m.matches[term] = existing
}

// Set replaces the matches for term verbatim, keeping the term's position.
func (m *MatchSet) Set(term string, matches []string) {
	if m.matches == nil {
		m.matches = make(map[string][]string)
	}
	if _, ok := m.matches[term]; !ok {
		m.terms = append(m.terms, term)
	}
	m.matches[term] = matches
}

// Get returns the matches for term and whether the term is present.
func (m *MatchSet) Get(term string) ([]string, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.matches[term]
	return v, ok
}

// Terms returns the terms in insertion order.
func (m *MatchSet) Terms() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.terms...)
}

// Len returns the number of terms.
func (m *MatchSet) Len() int {
	if m == nil {
		return 0
	}
	return len(m.terms)
}

// MarshalJSON encodes the set as a JSON object whose keys follow insertion order.
func (m *MatchSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, term := range m.Terms() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(term)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.matches[term])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (m *MatchSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("match set: expected object, got %v", tok)
	}
	*m = MatchSet{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		term, ok := tok.(string)
		if !ok {
			return fmt.Errorf("match set: expected string key, got %v", tok)
		}
		var matches []string
		if err := dec.Decode(&matches); err != nil {
			return err
		}
		m.Set(term, matches)
	}
	_, err = dec.Token()
	return err
}

func isSentinel(matches []string) bool {
	return len(matches) == 1 && matches[0] == NoMatches
}
