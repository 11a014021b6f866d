package lookup

import (
	"github.com/fwojciec/suppfetch/goquery"
)

// DefaultWindowRadius is the number of runes kept on each side of a term
// occurrence by WindowStrategy.
const DefaultWindowRadius = 200

// Strategy finds matches for a single term in a parsed page.
type Strategy interface {
	Match(doc *goquery.Document, term string) ([]string, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(doc *goquery.Document, term string) ([]string, error)

// Match calls f.
func (f StrategyFunc) Match(doc *goquery.Document, term string) ([]string, error) {
	return f(doc, term)
}

// WindowStrategy returns the text around every occurrence of the term in the
// page's visible text.
type WindowStrategy struct {
	// Radius defaults to DefaultWindowRadius when zero.
	Radius int
}

func (s WindowStrategy) Match(doc *goquery.Document, term string) ([]string, error) {
	radius := s.Radius
	if radius <= 0 {
		radius = DefaultWindowRadius
	}
	return doc.WindowMatches(term, radius), nil
}

// IdentifierStrategy returns the text of elements whose id contains the term.
type IdentifierStrategy struct{}

func (IdentifierStrategy) Match(doc *goquery.Document, term string) ([]string, error) {
	return doc.IdentifierMatches(term), nil
}

// SelectorStrategy returns the text of the first element whose id, class or
// role contains the term.
type SelectorStrategy struct{}

func (SelectorStrategy) Match(doc *goquery.Document, term string) ([]string, error) {
	if text, ok := doc.SelectorMatch(term); ok {
		return []string{text}, nil
	}
	return nil, nil
}

// ContentStrategies are the strategies run in content mode.
func ContentStrategies() []Strategy {
	return []Strategy{WindowStrategy{Radius: DefaultWindowRadius}, IdentifierStrategy{}}
}

// FieldStrategies are the strategies run in fields mode.
func FieldStrategies() []Strategy {
	return []Strategy{SelectorStrategy{}}
}
