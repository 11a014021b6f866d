package mock

import "github.com/fwojciec/suppfetch"

var _ suppfetch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of suppfetch.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*suppfetch.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*suppfetch.ExtractResult, error) {
	return e.ExtractFn(html)
}
