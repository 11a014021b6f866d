package mock

import "github.com/fwojciec/suppfetch"

var _ suppfetch.Converter = (*Converter)(nil)

// Converter is a mock implementation of suppfetch.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
