package mock

import "github.com/fwojciec/cdpchat"

var _ cdpchat.Converter = (*Converter)(nil)

// Converter is a mock implementation of cdpchat.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
