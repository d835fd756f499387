package mock

import "github.com/fwojciec/cdpchat"

var _ cdpchat.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of cdpchat.Extractor.
type Extractor struct {
	ExtractFn func(rawHTML string) (*cdpchat.Extraction, error)
}

func (e *Extractor) Extract(rawHTML string) (*cdpchat.Extraction, error) {
	return e.ExtractFn(rawHTML)
}
