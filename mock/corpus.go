package mock

import (
	"context"

	"github.com/fwojciec/cdpchat"
)

var _ cdpchat.CorpusLoader = (*CorpusLoader)(nil)

// CorpusLoader is a mock implementation of cdpchat.CorpusLoader.
type CorpusLoader struct {
	LoadCorpusFn func(ctx context.Context, location string) (string, error)
}

func (l *CorpusLoader) LoadCorpus(ctx context.Context, location string) (string, error) {
	return l.LoadCorpusFn(ctx, location)
}

var _ cdpchat.DocumentSource = (*DocumentSource)(nil)

// DocumentSource is a mock implementation of cdpchat.DocumentSource.
type DocumentSource struct {
	DocumentsFn func(ctx context.Context, location string) ([]*cdpchat.Document, error)
}

func (s *DocumentSource) Documents(ctx context.Context, location string) ([]*cdpchat.Document, error) {
	return s.DocumentsFn(ctx, location)
}
