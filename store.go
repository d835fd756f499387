package cdpchat

import (
	"context"
	"log/slog"
)

// LoadKnowledgeStore loads the corpus of every source into a new store.
//
// A source that fails to load is left out of the store and reported in the
// returned slice; loading continues with the remaining sources. Duplicate
// platforms are skipped. An empty store is a valid result.
func LoadKnowledgeStore(ctx context.Context, loader CorpusLoader, sources []CorpusSource, logger *slog.Logger) (*KnowledgeStore, []*CorpusLoadError) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store, _ := NewKnowledgeStore()
	var failures []*CorpusLoadError
	fail := func(src CorpusSource, err error) {
		e := &CorpusLoadError{Platform: src.Platform, Location: src.Location, Err: err}
		failures = append(failures, e)
		logger.Warn("platform unavailable",
			"platform", string(src.Platform),
			"location", src.Location,
			"err", ErrorMessage(err),
		)
	}

	for _, src := range sources {
		if err := src.Validate(); err != nil {
			fail(src, err)
			continue
		}
		if _, ok := store.Corpus(src.Platform); ok {
			fail(src, Errorf(EINVALID, "duplicate platform %q", src.Platform))
			continue
		}

		text, err := loader.LoadCorpus(ctx, src.Location)
		if err != nil {
			fail(src, err)
			continue
		}

		c := NewCorpus(src.Platform, src.Location, text)
		if err := store.add(c); err != nil {
			fail(src, err)
			continue
		}
		logger.Debug("platform loaded",
			"platform", string(c.Platform),
			"bytes", len(c.Text),
			"hash", c.Hash,
		)
	}

	return store, failures
}
