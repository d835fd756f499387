package cdpchat

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Platform names a knowledge domain the assistant can answer questions about.
type Platform string

// Corpus is the documentation text for a single platform.
// It is loaded once at startup and never modified afterwards.
type Corpus struct {
	Platform Platform `json:"platform"`
	Location string   `json:"location"`
	Text     string   `json:"text"`
	Hash     string   `json:"hash"`
}

// NewCorpus returns a Corpus with its content fingerprint computed.
func NewCorpus(platform Platform, location, text string) *Corpus {
	return &Corpus{
		Platform: platform,
		Location: location,
		Text:     text,
		Hash:     strconv.FormatUint(xxhash.Sum64String(text), 16),
	}
}

// KnowledgeStore maps platforms to their corpora.
// Iteration order is the order corpora were added.
// A KnowledgeStore is read-only once built and safe for concurrent reads.
type KnowledgeStore struct {
	order   []Platform
	corpora map[string]*Corpus
}

// NewKnowledgeStore builds a store from the given corpora.
// Returns EINVALID if a platform name is empty or appears twice
// (names are compared case-insensitively since detection is).
func NewKnowledgeStore(corpora ...*Corpus) (*KnowledgeStore, error) {
	s := &KnowledgeStore{corpora: make(map[string]*Corpus, len(corpora))}
	for _, c := range corpora {
		if err := s.add(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *KnowledgeStore) add(c *Corpus) error {
	if c == nil || strings.TrimSpace(string(c.Platform)) == "" {
		return Errorf(EINVALID, "platform name required")
	}
	key := platformKey(c.Platform)
	if _, ok := s.corpora[key]; ok {
		return Errorf(EINVALID, "duplicate platform %q", c.Platform)
	}
	s.corpora[key] = c
	s.order = append(s.order, c.Platform)
	return nil
}

// Platforms returns the known platforms in store order.
func (s *KnowledgeStore) Platforms() []Platform {
	if s == nil {
		return nil
	}
	out := make([]Platform, len(s.order))
	copy(out, s.order)
	return out
}

// Corpus returns the corpus for the platform, if present.
func (s *KnowledgeStore) Corpus(p Platform) (*Corpus, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.corpora[platformKey(p)]
	return c, ok
}

// Corpora returns all corpora in store order.
func (s *KnowledgeStore) Corpora() []*Corpus {
	if s == nil {
		return nil
	}
	out := make([]*Corpus, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, s.corpora[platformKey(p)])
	}
	return out
}

// Len returns the number of platforms in the store.
func (s *KnowledgeStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

func platformKey(p Platform) string {
	return strings.ToLower(string(p))
}
