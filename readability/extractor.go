// Package readability is the second extractor tried on fetched pages.
package readability

import (
	"strings"

	"github.com/fwojciec/cdpchat"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements cdpchat.Extractor at compile time.
var _ cdpchat.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article readability finds in rawHTML.
func (e *Extractor) Extract(rawHTML string) (*cdpchat.Extraction, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, cdpchat.Errorf(cdpchat.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, cdpchat.Errorf(cdpchat.EINVALID, "reading article: %v", err)
	}

	return &cdpchat.Extraction{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
