package cdpchat

import (
	"context"
	"strings"
)

// CorpusSource tells the loader where a platform's corpus lives.
type CorpusSource struct {
	Platform Platform `yaml:"name" json:"name"`
	Location string   `yaml:"location" json:"location"`
}

// Validate returns an error if the source contains invalid fields.
func (s CorpusSource) Validate() error {
	if strings.TrimSpace(string(s.Platform)) == "" {
		return Errorf(EINVALID, "platform name required")
	}
	if strings.TrimSpace(s.Location) == "" {
		return Errorf(EINVALID, "corpus location required for %s", s.Platform)
	}
	return nil
}

// CorpusLoader reads the corpus text stored at a location.
type CorpusLoader interface {
	// LoadCorpus returns the full text found at location.
	// Returns ENOTFOUND if nothing exists there.
	LoadCorpus(ctx context.Context, location string) (string, error)
}

// Content types of a Document.
const (
	ContentTypeText     = "text/plain"
	ContentTypeMarkdown = "text/markdown"
	ContentTypeHTML     = "text/html"
)

// Document is one piece of a corpus before it is assembled.
type Document struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
}

// DocumentSource lists the documents stored at a location.
type DocumentSource interface {
	// Documents returns the documents at location in reading order.
	// Returns ENOTFOUND if the location holds no documents.
	Documents(ctx context.Context, location string) ([]*Document, error)
}

// CorpusLoadError reports a platform whose corpus could not be loaded.
type CorpusLoadError struct {
	Platform Platform
	Location string
	Err      error
}

func (e *CorpusLoadError) Error() string {
	return "corpus for " + string(e.Platform) + " at " + e.Location + ": " + ErrorMessage(e.Err)
}

func (e *CorpusLoadError) Unwrap() error {
	return e.Err
}
