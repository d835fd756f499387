// Package trafilatura extracts the main content of documentation pages
// with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/cdpchat"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements cdpchat.Extractor at compile time.
var _ cdpchat.Extractor = (*Extractor)(nil)

// Extractor keeps tables and links, which carry most of the detail in
// product documentation.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{opts: trafilatura.Options{
		EnableFallback: true,
		IncludeLinks:   true,
	}}
}

// Extract returns the page title and its main content as HTML.
func (e *Extractor) Extract(rawHTML string) (*cdpchat.Extraction, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, cdpchat.Errorf(cdpchat.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, cdpchat.Errorf(cdpchat.EINVALID, "extracting content: %v", err)
	}

	out := &cdpchat.Extraction{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, cdpchat.Errorf(cdpchat.EINTERNAL, "rendering content: %v", err)
		}
		out.ContentHTML = buf.String()
	}
	return out, nil
}
