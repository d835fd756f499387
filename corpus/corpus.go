// Package corpus loads platform documentation from files, web pages,
// sitemaps and crawl databases into plain corpus text.
package corpus

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/cdpchat"
)

// Ensure Loader implements cdpchat.CorpusLoader at compile time.
var _ cdpchat.CorpusLoader = (*Loader)(nil)

// DefaultConcurrency is the number of sitemap pages fetched at once.
const DefaultConcurrency = 4

// Loader reads the corpus behind a location. Each location form needs
// its own dependencies; a form whose dependency is nil is rejected as
// EINVALID.
type Loader struct {
	Files     cdpchat.DocumentSource
	Databases cdpchat.DocumentSource

	Fetcher     cdpchat.Fetcher
	Sitemaps    cdpchat.SitemapService
	RateLimiter cdpchat.DomainLimiter

	// Extractors are tried in order on every HTML document until one
	// yields content.
	Extractors []cdpchat.Extractor
	Converter  cdpchat.Converter

	// Concurrency bounds parallel page fetches for sitemap locations.
	Concurrency int

	// MaxPages caps the pages read from a sitemap. Zero means no cap.
	MaxPages int

	// RetryDelays are the waits between fetch attempts. Nil uses
	// DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// LoadCorpus returns the text found at location.
func (l *Loader) LoadCorpus(ctx context.Context, location string) (string, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return "", err
	}

	var docs []*cdpchat.Document
	switch loc.Kind {
	case KindFile:
		docs, err = l.documents(ctx, l.Files, loc)
	case KindDatabase:
		docs, err = l.documents(ctx, l.Databases, loc)
	case KindPage:
		docs, err = l.page(ctx, loc.Target)
	case KindSitemap:
		docs, err = l.site(ctx, loc.Target)
	}
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(cdpchat.FormatDocuments(docs)), nil
}

func (l *Loader) documents(ctx context.Context, src cdpchat.DocumentSource, loc Location) ([]*cdpchat.Document, error) {
	if src == nil {
		return nil, cdpchat.Errorf(cdpchat.EINVALID, "%s locations are not supported", loc.Kind)
	}

	docs, err := src.Documents(ctx, loc.Target)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		if doc.ContentType != cdpchat.ContentTypeHTML {
			continue
		}
		if err := l.render(doc); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (l *Loader) page(ctx context.Context, url string) ([]*cdpchat.Document, error) {
	if l.Fetcher == nil {
		return nil, cdpchat.Errorf(cdpchat.EINVALID, "page locations are not supported")
	}

	html, err := l.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc := &cdpchat.Document{Source: url, Content: html, ContentType: cdpchat.ContentTypeHTML}
	if err := l.render(doc); err != nil {
		return nil, err
	}
	return []*cdpchat.Document{doc}, nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}
