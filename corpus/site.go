package corpus

import (
	"context"

	"github.com/fwojciec/cdpchat"
	"golang.org/x/sync/errgroup"
)

type pageResult struct {
	doc *cdpchat.Document
	err error
}

// site loads every page the sitemap lists below siteURL. Pages keep
// sitemap order. Pages that fail are skipped; a site where every page
// fails is ENOTFOUND.
func (l *Loader) site(ctx context.Context, siteURL string) ([]*cdpchat.Document, error) {
	if l.Sitemaps == nil || l.Fetcher == nil {
		return nil, cdpchat.Errorf(cdpchat.EINVALID, "sitemap locations are not supported")
	}

	urls, err := l.Sitemaps.DiscoverURLs(ctx, siteURL)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, cdpchat.Errorf(cdpchat.ENOTFOUND, "no pages listed in the sitemap for %s", siteURL)
	}
	if l.MaxPages > 0 && len(urls) > l.MaxPages {
		l.logger().Info("sitemap truncated", "site", siteURL, "pages", len(urls), "max_pages", l.MaxPages)
		urls = urls[:l.MaxPages]
	}

	concurrency := l.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]pageResult, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, url := range urls {
		g.Go(func() error {
			docs, err := l.page(gctx, url)
			if err != nil {
				// Only cancellation stops the other pages.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				results[i].err = err
				return nil
			}
			results[i].doc = docs[0]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := make([]*cdpchat.Document, 0, len(results))
	for i, r := range results {
		if r.err != nil {
			l.logger().Warn("page skipped", "url", urls[i], "err", cdpchat.ErrorMessage(r.err))
			continue
		}
		docs = append(docs, r.doc)
	}
	if len(docs) == 0 {
		return nil, cdpchat.Errorf(cdpchat.ENOTFOUND, "none of the %d pages for %s could be read", len(urls), siteURL)
	}

	l.logger().Debug("sitemap loaded", "site", siteURL, "pages", len(docs), "skipped", len(urls)-len(docs))
	return docs, nil
}
