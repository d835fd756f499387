package cdpchat

import "context"

// SitemapService discovers page URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs lists the pages of the site at baseURL.
	// robots.txt Sitemap directives are consulted first, then /sitemap.xml.
	// When baseURL has a path, only pages below that path are returned.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
