package http

import (
	"bufio"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/cdpchat"
)

// Ensure SitemapService implements cdpchat.SitemapService.
var _ cdpchat.SitemapService = (*SitemapService)(nil)

// Sizing of the page URL filter. A false positive drops one page; the rate
// keeps that below one page per million.
const (
	expectedPageURLs      = 20000
	pageFalsePositiveRate = 1e-6
	maxIndexDepth         = 5
)

// SitemapService discovers URLs from website sitemaps via HTTP.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, a client with DefaultFetchTimeout is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &SitemapService{client: client}
}

// DiscoverURLs lists page URLs in sitemap order. An empty result is not an
// error; callers decide what no pages means.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, cdpchat.Errorf(cdpchat.EINVALID, "invalid site URL %q", baseURL)
	}
	prefix := pathPrefix(base.Path)

	sitemaps, err := s.sitemapURLs(ctx, base)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{
		service:  s,
		prefix:   prefix,
		visited:  make(map[string]bool),
		seenURLs: bloom.NewWithEstimates(expectedPageURLs, pageFalsePositiveRate),
		urls:     []string{},
	}
	for _, sm := range sitemaps {
		if err := w.visit(ctx, sm, 0); err != nil {
			return nil, err
		}
	}
	return w.urls, nil
}

// sitemapURLs reads Sitemap directives from robots.txt and falls back to
// /sitemap.xml at the site root.
func (s *SitemapService) sitemapURLs(ctx context.Context, base *url.URL) ([]string, error) {
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	body, err := get(ctx, s.client, root.JoinPath("robots.txt").String())
	if err == nil {
		defer body.Close()
		var sitemaps []string
		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if len(line) > len("sitemap:") && strings.EqualFold(line[:len("sitemap:")], "sitemap:") {
				if loc := strings.TrimSpace(line[len("sitemap:"):]); loc != "" {
					sitemaps = append(sitemaps, loc)
				}
			}
		}
		if len(sitemaps) > 0 {
			return sitemaps, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return []string{root.JoinPath("sitemap.xml").String()}, nil
}

type sitemapWalk struct {
	service  *SitemapService
	prefix   string
	visited  map[string]bool
	seenURLs *bloom.BloomFilter
	urls     []string
}

func (w *sitemapWalk) visit(ctx context.Context, sitemapURL string, depth int) error {
	if w.visited[sitemapURL] || depth > maxIndexDepth {
		return nil
	}
	w.visited[sitemapURL] = true

	body, err := get(ctx, w.service.client, sitemapURL)
	if err != nil {
		if cdpchat.ErrorCode(err) == cdpchat.ENOTFOUND {
			return nil
		}
		return err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return cdpchat.Errorf(cdpchat.EINVALID, "parsing sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return cdpchat.Errorf(cdpchat.EINVALID, "empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		for _, child := range locs(root, "sitemap") {
			if err := w.visit(ctx, child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, page := range locs(root, "url") {
		if !matchesPathPrefix(page, w.prefix) || w.seenURLs.TestOrAddString(page) {
			continue
		}
		w.urls = append(w.urls, page)
	}
	return nil
}

// locs returns the trimmed <loc> text of each child element named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		if loc := el.SelectElement("loc"); loc != nil {
			if text := strings.TrimSpace(loc.Text()); text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

// pathPrefix normalizes a base path so that /docs matches /docs/intro but
// not /documentation. The root path yields no prefix.
func pathPrefix(p string) string {
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func matchesPathPrefix(rawURL, prefix string) bool {
	if prefix == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path, prefix) || u.Path+"/" == prefix
}
