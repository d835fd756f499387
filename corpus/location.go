package corpus

import (
	"net/url"
	"strings"

	"github.com/fwojciec/cdpchat"
)

// Kind identifies where a corpus location points.
type Kind int

const (
	KindFile Kind = iota
	KindPage
	KindSitemap
	KindDatabase
)

func (k Kind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindSitemap:
		return "sitemap"
	case KindDatabase:
		return "database"
	default:
		return "file"
	}
}

// Location prefixes.
const (
	SitemapPrefix  = "sitemap+"
	DatabasePrefix = "sqlite:"
)

// Location is a parsed corpus location.
type Location struct {
	Kind Kind

	// Target is what the source for Kind reads: a path, a page URL, the
	// site URL without the sitemap+ prefix, or the full sqlite: location.
	Target string
}

// ParseLocation classifies a corpus location.
func ParseLocation(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{}, cdpchat.Errorf(cdpchat.EINVALID, "empty corpus location")
	}

	switch {
	case strings.HasPrefix(raw, DatabasePrefix):
		return Location{Kind: KindDatabase, Target: raw}, nil
	case strings.HasPrefix(raw, SitemapPrefix):
		target := strings.TrimPrefix(raw, SitemapPrefix)
		if !isHTTP(target) {
			return Location{}, cdpchat.Errorf(cdpchat.EINVALID, "sitemap location needs an http(s) URL: %q", raw)
		}
		return Location{Kind: KindSitemap, Target: target}, nil
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		if !isHTTP(raw) {
			return Location{}, cdpchat.Errorf(cdpchat.EINVALID, "invalid URL %q", raw)
		}
		return Location{Kind: KindPage, Target: raw}, nil
	default:
		return Location{Kind: KindFile, Target: raw}, nil
	}
}

func isHTTP(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func host(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
