package corpus_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/cdpchat"
	"github.com/fwojciec/cdpchat/corpus"
	"github.com/fwojciec/cdpchat/fs"
	"github.com/fwojciec/cdpchat/goquery"
	"github.com/fwojciec/cdpchat/htmltomarkdown"
	"github.com/fwojciec/cdpchat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Loader implements cdpchat.CorpusLoader at compile time.
var _ cdpchat.CorpusLoader = (*corpus.Loader)(nil)

// passthrough extracts the whole page and converts it by stripping tags.
func passthrough() ([]cdpchat.Extractor, cdpchat.Converter) {
	ext := &mock.Extractor{ExtractFn: func(rawHTML string) (*cdpchat.Extraction, error) {
		return &cdpchat.Extraction{Title: "Page", ContentHTML: rawHTML}, nil
	}}
	conv := &mock.Converter{ConvertFn: func(html string) (string, error) {
		return strings.NewReplacer("<p>", "", "</p>", "").Replace(html), nil
	}}
	return []cdpchat.Extractor{ext}, conv
}

func pageFetcher(pages map[string]string) *mock.Fetcher {
	return &mock.Fetcher{FetchFn: func(_ context.Context, url string) (string, error) {
		if html, ok := pages[url]; ok {
			return html, nil
		}
		return "", cdpchat.Errorf(cdpchat.ENOTFOUND, "HTTP 404 for %s", url)
	}}
}

func TestLoader_LoadCorpus_Files(t *testing.T) {
	t.Parallel()

	t.Run("returns a single document unchanged", func(t *testing.T) {
		t.Parallel()

		loader := &corpus.Loader{Files: &mock.DocumentSource{
			DocumentsFn: func(_ context.Context, location string) ([]*cdpchat.Document, error) {
				assert.Equal(t, "docs/segment.txt", location)
				return []*cdpchat.Document{{Title: "segment", Content: "Segment collects events.\n", ContentType: cdpchat.ContentTypeText}}, nil
			},
		}}

		text, err := loader.LoadCorpus(context.Background(), "docs/segment.txt")

		require.NoError(t, err)
		assert.Equal(t, "Segment collects events.", text)
	})

	t.Run("joins several documents under headings", func(t *testing.T) {
		t.Parallel()

		loader := &corpus.Loader{Files: &mock.DocumentSource{
			DocumentsFn: func(context.Context, string) ([]*cdpchat.Document, error) {
				return []*cdpchat.Document{
					{Title: "Sources", Content: "Sources send data.", ContentType: cdpchat.ContentTypeMarkdown},
					{Title: "Destinations", Content: "Destinations receive data.", ContentType: cdpchat.ContentTypeMarkdown},
				}, nil
			},
		}}

		text, err := loader.LoadCorpus(context.Background(), "docs/segment")

		require.NoError(t, err)
		assert.Equal(t, "## Sources\nSources send data.\n\n## Destinations\nDestinations receive data.", text)
	})

	t.Run("converts html documents", func(t *testing.T) {
		t.Parallel()

		extractors, conv := passthrough()
		loader := &corpus.Loader{
			Files: &mock.DocumentSource{DocumentsFn: func(context.Context, string) ([]*cdpchat.Document, error) {
				return []*cdpchat.Document{{Title: "lytics", Content: "<p>Lytics scores users.</p>", ContentType: cdpchat.ContentTypeHTML}}, nil
			}},
			Extractors: extractors,
			Converter:  conv,
		}

		text, err := loader.LoadCorpus(context.Background(), "docs/lytics.html")

		require.NoError(t, err)
		assert.Equal(t, "Lytics scores users.", text)
	})

	t.Run("passes source errors through", func(t *testing.T) {
		t.Parallel()

		loader := &corpus.Loader{Files: &mock.DocumentSource{DocumentsFn: func(context.Context, string) ([]*cdpchat.Document, error) {
			return nil, cdpchat.Errorf(cdpchat.ENOTFOUND, "no documentation found")
		}}}

		_, err := loader.LoadCorpus(context.Background(), "docs/zeotap.txt")

		require.Error(t, err)
		assert.Equal(t, cdpchat.ENOTFOUND, cdpchat.ErrorCode(err))
	})

	t.Run("reads real html files end to end", func(t *testing.T) {
		t.Parallel()

		// Given an HTML export of a docs page
		path := filepath.Join(t.TempDir(), "mparticle.html")
		require.NoError(t, os.WriteFile(path, []byte(`<html><head><title>Identity</title></head><body>
<nav><a href="/">Home</a></nav>
<main><h1>IDSync</h1><p>IDSync resolves user identities across devices.</p></main>
</body></html>`), 0644))

		loader := &corpus.Loader{
			Files:      fs.NewReader(),
			Extractors: []cdpchat.Extractor{goquery.NewExtractor()},
			Converter:  htmltomarkdown.NewConverter(),
		}

		// When I load it
		text, err := loader.LoadCorpus(context.Background(), path)

		// Then the corpus is the page's content as Markdown
		require.NoError(t, err)
		assert.Equal(t, "# IDSync\n\nIDSync resolves user identities across devices.", text)
	})
}

func TestLoader_LoadCorpus_Unsupported(t *testing.T) {
	t.Parallel()

	for _, location := range []string{
		"docs/segment.txt",
		"sqlite:locdoc.db",
		"https://segment.com/docs/",
		"sitemap+https://segment.com/docs/",
	} {
		t.Run(location, func(t *testing.T) {
			t.Parallel()

			_, err := (&corpus.Loader{}).LoadCorpus(context.Background(), location)

			require.Error(t, err)
			assert.Equal(t, cdpchat.EINVALID, cdpchat.ErrorCode(err))
		})
	}
}

func TestLoader_LoadCorpus_Database(t *testing.T) {
	t.Parallel()

	loader := &corpus.Loader{Databases: &mock.DocumentSource{
		DocumentsFn: func(_ context.Context, location string) ([]*cdpchat.Document, error) {
			assert.Equal(t, "sqlite:locdoc.db?project=segment", location)
			return []*cdpchat.Document{{Title: "Protocols", Content: "Protocols enforce tracking plans.", ContentType: cdpchat.ContentTypeMarkdown}}, nil
		},
	}}

	text, err := loader.LoadCorpus(context.Background(), "sqlite:locdoc.db?project=segment")

	require.NoError(t, err)
	assert.Equal(t, "Protocols enforce tracking plans.", text)
}

func TestLoader_LoadCorpus_Page(t *testing.T) {
	t.Parallel()

	const url = "https://docs.lytics.com/docs/audiences"

	t.Run("falls through extractors until one finds content", func(t *testing.T) {
		t.Parallel()

		var converted string
		loader := &corpus.Loader{
			Fetcher: pageFetcher(map[string]string{url: "<html>audiences</html>"}),
			Extractors: []cdpchat.Extractor{
				&mock.Extractor{ExtractFn: func(string) (*cdpchat.Extraction, error) {
					return nil, errors.New("no article")
				}},
				&mock.Extractor{ExtractFn: func(string) (*cdpchat.Extraction, error) {
					return &cdpchat.Extraction{}, nil
				}},
				&mock.Extractor{ExtractFn: func(string) (*cdpchat.Extraction, error) {
					return &cdpchat.Extraction{Title: "Audiences", ContentHTML: "<p>Audiences group users.</p>"}, nil
				}},
			},
			Converter: &mock.Converter{ConvertFn: func(html string) (string, error) {
				converted = html
				return "Audiences group users.", nil
			}},
		}

		text, err := loader.LoadCorpus(context.Background(), url)

		require.NoError(t, err)
		assert.Equal(t, "Audiences group users.", text)
		assert.Equal(t, "<p>Audiences group users.</p>", converted)
	})

	t.Run("rejects pages without readable content", func(t *testing.T) {
		t.Parallel()

		loader := &corpus.Loader{
			Fetcher: pageFetcher(map[string]string{url: "<html></html>"}),
			Extractors: []cdpchat.Extractor{&mock.Extractor{ExtractFn: func(string) (*cdpchat.Extraction, error) {
				return &cdpchat.Extraction{}, nil
			}}},
			Converter: &mock.Converter{ConvertFn: func(string) (string, error) {
				t.Fatal("converter should not be called")
				return "", nil
			}},
		}

		_, err := loader.LoadCorpus(context.Background(), url)

		require.Error(t, err)
		assert.Equal(t, cdpchat.EINVALID, cdpchat.ErrorCode(err))
	})

	t.Run("waits on the host's rate limit", func(t *testing.T) {
		t.Parallel()

		extractors, conv := passthrough()
		var domains []string
		loader := &corpus.Loader{
			Fetcher: pageFetcher(map[string]string{url: "<p>Audiences</p>"}),
			RateLimiter: &mock.DomainLimiter{WaitFn: func(_ context.Context, domain string) error {
				domains = append(domains, domain)
				return nil
			}},
			Extractors: extractors,
			Converter:  conv,
		}

		_, err := loader.LoadCorpus(context.Background(), url)

		require.NoError(t, err)
		assert.Equal(t, []string{"docs.lytics.com"}, domains)
	})
}

func TestLoader_LoadCorpus_Retry(t *testing.T) {
	t.Parallel()

	const url = "https://segment.com/docs/connections/"

	t.Run("retries unavailable pages", func(t *testing.T) {
		t.Parallel()

		extractors, conv := passthrough()
		var calls atomic.Int32
		loader := &corpus.Loader{
			Fetcher: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) {
				if calls.Add(1) < 3 {
					return "", cdpchat.Errorf(cdpchat.EUNAVAILABLE, "HTTP 503")
				}
				return "<p>Connections</p>", nil
			}},
			Extractors:  extractors,
			Converter:   conv,
			RetryDelays: []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond},
		}

		text, err := loader.LoadCorpus(context.Background(), url)

		require.NoError(t, err)
		assert.Equal(t, "Connections", text)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after the last delay", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		loader := &corpus.Loader{
			Fetcher: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) {
				calls.Add(1)
				return "", cdpchat.Errorf(cdpchat.EUNAVAILABLE, "HTTP 503")
			}},
			RetryDelays: []time.Duration{time.Millisecond, time.Millisecond},
		}

		_, err := loader.LoadCorpus(context.Background(), url)

		require.Error(t, err)
		assert.Equal(t, cdpchat.EUNAVAILABLE, cdpchat.ErrorCode(err))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("does not retry missing pages", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		loader := &corpus.Loader{
			Fetcher: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) {
				calls.Add(1)
				return "", cdpchat.Errorf(cdpchat.ENOTFOUND, "HTTP 404")
			}},
			RetryDelays: []time.Duration{time.Millisecond},
		}

		_, err := loader.LoadCorpus(context.Background(), url)

		require.Error(t, err)
		assert.Equal(t, cdpchat.ENOTFOUND, cdpchat.ErrorCode(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("stops waiting when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		loader := &corpus.Loader{
			Fetcher: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) {
				cancel()
				return "", cdpchat.Errorf(cdpchat.EUNAVAILABLE, "HTTP 503")
			}},
			RetryDelays: []time.Duration{time.Hour},
		}

		_, err := loader.LoadCorpus(ctx, url)

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoader_LoadCorpus_Sitemap(t *testing.T) {
	t.Parallel()

	const site = "https://docs.zeotap.com/home/"
	pages := []string{site + "a", site + "b", site + "c", site + "d"}

	sitemaps := func(urls []string) *mock.SitemapService {
		return &mock.SitemapService{DiscoverURLsFn: func(_ context.Context, baseURL string) ([]string, error) {
			if baseURL != site {
				return nil, cdpchat.Errorf(cdpchat.EINVALID, "unexpected site %s", baseURL)
			}
			return urls, nil
		}}
	}

	t.Run("keeps sitemap order under concurrency", func(t *testing.T) {
		t.Parallel()

		// Given pages that finish in reverse order
		extractors, conv := passthrough()
		delays := map[string]time.Duration{pages[0]: 40 * time.Millisecond, pages[1]: 20 * time.Millisecond}
		loader := &corpus.Loader{
			Sitemaps: sitemaps(pages[:3]),
			Fetcher: &mock.Fetcher{FetchFn: func(_ context.Context, url string) (string, error) {
				time.Sleep(delays[url])
				return "<p>" + strings.TrimPrefix(url, site) + "</p>", nil
			}},
			Extractors:  extractors,
			Converter:   conv,
			Concurrency: 3,
		}

		text, err := loader.LoadCorpus(context.Background(), "sitemap+"+site)

		// Then documents follow the sitemap
		require.NoError(t, err)
		assert.Equal(t, "## Page\na\n\n## Page\nb\n\n## Page\nc", text)
	})

	t.Run("skips pages that fail", func(t *testing.T) {
		t.Parallel()

		extractors, conv := passthrough()
		loader := &corpus.Loader{
			Sitemaps:    sitemaps(pages),
			Fetcher:     pageFetcher(map[string]string{pages[1]: "<p>b</p>", pages[3]: "<p>d</p>"}),
			Extractors:  extractors,
			Converter:   conv,
			RetryDelays: []time.Duration{},
		}

		text, err := loader.LoadCorpus(context.Background(), "sitemap+"+site)

		require.NoError(t, err)
		assert.Equal(t, "## Page\nb\n\n## Page\nd", text)
	})

	t.Run("reads at most max pages", func(t *testing.T) {
		t.Parallel()

		extractors, conv := passthrough()
		var fetched sync.Map
		loader := &corpus.Loader{
			Sitemaps: sitemaps(pages),
			Fetcher: &mock.Fetcher{FetchFn: func(_ context.Context, url string) (string, error) {
				fetched.Store(url, true)
				return "<p>x</p>", nil
			}},
			Extractors: extractors,
			Converter:  conv,
			MaxPages:   2,
		}

		_, err := loader.LoadCorpus(context.Background(), "sitemap+"+site)

		require.NoError(t, err)
		_, third := fetched.Load(pages[2])
		assert.False(t, third)
		_, second := fetched.Load(pages[1])
		assert.True(t, second)
	})

	t.Run("reports an empty sitemap as not found", func(t *testing.T) {
		t.Parallel()

		loader := &corpus.Loader{Sitemaps: sitemaps([]string{}), Fetcher: pageFetcher(nil)}

		_, err := loader.LoadCorpus(context.Background(), "sitemap+"+site)

		require.Error(t, err)
		assert.Equal(t, cdpchat.ENOTFOUND, cdpchat.ErrorCode(err))
	})

	t.Run("reports a site where every page fails as not found", func(t *testing.T) {
		t.Parallel()

		loader := &corpus.Loader{Sitemaps: sitemaps(pages), Fetcher: pageFetcher(nil)}

		_, err := loader.LoadCorpus(context.Background(), "sitemap+"+site)

		require.Error(t, err)
		assert.Equal(t, cdpchat.ENOTFOUND, cdpchat.ErrorCode(err))
	})

	t.Run("returns the context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		loader := &corpus.Loader{
			Sitemaps: sitemaps(pages),
			Fetcher: &mock.Fetcher{FetchFn: func(ctx context.Context, url string) (string, error) {
				cancel()
				<-ctx.Done()
				return "", ctx.Err()
			}},
			Concurrency: 2,
		}

		_, err := loader.LoadCorpus(ctx, "sitemap+"+site)

		require.ErrorIs(t, err, context.Canceled)
	})
}
