package main_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/cdpchat"
	main "github.com/fwojciec/cdpchat/cmd/cdpchat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSources(t *testing.T) {
	t.Parallel()

	sources := main.DefaultSources("corpora")

	assert.Equal(t, []cdpchat.CorpusSource{
		{Platform: "Segment", Location: filepath.Join("corpora", "segment.txt")},
		{Platform: "mParticle", Location: filepath.Join("corpora", "mparticle.txt")},
		{Platform: "Lytics", Location: filepath.Join("corpora", "lytics.txt")},
		{Platform: "Zeotap", Location: filepath.Join("corpora", "zeotap.txt")},
	}, sources)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "platforms.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("reads platforms in order", func(t *testing.T) {
		t.Parallel()

		path := write(t, `platforms:
  - name: Segment
    location: corpora/segment.md
  - name: Lytics
    location: sitemap+https://docs.lytics.com/docs/
  - name: RudderStack
    location: /srv/docs/rudderstack.txt
`)

		cfg, err := main.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, []cdpchat.CorpusSource{
			{Platform: "Segment", Location: filepath.Join(filepath.Dir(path), "corpora", "segment.md")},
			{Platform: "Lytics", Location: "sitemap+https://docs.lytics.com/docs/"},
			{Platform: "RudderStack", Location: "/srv/docs/rudderstack.txt"},
		}, cfg.Platforms)
	})

	t.Run("resolves relative database paths against the config directory", func(t *testing.T) {
		t.Parallel()

		path := write(t, `platforms:
  - name: Segment
    location: sqlite:data/locdoc.db?project=segment
  - name: Zeotap
    location: sqlite:data/zeotap.db
  - name: Lytics
    location: sqlite:/srv/locdoc.db?project=lytics
`)

		cfg, err := main.LoadConfig(path)

		require.NoError(t, err)
		dir := filepath.Dir(path)
		assert.Equal(t, []cdpchat.CorpusSource{
			{Platform: "Segment", Location: "sqlite:" + filepath.Join(dir, "data", "locdoc.db") + "?project=segment"},
			{Platform: "Zeotap", Location: "sqlite:" + filepath.Join(dir, "data", "zeotap.db")},
			{Platform: "Lytics", Location: "sqlite:/srv/locdoc.db?project=lytics"},
		}, cfg.Platforms)
	})

	t.Run("accepts an empty file", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.LoadConfig(write(t, ""))

		require.NoError(t, err)
		assert.Empty(t, cfg.Platforms)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(write(t, "platforms:\n  - name: Segment\n    path: docs/segment.txt\n"))

		require.Error(t, err)
		assert.Equal(t, cdpchat.EINVALID, cdpchat.ErrorCode(err))
	})

	t.Run("rejects platforms without a location", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(write(t, "platforms:\n  - name: Segment\n"))

		require.Error(t, err)
		assert.Equal(t, cdpchat.EINVALID, cdpchat.ErrorCode(err))
	})

	t.Run("reports a missing file as not found", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		require.Error(t, err)
		assert.Equal(t, cdpchat.ENOTFOUND, cdpchat.ErrorCode(err))
	})
}

func TestParsePlatformFlag(t *testing.T) {
	t.Parallel()

	t.Run("splits name and location at the first equals sign", func(t *testing.T) {
		t.Parallel()

		src, err := main.ParsePlatformFlag("Segment=sqlite:locdoc.db?project=segment")

		require.NoError(t, err)
		assert.Equal(t, cdpchat.CorpusSource{Platform: "Segment", Location: "sqlite:locdoc.db?project=segment"}, src)
	})

	for _, value := range []string{"Segment", "=docs/segment.txt", "Segment="} {
		t.Run("rejects "+value, func(t *testing.T) {
			t.Parallel()

			_, err := main.ParsePlatformFlag(value)

			require.Error(t, err)
			assert.Equal(t, cdpchat.EINVALID, cdpchat.ErrorCode(err))
		})
	}
}

func TestResolveSources(t *testing.T) {
	t.Parallel()

	defaults := []cdpchat.CorpusSource{
		{Platform: "Segment", Location: "docs/segment.txt"},
		{Platform: "Lytics", Location: "docs/lytics.txt"},
	}

	t.Run("uses defaults without config or flags", func(t *testing.T) {
		t.Parallel()

		sources, err := main.ResolveSources(defaults, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, defaults, sources)
	})

	t.Run("config platforms replace the defaults", func(t *testing.T) {
		t.Parallel()

		cfg := &main.Config{Platforms: []cdpchat.CorpusSource{{Platform: "Zeotap", Location: "z.txt"}}}

		sources, err := main.ResolveSources(defaults, cfg, nil)

		require.NoError(t, err)
		assert.Equal(t, cfg.Platforms, sources)
	})

	t.Run("flags override by name and append new platforms", func(t *testing.T) {
		t.Parallel()

		sources, err := main.ResolveSources(defaults, nil, []string{"segment=other/segment.md", "mParticle=docs/mparticle.txt"})

		require.NoError(t, err)
		assert.Equal(t, []cdpchat.CorpusSource{
			{Platform: "segment", Location: "other/segment.md"},
			{Platform: "Lytics", Location: "docs/lytics.txt"},
			{Platform: "mParticle", Location: "docs/mparticle.txt"},
		}, sources)
		assert.Equal(t, "docs/segment.txt", defaults[0].Location)
	})

	t.Run("rejects malformed flags", func(t *testing.T) {
		t.Parallel()

		_, err := main.ResolveSources(defaults, nil, []string{"Segment"})

		require.Error(t, err)
	})
}
