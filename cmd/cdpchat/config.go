package main

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/cdpchat"
	"github.com/fwojciec/cdpchat/corpus"
	"gopkg.in/yaml.v3"
)

// Config is the YAML platform file.
type Config struct {
	Platforms []cdpchat.CorpusSource `yaml:"platforms"`
}

// DefaultPlatforms are served when no config file lists platforms.
var DefaultPlatforms = []cdpchat.Platform{"Segment", "mParticle", "Lytics", "Zeotap"}

// DefaultSources points every default platform at {docsDir}/{name}.txt.
func DefaultSources(docsDir string) []cdpchat.CorpusSource {
	sources := make([]cdpchat.CorpusSource, 0, len(DefaultPlatforms))
	for _, p := range DefaultPlatforms {
		sources = append(sources, cdpchat.CorpusSource{
			Platform: p,
			Location: filepath.Join(docsDir, strings.ToLower(string(p))+".txt"),
		})
	}
	return sources
}

// LoadConfig reads a platform file. Relative file and database paths are
// resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cdpchat.Errorf(cdpchat.ENOTFOUND, "config file %s not found", path)
	} else if err != nil {
		return nil, cdpchat.Errorf(cdpchat.EINVALID, "reading config %s: %v", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, cdpchat.Errorf(cdpchat.EINVALID, "parsing config %s: %v", path, err)
	}

	dir := filepath.Dir(path)
	for i, src := range cfg.Platforms {
		if err := src.Validate(); err != nil {
			return nil, cdpchat.Errorf(cdpchat.EINVALID, "config %s, platform %d: %s", path, i+1, cdpchat.ErrorMessage(err))
		}
		cfg.Platforms[i].Location = resolveLocation(dir, src.Location)
	}
	return &cfg, nil
}

func resolveLocation(dir, location string) string {
	loc, err := corpus.ParseLocation(location)
	if err != nil {
		return location
	}

	switch loc.Kind {
	case corpus.KindFile:
		if !filepath.IsAbs(loc.Target) {
			return filepath.Join(dir, loc.Target)
		}
	case corpus.KindDatabase:
		path, query, hasQuery := strings.Cut(strings.TrimPrefix(loc.Target, corpus.DatabasePrefix), "?")
		if path != "" && !filepath.IsAbs(path) {
			resolved := corpus.DatabasePrefix + filepath.Join(dir, path)
			if hasQuery {
				resolved += "?" + query
			}
			return resolved
		}
	}
	return location
}

// ParsePlatformFlag splits a NAME=LOCATION flag value.
func ParsePlatformFlag(value string) (cdpchat.CorpusSource, error) {
	name, location, ok := strings.Cut(value, "=")
	src := cdpchat.CorpusSource{
		Platform: cdpchat.Platform(strings.TrimSpace(name)),
		Location: strings.TrimSpace(location),
	}
	if !ok {
		return src, cdpchat.Errorf(cdpchat.EINVALID, "platform flag %q must be NAME=LOCATION", value)
	}
	if err := src.Validate(); err != nil {
		return src, err
	}
	return src, nil
}

// ResolveSources merges the platform sources. A config file that lists
// platforms replaces the defaults; each --platform flag then replaces the
// source of the same platform or adds a new one.
func ResolveSources(defaults []cdpchat.CorpusSource, cfg *Config, flags []string) ([]cdpchat.CorpusSource, error) {
	sources := defaults
	if cfg != nil && len(cfg.Platforms) > 0 {
		sources = cfg.Platforms
	}
	sources = append([]cdpchat.CorpusSource(nil), sources...)

	for _, value := range flags {
		src, err := ParsePlatformFlag(value)
		if err != nil {
			return nil, err
		}
		replaced := false
		for i := range sources {
			if strings.EqualFold(string(sources[i].Platform), string(src.Platform)) {
				sources[i] = src
				replaced = true
				break
			}
		}
		if !replaced {
			sources = append(sources, src)
		}
	}
	return sources, nil
}
