package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/cdpchat"
)

// Ensure LoggingCorpusLoader implements cdpchat.CorpusLoader.
var _ cdpchat.CorpusLoader = (*LoggingCorpusLoader)(nil)

// LoggingCorpusLoader wraps a CorpusLoader with one log line per load.
type LoggingCorpusLoader struct {
	next   cdpchat.CorpusLoader
	logger *slog.Logger
}

// NewLoggingCorpusLoader creates a new LoggingCorpusLoader.
func NewLoggingCorpusLoader(next cdpchat.CorpusLoader, logger *slog.Logger) *LoggingCorpusLoader {
	return &LoggingCorpusLoader{next: next, logger: logger}
}

// LoadCorpus logs the location being loaded and delegates to the wrapped loader.
func (l *LoggingCorpusLoader) LoadCorpus(ctx context.Context, location string) (text string, err error) {
	defer func(begin time.Time) {
		l.logger.Info("load corpus",
			"location", location,
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.LoadCorpus(ctx, location)
}
