// Package slog provides log/slog decorators for cdpchat services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/cdpchat"
)

// Ensure LoggingQA implements cdpchat.ExtractiveQA.
var _ cdpchat.ExtractiveQA = (*LoggingQA)(nil)

// LoggingQA wraps an ExtractiveQA with one log line per call.
type LoggingQA struct {
	next   cdpchat.ExtractiveQA
	logger *slog.Logger
}

// NewLoggingQA creates a new LoggingQA.
func NewLoggingQA(next cdpchat.ExtractiveQA, logger *slog.Logger) *LoggingQA {
	return &LoggingQA{next: next, logger: logger}
}

// Answer logs the call and delegates to the wrapped backend.
func (q *LoggingQA) Answer(ctx context.Context, question, passage string) (answer cdpchat.Answer, err error) {
	defer func(begin time.Time) {
		q.logger.Info("qa",
			"question_bytes", len(question),
			"passage_bytes", len(passage),
			"answer_bytes", len(answer.Text),
			"found", answer.Text != "",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return q.next.Answer(ctx, question, passage)
}
