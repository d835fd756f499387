package cdpchat

import (
	"context"
	"strings"
)

// Answer is a span extracted from a passage.
// An empty Text means the passage held no answer.
type Answer struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// ExtractiveQA selects the best answer span for a question from a passage.
type ExtractiveQA interface {
	// Answer finds the answer to question in passage.
	// Finding nothing is not an error: implementations return an empty Answer.
	Answer(ctx context.Context, question, passage string) (Answer, error)
}

// AnswerResult is the outcome of asking one platform's corpus a question.
type AnswerResult struct {
	Platform Platform
	Answer   string
	Err      error
}

// Found reports whether the result carries a usable answer.
func (r AnswerResult) Found() bool {
	return r.Err == nil && strings.TrimSpace(r.Answer) != ""
}

// Responder turns a user's line of input into the assistant's reply.
type Responder interface {
	Respond(ctx context.Context, question string) string
}

// Limiter paces calls to a rate-limited backend. *rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}
