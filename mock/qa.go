package mock

import (
	"context"

	"github.com/fwojciec/cdpchat"
)

var _ cdpchat.ExtractiveQA = (*QA)(nil)

// QA is a mock implementation of cdpchat.ExtractiveQA.
type QA struct {
	AnswerFn func(ctx context.Context, question, passage string) (cdpchat.Answer, error)
}

func (q *QA) Answer(ctx context.Context, question, passage string) (cdpchat.Answer, error) {
	return q.AnswerFn(ctx, question, passage)
}

var _ cdpchat.Responder = (*Responder)(nil)

// Responder is a mock implementation of cdpchat.Responder.
type Responder struct {
	RespondFn func(ctx context.Context, question string) string
}

func (r *Responder) Respond(ctx context.Context, question string) string {
	return r.RespondFn(ctx, question)
}
