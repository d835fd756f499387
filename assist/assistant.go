// Package assist answers user questions by routing them to the right
// platform corpora and combining the extractive answers into a reply.
package assist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/cdpchat"
	"golang.org/x/sync/errgroup"
)

// Ensure Assistant implements cdpchat.Responder at compile time.
var _ cdpchat.Responder = (*Assistant)(nil)

// Reply texts.
const (
	NoAnswerText        = "No answer found."
	InsufficientText    = "Please specify at least two platforms for comparison."
	SingleAnswerPrefix  = "Here is what I found for your question: "
	ComparisonHeader    = "Here is the comparison:\n"
	AdvancedHeader      = "Here is the advanced guidance:\n"
	processingErrorText = "I'm sorry, I couldn't process your question due to an error: "
)

// Assistant answers questions against a knowledge store.
type Assistant struct {
	Store *cdpchat.KnowledgeStore
	QA    cdpchat.ExtractiveQA

	// Limiter, if set, is waited on before every QA call.
	Limiter cdpchat.Limiter

	// Timeout bounds a single QA call. Zero means no timeout.
	Timeout time.Duration

	// Concurrency is the number of QA calls a multi-platform question may
	// run at once. Values below 2 run them one after another.
	Concurrency int
}

// Respond classifies the question and dispatches it to the matching answer
// strategy. It always returns a reply; failures become part of the text.
func (a *Assistant) Respond(ctx context.Context, question string) string {
	switch cdpchat.ClassifyIntent(question) {
	case cdpchat.IntentIrrelevant:
		return IrrelevantText(a.Store.Platforms())
	case cdpchat.IntentCompare:
		return a.Compare(ctx, question)
	case cdpchat.IntentAdvanced:
		return a.Advanced(ctx, question)
	default:
		return a.AnswerSingle(ctx, question)
	}
}

// AnswerSingle answers from the corpus of the first platform named in the
// question.
func (a *Assistant) AnswerSingle(ctx context.Context, question string) string {
	platform, ok := a.Store.DetectFirst(question)
	if !ok {
		return UnresolvedText(a.Store.Platforms())
	}

	r := a.askAll(ctx, question, []cdpchat.Platform{platform})[0]
	if r.Err != nil {
		return processingErrorText + cdpchat.ErrorMessage(r.Err)
	}
	return SingleAnswerPrefix + answerText(r)
}

// Compare answers the question once per platform it names and lists the
// answers side by side. At least two platforms must be named.
// A platform whose lookup fails gets an inline error; the others still answer.
func (a *Assistant) Compare(ctx context.Context, question string) string {
	platforms := a.Store.Detect(question)
	if len(platforms) < 2 {
		return InsufficientText
	}

	results := a.askAll(ctx, question, platforms)
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		text := answerText(r)
		if r.Err != nil {
			text = fmt.Sprintf("Error processing information for %s: %s", r.Platform, cdpchat.ErrorMessage(r.Err))
		}
		blocks = append(blocks, string(r.Platform)+": "+text)
	}
	return ComparisonHeader + strings.Join(blocks, "\n\n")
}

// Advanced asks every platform in the store, whatever the question names,
// and lists the platforms that produced an answer. Any failed lookup turns
// the whole reply into an error message.
func (a *Assistant) Advanced(ctx context.Context, question string) string {
	results := a.askAll(ctx, question, a.Store.Platforms())

	blocks := make([]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			return processingErrorText + cdpchat.ErrorMessage(r.Err)
		}
		if !r.Found() {
			continue
		}
		blocks = append(blocks, string(r.Platform)+": "+r.Answer)
	}
	return AdvancedHeader + strings.Join(blocks, "\n\n")
}

// askAll queries each platform's corpus. Results are indexed like platforms
// regardless of completion order, and each call keeps its own error.
func (a *Assistant) askAll(ctx context.Context, question string, platforms []cdpchat.Platform) []cdpchat.AnswerResult {
	results := make([]cdpchat.AnswerResult, len(platforms))

	if a.Concurrency < 2 || len(platforms) < 2 {
		for i, p := range platforms {
			results[i] = a.ask(ctx, question, p)
		}
		return results
	}

	// Plain group: a failed call must not cancel its siblings.
	var g errgroup.Group
	g.SetLimit(a.Concurrency)
	for i, p := range platforms {
		g.Go(func() error {
			results[i] = a.ask(ctx, question, p)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (a *Assistant) ask(ctx context.Context, question string, platform cdpchat.Platform) cdpchat.AnswerResult {
	result := cdpchat.AnswerResult{Platform: platform}

	corpus, ok := a.Store.Corpus(platform)
	if !ok {
		result.Err = cdpchat.Errorf(cdpchat.ENOTFOUND, "no documentation loaded for %s", platform)
		return result
	}

	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	if a.Limiter != nil {
		if err := a.Limiter.Wait(ctx); err != nil {
			result.Err = err
			return result
		}
	}

	answer, err := a.QA.Answer(ctx, question, corpus.Text)
	if err != nil {
		result.Err = err
		return result
	}
	result.Answer = strings.TrimSpace(answer.Text)
	return result
}

func answerText(r cdpchat.AnswerResult) string {
	if !r.Found() {
		return NoAnswerText
	}
	return r.Answer
}

// IrrelevantText is the reply to off-topic questions.
func IrrelevantText(platforms []cdpchat.Platform) string {
	return "I am here to answer questions about " + cdpchat.JoinPlatforms(platforms) + ". Please ask relevant questions."
}

// UnresolvedText is the reply when a question names no known platform.
func UnresolvedText(platforms []cdpchat.Platform) string {
	return "I couldn't determine the platform you're asking about. Please specify " + cdpchat.JoinPlatforms(platforms) + "."
}
