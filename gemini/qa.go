// Package gemini answers questions with Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/cdpchat"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure QA implements cdpchat.ExtractiveQA at compile time.
var _ cdpchat.ExtractiveQA = (*QA)(nil)

// QA asks Gemini to quote the passage text that answers a question.
// Answers that are not a span of the passage are discarded.
type QA struct {
	client *genai.Client
	model  string
}

// NewQA creates a new QA. An empty model selects DefaultModel.
func NewQA(client *genai.Client, model string) *QA {
	if model == "" {
		model = DefaultModel
	}
	return &QA{client: client, model: model}
}

// Model returns the Gemini model used for answers.
func (q *QA) Model() string {
	return q.model
}

// Answer returns the span of passage that answers question. An empty
// Answer means the passage does not contain one.
func (q *QA) Answer(ctx context.Context, question, passage string) (cdpchat.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return cdpchat.Answer{}, cdpchat.Errorf(cdpchat.EINVALID, "question required")
	}
	if strings.TrimSpace(passage) == "" {
		return cdpchat.Answer{}, nil
	}

	result, err := q.client.Models.GenerateContent(ctx, q.model,
		genai.Text(BuildUserPrompt(question, passage)),
		BuildConfig(),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return cdpchat.Answer{}, cdpchat.Errorf(cdpchat.EUNAVAILABLE, "gemini: %v", err)
	}
	if result == nil {
		return cdpchat.Answer{}, cdpchat.Errorf(cdpchat.EINTERNAL, "gemini returned nil result")
	}

	return ParseAnswer(result.Text(), passage)
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
// Responses are constrained to {"answer": string}.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You extract answers from customer data platform documentation. " +
					"Reply with the shortest contiguous passage excerpt that answers the question, copied exactly. " +
					"If the passage does not answer the question, reply with an empty answer.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"answer": {
					Type:        genai.TypeString,
					Description: "Exact excerpt of the passage, or empty.",
				},
			},
			Required: []string{"answer"},
		},
	}
}

// BuildUserPrompt builds the user prompt containing the passage and question.
func BuildUserPrompt(question, passage string) string {
	var sb strings.Builder
	sb.WriteString("<passage>\n")
	sb.WriteString(passage)
	sb.WriteString("\n</passage>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}

type response struct {
	Answer string `json:"answer"`
}

// ParseAnswer decodes a model response and locates the answer in passage.
// The returned text is the passage's own spelling of the span.
func ParseAnswer(raw, passage string) (cdpchat.Answer, error) {
	var resp response
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &resp); err != nil {
		return cdpchat.Answer{}, cdpchat.Errorf(cdpchat.EINTERNAL, "decoding gemini response: %v", err)
	}

	text := strings.TrimSpace(resp.Answer)
	if text == "" {
		return cdpchat.Answer{}, nil
	}

	start := strings.Index(passage, text)
	if start < 0 {
		lower := strings.ToLower(passage)
		// Byte offsets only carry over when lowering keeps lengths.
		if len(lower) == len(passage) {
			start = strings.Index(lower, strings.ToLower(text))
		}
	}
	if start < 0 {
		return cdpchat.Answer{}, nil
	}

	end := start + len(text)
	return cdpchat.Answer{Text: passage[start:end], Start: start, End: end}, nil
}
