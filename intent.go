package cdpchat

import "strings"

// Intent is the kind of answer a question asks for.
type Intent string

// Intent constants.
const (
	IntentIrrelevant Intent = "irrelevant"
	IntentCompare    Intent = "compare"
	IntentAdvanced   Intent = "advanced"
	IntentSingle     Intent = "single"
)

// IntentRule tags questions containing Keyword with Intent.
type IntentRule struct {
	Keyword string
	Intent  Intent
}

// DefaultIntentRules is the classification table in priority order.
// Off-topic keywords come first so they win over everything else.
var DefaultIntentRules = []IntentRule{
	{Keyword: "movie", Intent: IntentIrrelevant},
	{Keyword: "weather", Intent: IntentIrrelevant},
	{Keyword: "sports", Intent: IntentIrrelevant},
	{Keyword: "game", Intent: IntentIrrelevant},
	{Keyword: "compare", Intent: IntentCompare},
	{Keyword: "advanced", Intent: IntentAdvanced},
}

// ClassifyIntent classifies a question using DefaultIntentRules.
func ClassifyIntent(question string) Intent {
	return ClassifyIntentWith(DefaultIntentRules, question)
}

// ClassifyIntentWith returns the intent of the first rule whose keyword
// occurs in the question (case-insensitive substring match).
// Questions matching no rule are IntentSingle.
func ClassifyIntentWith(rules []IntentRule, question string) Intent {
	q := strings.ToLower(question)
	for _, r := range rules {
		if strings.Contains(q, strings.ToLower(r.Keyword)) {
			return r.Intent
		}
	}
	return IntentSingle
}
