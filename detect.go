package cdpchat

import "strings"

// Detect returns the store platforms whose names appear in the question.
//
// Matching is a case-insensitive substring test with no regard for word
// boundaries, so a name embedded in a longer token still matches.
// Results follow store order, not relevance.
func (s *KnowledgeStore) Detect(question string) []Platform {
	q := strings.ToLower(question)
	var found []Platform
	for _, p := range s.Platforms() {
		if strings.Contains(q, platformKey(p)) {
			found = append(found, p)
		}
	}
	return found
}

// DetectFirst returns the first platform Detect would report.
// Later matches are ignored.
func (s *KnowledgeStore) DetectFirst(question string) (Platform, bool) {
	q := strings.ToLower(question)
	for _, p := range s.Platforms() {
		if strings.Contains(q, platformKey(p)) {
			return p, true
		}
	}
	return "", false
}

// JoinPlatforms renders platform names as an English list:
// "A", "A or B", "A, B, or C". An empty list reads "the supported platforms".
func JoinPlatforms(platforms []Platform) string {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}
	switch len(names) {
	case 0:
		return "the supported platforms"
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}
