package cdpchat

import "strings"

// FormatDocuments assembles documents into a single corpus text.
// A lone document is returned as-is; several documents each get a heading
// (title, falling back to source) and are separated by blank lines.
func FormatDocuments(docs []*Document) string {
	switch len(docs) {
	case 0:
		return ""
	case 1:
		return docs[0].Content
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		header := doc.Title
		if header == "" {
			header = doc.Source
		}
		parts = append(parts, "## "+header+"\n"+doc.Content)
	}

	return strings.Join(parts, "\n\n")
}
