package domain

import "strings"

// ContextSeparator joins chunk contents in a retrieval context, keeping
// paragraph boundaries for the downstream model.
const ContextSeparator = "\n\n"

// Source is the provenance of one chunk in a retrieval result.
type Source struct {
	// Category is the chunk category.
	Category Category `json:"category"`

	// Similarity is the raw cosine score, not formatted for display.
	Similarity float64 `json:"similarity"`

	// Preview is a bounded prefix of the chunk content.
	Preview string `json:"preview"`
}

// RetrievalResult is the answer to one query.
type RetrievalResult struct {
	// Context holds the surviving chunk contents in descending similarity.
	Context string `json:"context"`

	// Categories lists the surviving chunk categories in rank order.
	Categories []Category `json:"categories"`

	// Sources lists provenance in rank order. Empty on fallback.
	Sources []Source `json:"sources"`

	// Fallback is true when the result is the generic profile summary.
	Fallback bool `json:"fallback"`
}

// FallbackResult builds the generic profile result returned when retrieval
// has nothing relevant or fails.
func FallbackResult(p Personal) RetrievalResult {
	return RetrievalResult{
		Context:    FallbackContext(p),
		Categories: []Category{CategoryPersonal},
		Sources:    []Source{},
		Fallback:   true,
	}
}

// FallbackContext is "<name> es <title>. <summary>", dropping empty parts.
func FallbackContext(p Personal) string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Title != "" {
		b.WriteString(" es ")
		b.WriteString(strings.TrimSuffix(p.Title, "."))
	}
	b.WriteString(".")
	if summary := strings.TrimSpace(p.Summary); summary != "" {
		b.WriteString(" ")
		b.WriteString(summary)
	}
	return b.String()
}

// BriefContext is the short "<name>, <title>" context used for greetings.
func BriefContext(p Personal) string {
	if p.Title == "" {
		return p.Name
	}
	return p.Name + ", " + p.Title
}

var greetingPrefixes = []string{"hola", "hi", "hey", "buenas", "saludos"}

// IsGreeting reports whether a query opens with a greeting and carries no
// question, so it can be answered without retrieval.
func IsGreeting(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || strings.ContainsAny(q, "?¿") {
		return false
	}
	q = strings.Trim(q, "!¡.,")
	for _, prefix := range greetingPrefixes {
		if q == prefix {
			return true
		}
		if rest, ok := strings.CutPrefix(q, prefix); ok && len(strings.Fields(rest)) <= 2 &&
			(rest[0] == ' ' || rest[0] == ',' || rest[0] == '!') {
			return true
		}
	}
	return false
}

// Preview returns at most n runes of content.
func Preview(content string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range content {
		if count == n {
			return content[:i]
		}
		count++
	}
	return content
}
