package classifier

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

// DefaultCategory is suggested when nothing better is found.
const DefaultCategory = "general"

// Classifier suggests a category for a new book.
type Classifier interface {
	SuggestCategory(ctx context.Context, title, author string, known []string) string
}

type KeywordClassifier struct {
	keywords map[string][]string
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		keywords: map[string][]string{
			"novela":     {"novela", "novel", "cuento", "soledad", "amor"},
			"historia":   {"historia", "history", "guerra", "war", "imperio", "siglo"},
			"ciencia":    {"ciencia", "science", "física", "physics", "química", "biología", "universo"},
			"filosofía":  {"filosofía", "philosophy", "ética", "ensayo", "pensamiento"},
			"estudio":    {"apuntes", "curso", "lecture", "study", "examen", "manual"},
			"tecnología": {"programación", "programming", "software", "código", "code", "go"},
		},
	}
}

// SuggestCategory prefers a known category named in the title, then the
// first keyword match in alphabetical category order.
func (c *KeywordClassifier) SuggestCategory(ctx context.Context, title, author string, known []string) string {
	text := strings.ToLower(title + " " + author)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !(r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
	})

	for _, k := range known {
		if k != "" && strings.Contains(text, strings.ToLower(k)) {
			return k
		}
	}

	categories := make([]string, 0, len(c.keywords))
	for category := range c.keywords {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		for _, keyword := range c.keywords[category] {
			for _, w := range words {
				if w == keyword {
					return matchKnown(category, known)
				}
			}
		}
	}
	return matchKnown(DefaultCategory, known)
}

// matchKnown returns the known spelling of category when one exists.
func matchKnown(category string, known []string) string {
	for _, k := range known {
		if strings.EqualFold(k, category) {
			return k
		}
	}
	return category
}
