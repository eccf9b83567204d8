package intent

import (
	"strings"
)

// DefaultCategory is assigned when no keyword matches.
const DefaultCategory = "general"

// CategoryMatcher assigns an expense category based on keyword lists,
// typically loaded from the expense_categories table.
type CategoryMatcher struct {
	// keyword -> category name, lowercased
	keywords map[string]string
	// insertion order of categories, for deterministic defaults
	names []string
}

// NewCategoryMatcher builds a matcher from category name -> keyword list.
func NewCategoryMatcher(categories map[string][]string) *CategoryMatcher {
	m := &CategoryMatcher{keywords: make(map[string]string)}
	for name, words := range categories {
		m.names = append(m.names, name)
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			m.keywords[w] = name
		}
	}
	return m
}

// DefaultCategories returns the seed keyword sets used when the
// expense_categories table is empty.
func DefaultCategories() map[string][]string {
	return map[string][]string{
		"materials": {"cement", "sand", "ballast", "steel", "timber", "bricks", "blocks", "tiles", "paint", "nails", "iron", "gravel", "aggregate"},
		"labor":     {"fundi", "mason", "labour", "labor", "wages", "workers", "plumber", "electrician", "carpenter"},
		"transport": {"transport", "fuel", "delivery", "lorry", "truck", "boda"},
		"equipment": {"mixer", "scaffold", "tools", "hire", "rental", "generator"},
		"permits":   {"permit", "approval", "license", "fees", "council"},
	}
}

// Match returns the category whose keyword appears in the description, or
// DefaultCategory when nothing matches.
func (m *CategoryMatcher) Match(description string) string {
	if m == nil || description == "" {
		return DefaultCategory
	}
	for _, word := range strings.Fields(strings.ToLower(description)) {
		word = strings.Trim(word, ".,!?;:")
		if cat, ok := m.keywords[word]; ok {
			return cat
		}
	}
	return DefaultCategory
}
