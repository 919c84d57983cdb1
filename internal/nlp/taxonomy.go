// Package nlp turns unstructured expense text into structured drafts: it
// extracts a monetary amount, assigns a category from a fixed vocabulary,
// and derives a cleaned description. All functions are pure; the taxonomy is
// immutable once built.
package nlp

import (
	"fmt"
	"strings"
)

// Category pairs a vocabulary name with its lowercase trigger keywords.
type Category struct {
	Name     string
	Keywords []string
}

// Taxonomy is the ordered category vocabulary. Order is the classification
// priority: when two categories share an ambiguous keyword, the one declared
// first wins. That tie-break is part of the contract, not an accident of
// iteration order.
type Taxonomy struct {
	categories []Category
	fallback   string
}

// NewTaxonomy builds an immutable taxonomy. Keywords are lowercased and
// trimmed; empty names or keyword sets are rejected.
func NewTaxonomy(categories []Category, fallback string) (*Taxonomy, error) {
	if strings.TrimSpace(fallback) == "" {
		return nil, fmt.Errorf("taxonomy: empty fallback category")
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("taxonomy: no categories")
	}

	built := make([]Category, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("taxonomy: category with empty name")
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("taxonomy: duplicate category %q", name)
		}
		seen[name] = struct{}{}

		if len(c.Keywords) == 0 {
			return nil, fmt.Errorf("taxonomy: category %q has no keywords", name)
		}
		keywords := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("taxonomy: category %q has an empty keyword", name)
			}
			keywords = append(keywords, kw)
		}
		built = append(built, Category{Name: name, Keywords: keywords})
	}

	return &Taxonomy{categories: built, fallback: fallback}, nil
}

// Fallback returns the category assigned when no keyword matches.
func (t *Taxonomy) Fallback() string {
	return t.fallback
}

// Names returns the category names in priority order, fallback last.
func (t *Taxonomy) Names() []string {
	names := make([]string, 0, len(t.categories)+1)
	for _, c := range t.categories {
		names = append(names, c.Name)
	}
	return append(names, t.fallback)
}

// DefaultTaxonomy returns the built-in vocabulary: ten categories with
// "Other" as the fallback. Priority follows declaration order.
func DefaultTaxonomy() *Taxonomy {
	t, err := NewTaxonomy([]Category{
		{Name: "Food", Keywords: []string{"food", "eat", "lunch", "breakfast", "dinner", "biriyani", "pizza", "burger", "coffee"}},
		{Name: "Transport", Keywords: []string{"transport", "travel", "taxi", "bus", "metro", "fuel", "petrol"}},
		{Name: "Entertainment", Keywords: []string{"movie", "game", "show", "concert", "play", "entertainment"}},
		{Name: "Shopping", Keywords: []string{"shop", "buy", "clothes", "shoe", "gift", "shirt"}},
		{Name: "Utilities", Keywords: []string{"bill", "electricity", "water", "internet", "phone"}},
		{Name: "Health", Keywords: []string{"medicine", "doctor", "hospital", "health"}},
		{Name: "Education", Keywords: []string{"course", "book", "education", "training", "tuition"}},
		{Name: "Travel", Keywords: []string{"hotel", "flight", "vacation", "trip", "stay"}},
		{Name: "Work", Keywords: []string{"office", "work", "project", "meeting"}},
	}, "Other")
	if err != nil {
		// The built-in table is static; a construction error here is a bug.
		panic(err)
	}
	return t
}
