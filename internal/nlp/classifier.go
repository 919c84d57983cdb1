package nlp

import "strings"

// Classify assigns a category to free text by case-insensitive keyword
// containment. Categories are tried in taxonomy priority order and the first
// hit wins; text matching nothing gets the fallback. Classify is total and
// never fails.
func (t *Taxonomy) Classify(text string) string {
	lowered := strings.ToLower(text)
	for _, c := range t.categories {
		for _, kw := range c.Keywords {
			if strings.Contains(lowered, kw) {
				return c.Name
			}
		}
	}
	return t.fallback
}
