package nlp

import (
	"math/rand"
	"strings"
	"testing"
)

func TestTaxonomy_Classify(t *testing.T) {
	taxonomy := DefaultTaxonomy()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "food keyword", text: "Spent 150 for biriyani", want: "Food"},
		{name: "case insensitive", text: "BIRIYANI NIGHT", want: "Food"},
		{name: "transport keyword", text: "50 on transport", want: "Transport"},
		{name: "entertainment keyword", text: "200 for movie", want: "Entertainment"},
		{name: "utilities keyword", text: "paid the electricity bill", want: "Utilities"},
		{name: "health keyword", text: "medicine from the pharmacy", want: "Health"},
		{name: "no keyword match", text: "xyz unrelated text", want: "Other"},
		{name: "empty text", text: "", want: "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := taxonomy.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// An ambiguous keyword must resolve by table position, not by specificity.
func TestTaxonomy_Classify_PriorityOrder(t *testing.T) {
	ab, err := NewTaxonomy([]Category{
		{Name: "Alpha", Keywords: []string{"bill"}},
		{Name: "Beta", Keywords: []string{"bill", "invoice"}},
	}, "Other")
	if err != nil {
		t.Fatalf("NewTaxonomy: %v", err)
	}
	ba, err := NewTaxonomy([]Category{
		{Name: "Beta", Keywords: []string{"bill", "invoice"}},
		{Name: "Alpha", Keywords: []string{"bill"}},
	}, "Other")
	if err != nil {
		t.Fatalf("NewTaxonomy: %v", err)
	}

	if got := ab.Classify("phone bill"); got != "Alpha" {
		t.Errorf("alpha-first taxonomy: Classify = %q, want Alpha", got)
	}
	if got := ba.Classify("phone bill"); got != "Beta" {
		t.Errorf("beta-first taxonomy: Classify = %q, want Beta", got)
	}
}

func TestNewTaxonomy_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
		fallback   string
	}{
		{name: "empty fallback", categories: []Category{{Name: "A", Keywords: []string{"a"}}}, fallback: " "},
		{name: "no categories", categories: nil, fallback: "Other"},
		{name: "empty category name", categories: []Category{{Name: "", Keywords: []string{"a"}}}, fallback: "Other"},
		{name: "duplicate category", categories: []Category{{Name: "A", Keywords: []string{"a"}}, {Name: "A", Keywords: []string{"b"}}}, fallback: "Other"},
		{name: "no keywords", categories: []Category{{Name: "A"}}, fallback: "Other"},
		{name: "blank keyword", categories: []Category{{Name: "A", Keywords: []string{" "}}}, fallback: "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTaxonomy(tt.categories, tt.fallback); err == nil {
				t.Error("NewTaxonomy() error = nil, want error")
			}
		})
	}
}

// Classification is a pure function: identical inputs must yield identical
// results across repeated calls, including over randomized text.
func TestTaxonomy_Classify_Idempotent(t *testing.T) {
	taxonomy := DefaultTaxonomy()
	rng := rand.New(rand.NewSource(42))
	words := []string{"spent", "biriyani", "taxi", "xyz", "BILL", "🍕", "150", "movie", "", "paid"}

	for i := 0; i < 200; i++ {
		n := rng.Intn(6)
		parts := make([]string, n)
		for j := range parts {
			parts[j] = words[rng.Intn(len(words))]
		}
		text := strings.Join(parts, " ")

		first := taxonomy.Classify(text)
		second := taxonomy.Classify(text)
		if first != second {
			t.Fatalf("Classify(%q) not idempotent: %q then %q", text, first, second)
		}
	}
}
