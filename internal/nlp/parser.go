package nlp

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"expensebot/internal/core"
)

// Parser is the single normalization point for every input channel. Typed
// text, OCR output, and speech transcripts all go through Parse once the
// caller has turned them into plain text.
type Parser struct {
	taxonomy *Taxonomy
}

func NewParser(taxonomy *Taxonomy) *Parser {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	return &Parser{taxonomy: taxonomy}
}

// Taxonomy returns the vocabulary the parser classifies against.
func (p *Parser) Taxonomy() *Taxonomy {
	return p.taxonomy
}

// Parse turns free text into a draft expense record. The caller fills in
// Timestamp, Source, and any payment metadata.
//
// Classification always runs over the full text, but no record is produced
// without an extractable positive amount: extraction failure propagates as
// core.ErrNoAmountFound even when a category matched confidently.
func (p *Parser) Parse(text string) (core.ExpenseRecord, error) {
	category := p.taxonomy.Classify(text)

	tok, ok := findAmountToken(text)
	if !ok {
		return core.ExpenseRecord{}, fmt.Errorf("parse expense: %w", core.ErrNoAmountFound)
	}

	return core.ExpenseRecord{
		Amount:      tok.value,
		Category:    category,
		Description: cleanDescription(text, tok),
	}, nil
}

// cleanDescription removes the recognized amount token (and any currency
// symbol stuck to it) from the text and collapses the remaining whitespace.
func cleanDescription(text string, tok amountToken) string {
	start := tok.start
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !unicode.Is(unicode.Sc, r) {
			break
		}
		start -= size
	}
	cleaned := text[:start] + " " + text[tok.end:]
	return strings.Join(strings.Fields(cleaned), " ")
}
