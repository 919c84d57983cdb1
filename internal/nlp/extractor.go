package nlp

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"expensebot/internal/core"
)

// Spending-intent keywords. A numeric token immediately after one of these
// is preferred over earlier tokens in the text.
var intentKeywords = map[string]struct{}{
	"spent": {},
	"paid":  {},
	"for":   {},
	"on":    {},
}

// amountPattern matches digit runs with optional embedded separators, e.g.
// "150", "1,500", "12.50", "1,500.50". Leading currency symbols stay outside
// the match.
var amountPattern = regexp.MustCompile(`[0-9]+(?:[.,][0-9]+)*`)

type amountToken struct {
	raw   string
	value decimal.Decimal
	start int
	end   int
}

// ExtractAmount pulls a positive monetary value out of free text.
//
// Candidates are numeric tokens; when several exist, the first one directly
// following a spending-intent keyword wins, otherwise the first token in the
// text does. A lone number with no context still parses; terse messages like
// "150 on transport" are common. Text with no usable positive number fails
// with core.ErrNoAmountFound.
func ExtractAmount(text string) (decimal.Decimal, error) {
	tok, ok := findAmountToken(text)
	if !ok {
		return decimal.Decimal{}, core.ErrNoAmountFound
	}
	return tok.value, nil
}

func findAmountToken(text string) (amountToken, bool) {
	locs := amountPattern.FindAllStringIndex(text, -1)
	candidates := make([]amountToken, 0, len(locs))
	for _, loc := range locs {
		raw := text[loc[0]:loc[1]]
		value, ok := parseAmount(raw)
		if !ok || !value.IsPositive() {
			continue
		}
		candidates = append(candidates, amountToken{raw: raw, value: value, start: loc[0], end: loc[1]})
	}
	if len(candidates) == 0 {
		return amountToken{}, false
	}

	for _, c := range candidates {
		if followsIntentKeyword(text, c.start) {
			return c, true
		}
	}
	return candidates[0], true
}

// followsIntentKeyword reports whether the word immediately before the token
// at start is a spending-intent keyword. Whitespace, punctuation, and
// currency symbols between the keyword and the number are skipped; an
// intervening number or other word breaks adjacency.
func followsIntentKeyword(text string, start int) bool {
	before := []rune(text[:start])
	i := len(before) - 1
	for i >= 0 && !unicode.IsLetter(before[i]) && !unicode.IsDigit(before[i]) {
		i--
	}
	if i < 0 || unicode.IsDigit(before[i]) {
		return false
	}
	end := i + 1
	for i >= 0 && unicode.IsLetter(before[i]) {
		i--
	}
	word := strings.ToLower(string(before[i+1 : end]))
	_, ok := intentKeywords[word]
	return ok
}

// parseAmount normalizes a raw numeric token and parses it as a decimal.
// Comma groups of exactly three digits read as thousands separators
// ("1,500"); a single comma group of another width reads as a decimal comma
// ("12,34"). Tokens that fit neither shape are rejected.
func parseAmount(raw string) (decimal.Decimal, bool) {
	dots := strings.Count(raw, ".")
	commas := strings.Count(raw, ",")

	var normalized string
	switch {
	case dots == 0 && commas == 0:
		normalized = raw
	case commas == 0:
		if dots > 1 {
			return decimal.Decimal{}, false
		}
		normalized = raw
	case dots == 0:
		if isGrouped(raw, ",") {
			normalized = strings.ReplaceAll(raw, ",", "")
		} else if commas == 1 {
			normalized = strings.Replace(raw, ",", ".", 1)
		} else {
			return decimal.Decimal{}, false
		}
	default:
		// Both separators present: the last one is the decimal point.
		if strings.LastIndex(raw, ".") > strings.LastIndex(raw, ",") {
			if dots != 1 || !isGrouped(raw[:strings.Index(raw, ".")], ",") {
				return decimal.Decimal{}, false
			}
			normalized = strings.ReplaceAll(raw, ",", "")
		} else {
			if commas != 1 || !isGrouped(raw[:strings.Index(raw, ",")], ".") {
				return decimal.Decimal{}, false
			}
			normalized = strings.Replace(strings.ReplaceAll(raw, ".", ""), ",", ".", 1)
		}
	}

	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}

// isGrouped reports whether s is digit groups joined by sep where every group
// after the first has exactly three digits, i.e. a thousands-separated run.
func isGrouped(s, sep string) bool {
	groups := strings.Split(s, sep)
	if len(groups) < 2 {
		return false
	}
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}
