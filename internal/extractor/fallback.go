package extractor

import (
	"strings"

	"github.com/vedavani/astrology-ai/internal/astro"
	"github.com/vedavani/astrology-ai/internal/rule"
)

// strongKeywords are the astrological keywords that qualify a sentence for
// the keyword-only fallback when paired with at least one condition token.
var strongKeywords = []string{
	"lagna", "ascendant", "bhava", "dasha", "yoga", "nakshatra",
	"aspect", "conjunct", "exalt", "debilitat", "lord of",
}

// relaxedMatch accepts any pair drawn from {planet, house, sign,
// ascendant} without requiring a specific phrase shape.
func relaxedMatch(lex *astro.Lexicon, sentence string) (*Candidate, bool) {
	var cond rule.Conditions
	hits := 0

	for _, w := range strings.Fields(sentence) {
		_, core, _ := splitWordPunctuation(w)
		if cond.Planet == "" {
			if p, ok := lex.CanonicalPlanet(core); ok {
				cond.Planet = p
				hits++
				continue
			}
		}
		if cond.Sign == "" {
			if s, ok := lex.CanonicalSign(core); ok {
				cond.Sign = s
				hits++
				continue
			}
		}
		if cond.House == 0 {
			if h, ok := lex.HouseNumber(core); ok {
				cond.House = h
				hits++
			}
		}
	}

	lower := strings.ToLower(sentence)
	if strings.Contains(lower, "ascendant") || strings.Contains(lower, "lagna") {
		if cond.Sign != "" && cond.Ascendant == "" {
			cond.Ascendant = cond.Sign
			cond.Sign = ""
		}
	}

	if hits < 2 {
		return nil, false
	}

	return &Candidate{
		Conditions: cond,
		Method:     rule.MethodRelaxedFallback,
		Category:   rule.CategoryOther,
		Remainder:  sentence,
	}, true
}

// keywordOnlyMatch accepts a sentence containing a strong keyword plus at
// least one condition token.
func keywordOnlyMatch(lex *astro.Lexicon, sentence string) (*Candidate, bool) {
	lower := strings.ToLower(sentence)
	hasKeyword := false
	for _, kw := range strongKeywords {
		if strings.Contains(lower, kw) {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return nil, false
	}

	var cond rule.Conditions
	for _, w := range strings.Fields(sentence) {
		_, core, _ := splitWordPunctuation(w)
		if cond.Planet == "" {
			if p, ok := lex.CanonicalPlanet(core); ok {
				cond.Planet = p
				continue
			}
		}
		if cond.Sign == "" {
			if s, ok := lex.CanonicalSign(core); ok {
				cond.Sign = s
				continue
			}
		}
		if cond.House == 0 {
			if h, ok := lex.HouseNumber(core); ok {
				cond.House = h
			}
		}
	}

	if !cond.HasAnyOf() {
		return nil, false
	}

	return &Candidate{
		Conditions: cond,
		Method:     rule.MethodKeywordFallback,
		Category:   rule.CategoryOther,
		Remainder:  sentence,
	}, true
}

func splitWordPunctuation(w string) (lead, core, trail string) {
	start, end := 0, len(w)
	for start < end && !isAlnum(w[start]) {
		start++
	}
	for end > start && !isAlnum(w[end-1]) {
		end--
	}
	return w[:start], w[start:end], w[end:]
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
