package extractor

import (
	"regexp"
	"strings"

	"github.com/vedavani/astrology-ai/internal/astro"
	"github.com/vedavani/astrology-ai/internal/rule"
)

var terminalPunct = regexp.MustCompile(`[.!?]`)

// extractEffect locates the first effect indicator in window (the text
// following a matched condition) and returns the phrase up to the next
// terminal punctuation. If no indicator is found, it derives a
// category-label effect from the dominant keyword class over the whole
// sentence.
func extractEffect(lex *astro.Lexicon, sentence, window string) (effect string, polarity rule.Polarity, found bool) {
	lowerWindow := strings.ToLower(window)
	bestIdx := -1
	bestIndicator := ""
	for _, ind := range lex.EffectWords.Indicators {
		if idx := strings.Index(lowerWindow, ind); idx >= 0 {
			if bestIdx == -1 || idx < bestIdx {
				bestIdx = idx
				bestIndicator = ind
			}
		}
	}
	if bestIdx >= 0 {
		rest := window[bestIdx+len(bestIndicator):]
		if loc := terminalPunct.FindStringIndex(rest); loc != nil {
			rest = rest[:loc[0]]
		}
		phrase := strings.TrimSpace(rest)
		phrase = strings.TrimLeft(phrase, " :,-")
		if phrase != "" {
			return phrase, inferPolarity(lex, sentence), true
		}
	}

	// No indicator, or empty phrase after it: derive a category label.
	category := lex.CategoryFor(sentence)
	if category == "" {
		return "", rule.PolarityNeutral, false
	}
	return category, inferPolarity(lex, sentence), true
}

// inferPolarity classifies the sentence using the closed positive/negative
// word lists, returning "mixed" when both fire and "neutral" when neither
// does.
func inferPolarity(lex *astro.Lexicon, sentence string) rule.Polarity {
	lower := strings.ToLower(sentence)
	pos, neg := false, false
	for _, w := range lex.EffectWords.Positive {
		if strings.Contains(lower, w) {
			pos = true
			break
		}
	}
	for _, w := range lex.EffectWords.Negative {
		if strings.Contains(lower, w) {
			neg = true
			break
		}
	}
	switch {
	case pos && neg:
		return rule.PolarityMixed
	case pos:
		return rule.PolarityPositive
	case neg:
		return rule.PolarityNegative
	default:
		return rule.PolarityNeutral
	}
}

// extractStrength looks for a strong/weak classical-strength word in the
// sentence and returns it for conditions.strength.
func extractStrength(lex *astro.Lexicon, sentence string) string {
	lower := strings.ToLower(sentence)
	for _, w := range lex.Strength.Strong {
		if strings.Contains(lower, w) {
			return "strong"
		}
	}
	for _, w := range lex.Strength.Weak {
		if strings.Contains(lower, w) {
			return "weak"
		}
	}
	return ""
}
