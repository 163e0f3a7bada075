package extractor

import (
	"strings"

	"github.com/vedavani/astrology-ai/internal/astro"
	"github.com/vedavani/astrology-ai/internal/rule"
)

// DefaultMinConfidence is the caller-supplied floor below which candidates
// are discarded.
const DefaultMinConfidence = 0.1

// Extractor applies the ordered pattern battery and fallback chain to
// produce candidate rules from relevance-filtered sentences.
type Extractor struct {
	lex          *astro.Lexicon
	battery      *Battery
	minConfidence float64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMinConfidence overrides DefaultMinConfidence.
func WithMinConfidence(min float64) Option {
	return func(e *Extractor) { e.minConfidence = min }
}

// New builds an Extractor bound to lex.
func New(lex *astro.Lexicon, opts ...Option) *Extractor {
	e := &Extractor{lex: lex, battery: NewBattery(lex), minConfidence: DefaultMinConfidence}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Warning describes a sentence or candidate that was dropped, and why.
type Warning struct {
	Sentence string
	Reason   string
}

// ExtractSentence converts one relevance-filtered sentence into zero or
// more candidate rules (a sentence with conjunctive clauses, split on ';',
// may yield more than one). page is attached to every produced rule.
func (e *Extractor) ExtractSentence(sentence string, page int) ([]rule.Rule, []Warning) {
	var rules []rule.Rule
	var warnings []Warning

	clauses := strings.Split(sentence, ";")
	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		r, warn, ok := e.extractClause(clause, page)
		if !ok {
			if warn != "" {
				warnings = append(warnings, Warning{Sentence: clause, Reason: warn})
			}
			continue
		}
		rules = append(rules, r)
	}
	return rules, warnings
}

func (e *Extractor) extractClause(clause string, page int) (rule.Rule, string, bool) {
	cand, matched := e.battery.Try(clause)
	if !matched {
		if c, ok := relaxedMatch(e.lex, clause); ok {
			cand = c
			matched = true
		}
	}
	if !matched {
		if c, ok := keywordOnlyMatch(e.lex, clause); ok {
			cand = c
			matched = true
		}
	}
	if !matched {
		return rule.Rule{}, "no pattern matched", false
	}

	if err := validateConditions(cand.Conditions); err != "" {
		return rule.Rule{}, err, false
	}

	effectPhrase, polarity, hasEffect := extractEffect(e.lex, clause, cand.Remainder)
	if !hasEffect {
		return rule.Rule{}, "no effect phrase could be derived", false
	}

	if strength := extractStrength(e.lex, clause); strength != "" {
		cand.Conditions.Strength = strength
	}

	confidence := computeConfidence(e.lex, clause, cand.Conditions, hasEffect)
	confidence = applyFallbackCap(cand.Method, confidence)

	if confidence < e.minConfidence {
		return rule.Rule{}, "confidence below minimum threshold", false
	}

	category := cand.Category
	if category == "" {
		category = rule.CategoryOther
	}

	r := rule.Rule{
		OriginalText:     clause,
		Conditions:       cand.Conditions,
		Effects:          []string{effectPhrase},
		Polarity:         polarity,
		Tags:             cand.Tags,
		Category:         category,
		Page:             page,
		Confidence:       confidence,
		ExtractionMethod: cand.Method,
	}
	return r, "", true
}

// validateConditions rejects malformed condition values (house/lord_of
// outside 1..12), returning a non-empty reason on failure.
func validateConditions(c rule.Conditions) string {
	if c.House != 0 && (c.House < 1 || c.House > 12) {
		return "house out of range"
	}
	if c.LordOf != 0 && (c.LordOf < 1 || c.LordOf > 12) {
		return "lord_of out of range"
	}
	if !c.HasAnyOf() {
		return "no condition key present"
	}
	return ""
}
