// Package extractor implements the ordered pattern battery that turns a
// relevance-filtered sentence into a candidate structured Rule.
package extractor

import (
	"regexp"
	"strings"

	"github.com/vedavani/astrology-ai/internal/astro"
	"github.com/vedavani/astrology-ai/internal/rule"
)

// Candidate is a fallible intermediate result of one pattern attempt: a
// result-with-reason rather than an exception, per the design note on
// exception-free extraction.
type Candidate struct {
	Conditions rule.Conditions
	Tags       []string
	Method     rule.ExtractionMethod
	Category   rule.Category
	// Remainder is the text following the matched condition span, used as
	// the search window for effect-indicator extraction.
	Remainder string
}

// Pattern is one entry in the ordered battery.
type Pattern interface {
	Name() rule.ExtractionMethod
	Match(sentence string) (*Candidate, bool)
}

// Battery holds the compiled, lexicon-bound pattern battery in priority
// order.
type Battery struct {
	lex      *astro.Lexicon
	patterns []Pattern
}

// NewBattery compiles the six ordered patterns against lex's vocabularies.
// The ascendant-specific pattern is tried before basic placement because
// every sentence it matches also contains a basic planet-in-house phrase.
func NewBattery(lex *astro.Lexicon) *Battery {
	return &Battery{
		lex: lex,
		patterns: []Pattern{
			newAscendantSpecific(lex),
			newBasicPlacement(lex),
			newAspectConjunction(lex),
			newLordship(lex),
			newNakshatraPattern(lex),
			newYogaPattern(lex),
		},
	}
}

// Try runs the battery in order and returns the first pattern that
// produces a candidate with at least one condition key set.
func (b *Battery) Try(sentence string) (*Candidate, bool) {
	for _, p := range b.patterns {
		if cand, ok := p.Match(sentence); ok && cand.Conditions.HasAnyOf() {
			return cand, true
		}
	}
	return nil, false
}

// --- basic placement ---

type basicPlacement struct {
	lex          *astro.Lexicon
	houseRe      *regexp.Regexp
	signRe       *regexp.Regexp
}

func newBasicPlacement(lex *astro.Lexicon) *basicPlacement {
	planetAlt := lex.PlanetVariantPattern()
	houseAlt := lex.HouseOrdinalPattern()
	signAlt := lex.SignVariantPattern()
	return &basicPlacement{
		lex:     lex,
		houseRe: regexp.MustCompile(`(?i)\b(` + planetAlt + `)\b\s+in\s+(?:the\s+)?(` + houseAlt + `)\s+(?:house|bhava)\b(.*)`),
		signRe:  regexp.MustCompile(`(?i)\b(` + planetAlt + `)\b\s+in\s+(?:the\s+)?(` + signAlt + `)\b(.*)`),
	}
}

func (p *basicPlacement) Name() rule.ExtractionMethod { return rule.MethodBasicPlacement }

func (p *basicPlacement) Match(sentence string) (*Candidate, bool) {
	if m := p.houseRe.FindStringSubmatch(sentence); m != nil {
		planet, _ := p.lex.CanonicalPlanet(m[1])
		house, _ := p.lex.HouseNumber(m[2])
		if planet == "" || house == 0 {
			return nil, false
		}
		return &Candidate{
			Conditions: rule.Conditions{Planet: planet, House: house},
			Method:     p.Name(),
			Category:   rule.CategoryPlanetaryPlacement,
			Remainder:  m[3],
		}, true
	}
	if m := p.signRe.FindStringSubmatch(sentence); m != nil {
		planet, _ := p.lex.CanonicalPlanet(m[1])
		sign, _ := p.lex.CanonicalSign(m[2])
		if planet == "" || sign == "" {
			return nil, false
		}
		return &Candidate{
			Conditions: rule.Conditions{Planet: planet, Sign: sign},
			Method:     p.Name(),
			Category:   rule.CategoryPlanetaryPlacement,
			Remainder:  m[3],
		}, true
	}
	return nil, false
}

// --- ascendant specific ---

type ascendantSpecific struct {
	lex *astro.Lexicon
	re  *regexp.Regexp
}

func newAscendantSpecific(lex *astro.Lexicon) *ascendantSpecific {
	signAlt := lex.SignVariantPattern()
	planetAlt := lex.PlanetVariantPattern()
	houseAlt := lex.HouseOrdinalPattern()
	pattern := `(?i)for\s+(` + signAlt + `)\s+(?:ascendant|lagna)\s*,?\s*(` + planetAlt + `)\b\s+in\s+(?:the\s+)?(` + houseAlt + `)\s+(?:house|bhava)\b(.*)`
	return &ascendantSpecific{lex: lex, re: regexp.MustCompile(pattern)}
}

func (p *ascendantSpecific) Name() rule.ExtractionMethod { return rule.MethodAscendantSpecific }

func (p *ascendantSpecific) Match(sentence string) (*Candidate, bool) {
	m := p.re.FindStringSubmatch(sentence)
	if m == nil {
		return nil, false
	}
	ascendant, _ := p.lex.CanonicalSign(m[1])
	planet, _ := p.lex.CanonicalPlanet(m[2])
	house, _ := p.lex.HouseNumber(m[3])
	if ascendant == "" || planet == "" || house == 0 {
		return nil, false
	}
	return &Candidate{
		Conditions: rule.Conditions{Planet: planet, House: house, Ascendant: ascendant},
		Method:     p.Name(),
		Category:   rule.CategoryPlanetaryPlacement,
		Remainder:  m[4],
	}, true
}

// --- aspect / conjunction ---

type aspectConjunction struct {
	lex *astro.Lexicon
	re  *regexp.Regexp
}

func newAspectConjunction(lex *astro.Lexicon) *aspectConjunction {
	planetAlt := lex.PlanetVariantPattern()
	pattern := `(?i)\b(` + planetAlt + `)\b\s+(aspects?|conjunct(?:s|ion)?|with)\s+(?:the\s+)?\b(` + planetAlt + `)\b(.*)`
	return &aspectConjunction{lex: lex, re: regexp.MustCompile(pattern)}
}

func (p *aspectConjunction) Name() rule.ExtractionMethod { return rule.MethodAspectConjunction }

func (p *aspectConjunction) Match(sentence string) (*Candidate, bool) {
	m := p.re.FindStringSubmatch(sentence)
	if m == nil {
		return nil, false
	}
	planet1, _ := p.lex.CanonicalPlanet(m[1])
	planet2, _ := p.lex.CanonicalPlanet(m[3])
	if planet1 == "" || planet2 == "" {
		return nil, false
	}
	aspectType := "conjunction"
	if strings.Contains(strings.ToLower(m[2]), "aspect") {
		aspectType = "aspect"
	}
	return &Candidate{
		Conditions: rule.Conditions{Planet: planet1, Aspect: aspectType},
		Tags:       []string{"with:" + planet2},
		Method:     p.Name(),
		Category:   rule.CategoryAspect,
		Remainder:  m[4],
	}, true
}

// --- house lordship ---

type lordship struct {
	lex *astro.Lexicon
	re  *regexp.Regexp
}

func newLordship(lex *astro.Lexicon) *lordship {
	houseAlt := lex.HouseOrdinalPattern()
	signAlt := lex.SignVariantPattern()
	pattern := `(?i)(?:the\s+)?lord\s+of\s+(?:the\s+)?(` + houseAlt + `)\s+in\s+(?:the\s+)?(` + houseAlt + `|` + signAlt + `)\s*(?:house|bhava)?\b(.*)`
	return &lordship{lex: lex, re: regexp.MustCompile(pattern)}
}

func (p *lordship) Name() rule.ExtractionMethod { return rule.MethodLordship }

func (p *lordship) Match(sentence string) (*Candidate, bool) {
	m := p.re.FindStringSubmatch(sentence)
	if m == nil {
		return nil, false
	}
	lordOf, _ := p.lex.HouseNumber(m[1])
	if lordOf == 0 {
		return nil, false
	}
	cond := rule.Conditions{LordOf: lordOf}
	if house, ok := p.lex.HouseNumber(m[2]); ok {
		cond.House = house
	} else if sign, ok := p.lex.CanonicalSign(m[2]); ok {
		cond.Sign = sign
	} else {
		return nil, false
	}
	return &Candidate{
		Conditions: cond,
		Method:     p.Name(),
		Category:   rule.CategoryHouseLordship,
		Remainder:  m[3],
	}, true
}

// --- nakshatra ---

type nakshatraPattern struct {
	lex *astro.Lexicon
	re  *regexp.Regexp
}

func newNakshatraPattern(lex *astro.Lexicon) *nakshatraPattern {
	planetAlt := lex.PlanetVariantPattern()
	nakAlt := strings.Join(escapeAll(lex.Nakshatras), "|")
	pattern := `(?i)\b(` + planetAlt + `)\b\s+in\s+(?:the\s+)?(` + nakAlt + `)\s*(?:nakshatra)?\b(.*)`
	return &nakshatraPattern{lex: lex, re: regexp.MustCompile(pattern)}
}

func (p *nakshatraPattern) Name() rule.ExtractionMethod { return rule.MethodNakshatra }

func (p *nakshatraPattern) Match(sentence string) (*Candidate, bool) {
	m := p.re.FindStringSubmatch(sentence)
	if m == nil {
		return nil, false
	}
	planet, _ := p.lex.CanonicalPlanet(m[1])
	if planet == "" {
		return nil, false
	}
	nakshatra := canonicalNakshatra(p.lex, m[2])
	if nakshatra == "" {
		return nil, false
	}
	return &Candidate{
		Conditions: rule.Conditions{Planet: planet, Nakshatra: nakshatra},
		Method:     p.Name(),
		Category:   rule.CategoryNakshatra,
		Remainder:  m[3],
	}, true
}

// --- yoga ---

type yogaPattern struct {
	lex *astro.Lexicon
	named *regexp.Regexp
	generic *regexp.Regexp
}

func newYogaPattern(lex *astro.Lexicon) *yogaPattern {
	yogaAlt := strings.Join(escapeAll(lex.Yogas), "|")
	return &yogaPattern{
		lex:     lex,
		named:   regexp.MustCompile(`(?i)(` + yogaAlt + `)`),
		generic: regexp.MustCompile(`(?i)([A-Za-z]+(?:\s+[A-Za-z]+){0,2})\s+yoga\s+(?:is\s+formed|occurs|gives)(.*)`),
	}
}

func (p *yogaPattern) Name() rule.ExtractionMethod { return rule.MethodYoga }

// Match captures a yoga name and, since the yoga name itself carries no
// planet/house/sign, also scans the full sentence for the first such
// token mentioned anywhere in it (a yoga sentence names the planets or
// houses that form it even when they fall outside the matched phrase).
// A yoga with nothing recognizable in the sentence produces no candidate,
// consistent with every other pattern's condition-key requirement.
func (p *yogaPattern) Match(sentence string) (*Candidate, bool) {
	if m := p.named.FindStringSubmatch(sentence); m != nil {
		yogaName := canonicalYoga(p.lex, m[1])
		rest := sentence[strings.Index(sentence, m[1])+len(m[1]):]
		return &Candidate{
			Conditions: scanSentenceConditions(p.lex, sentence),
			Tags:       []string{"yoga:" + yogaName},
			Method:     p.Name(),
			Category:   rule.CategoryYoga,
			Remainder:  rest,
		}, true
	}
	if m := p.generic.FindStringSubmatch(sentence); m != nil {
		return &Candidate{
			Conditions: scanSentenceConditions(p.lex, sentence),
			Tags:       []string{"yoga:" + strings.TrimSpace(m[1]) + " Yoga"},
			Method:     p.Name(),
			Category:   rule.CategoryYoga,
			Remainder:  m[2],
		}, true
	}
	return nil, false
}

// scanSentenceConditions finds the first planet, sign, and house token
// mentioned anywhere in sentence, for patterns whose triggering phrase
// doesn't itself carry a condition.
func scanSentenceConditions(lex *astro.Lexicon, sentence string) rule.Conditions {
	var cond rule.Conditions
	for _, w := range strings.Fields(sentence) {
		_, core, _ := splitWordPunctuation(w)
		if cond.Planet == "" {
			if p, ok := lex.CanonicalPlanet(core); ok {
				cond.Planet = p
			}
		}
		if cond.Sign == "" {
			if s, ok := lex.CanonicalSign(core); ok {
				cond.Sign = s
			}
		}
		if cond.House == 0 {
			if h, ok := lex.HouseNumber(core); ok {
				cond.House = h
			}
		}
	}
	return cond
}

func canonicalNakshatra(lex *astro.Lexicon, text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, n := range lex.Nakshatras {
		if strings.ToLower(n) == lower {
			return n
		}
	}
	return ""
}

func canonicalYoga(lex *astro.Lexicon, text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, y := range lex.Yogas {
		if strings.ToLower(y) == lower {
			return y
		}
	}
	return strings.TrimSpace(text)
}

func escapeAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = regexp.QuoteMeta(w)
	}
	return out
}
