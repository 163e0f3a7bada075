package extractor

import (
	"strings"

	"github.com/vedavani/astrology-ai/internal/astro"
	"github.com/vedavani/astrology-ai/internal/rule"
)

// confidenceInputs are the four components of the weighted-sum confidence
// formula, each in [0,1] before weighting.
type confidenceInputs struct {
	patternMatchQuality  float64
	classicalTermDensity float64
	structureScore       float64
	completeness         float64
}

// score computes the weighted sum per §4.2: 0.40/0.25/0.20/0.15, clamped
// to [0,1].
func (c confidenceInputs) score() float64 {
	v := 0.40*c.patternMatchQuality + 0.25*c.classicalTermDensity +
		0.20*c.structureScore + 0.15*c.completeness
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// computeConfidence evaluates the four weighted components over the full
// sentence and the produced candidate.
func computeConfidence(lex *astro.Lexicon, sentence string, cond rule.Conditions, hasEffect bool) float64 {
	present := 0
	total := 3.0
	if cond.Planet != "" {
		present++
	}
	if cond.House != 0 || cond.Sign != "" {
		present++
	}
	if hasEffect {
		present++
	}
	patternMatchQuality := float64(present) / total

	classicalTermDensity := classicalTermCount(lex, sentence) * 0.1
	if classicalTermDensity > 1.0 {
		classicalTermDensity = 1.0
	}

	structureScore := structureHeuristic(sentence)

	completeness := 0.0
	if cond.HasAnyOf() && hasEffect {
		completeness = 1.0
	}

	inputs := confidenceInputs{
		patternMatchQuality:  patternMatchQuality,
		classicalTermDensity: classicalTermDensity,
		structureScore:       structureScore,
		completeness:         completeness,
	}
	return inputs.score()
}

// classicalTermCount counts planet and sign tokens in the sentence, plus
// one hit for each classical keyword ("lagna", "yoga", "nakshatra", ...)
// that occurs in it.
func classicalTermCount(lex *astro.Lexicon, sentence string) float64 {
	lower := strings.ToLower(sentence)
	count := 0
	for _, w := range strings.Fields(lower) {
		core := strings.Trim(w, ".,;:!?\"'()")
		if _, ok := lex.CanonicalPlanet(core); ok {
			count++
			continue
		}
		if _, ok := lex.CanonicalSign(core); ok {
			count++
			continue
		}
	}
	for _, kw := range []string{"lagna", "bhava", "dasha", "yoga", "nakshatra", "graha", "karaka", "dosha"} {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return float64(count)
}

// structureHeuristic scores sentence length (penalizing under 6 or over 40
// tokens) and the presence of a simple subject/verb/object shape (an
// effect indicator present anywhere in the sentence).
func structureHeuristic(sentence string) float64 {
	tokens := len(strings.Fields(sentence))
	lengthScore := 1.0
	if tokens < 6 || tokens > 40 {
		lengthScore = 0.5
	}

	hasIndicator := false
	lower := strings.ToLower(sentence)
	for _, ind := range defaultIndicators {
		if strings.Contains(lower, ind) {
			hasIndicator = true
			break
		}
	}
	tripleScore := 0.5
	if hasIndicator {
		tripleScore = 1.0
	}

	return (lengthScore + tripleScore) / 2
}

var defaultIndicators = []string{
	"causes", "gives", "indicates", "brings", "creates", "produces",
	"results in", "leads to", "bestows", "grants", "confers",
}

// applyFallbackCap clamps confidence for a fallback extraction method per
// the caps fixed in §4.2/§9 (relaxed=0.55, keyword_fallback=0.40).
func applyFallbackCap(method rule.ExtractionMethod, confidence float64) float64 {
	switch method {
	case rule.MethodRelaxedFallback:
		if confidence > 0.55 {
			return 0.55
		}
	case rule.MethodKeywordFallback:
		if confidence > 0.40 {
			return 0.40
		}
	}
	return confidence
}
