package extractor

import (
	"testing"

	"github.com/vedavani/astrology-ai/internal/astro"
	"github.com/vedavani/astrology-ai/internal/rule"
)

func newTestExtractor() *Extractor {
	return New(astro.Default())
}

func TestExtractSentenceBasicPlacement(t *testing.T) {
	e := newTestExtractor()
	rules, warnings := e.ExtractSentence("Mars in the 7th house causes conflict in marriage.", 12)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	r := rules[0]
	if r.Conditions.Planet != "Mars" || r.Conditions.House != 7 {
		t.Fatalf("unexpected conditions: %+v", r.Conditions)
	}
	if r.ExtractionMethod != rule.MethodBasicPlacement {
		t.Fatalf("expected basic_placement, got %s", r.ExtractionMethod)
	}
	if r.Page != 12 {
		t.Fatalf("expected page 12, got %d", r.Page)
	}
	if len(r.Effects) == 0 {
		t.Fatalf("expected an effect to be extracted")
	}
}

func TestExtractSentenceAscendantSpecific(t *testing.T) {
	e := newTestExtractor()
	rules, _ := e.ExtractSentence("For Aries ascendant, Saturn in the 10th house gives career success.", 1)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	r := rules[0]
	if r.Conditions.Ascendant != "Aries" || r.Conditions.Planet != "Saturn" || r.Conditions.House != 10 {
		t.Fatalf("unexpected conditions: %+v", r.Conditions)
	}
	if r.ExtractionMethod != rule.MethodAscendantSpecific {
		t.Fatalf("expected ascendant_specific, got %s", r.ExtractionMethod)
	}
}

func TestExtractSentenceAspectConjunction(t *testing.T) {
	e := newTestExtractor()
	rules, _ := e.ExtractSentence("Mars conjunction Saturn causes accidents.", 4)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	r := rules[0]
	if r.Conditions.Planet != "Mars" || r.Conditions.Aspect != "conjunction" {
		t.Fatalf("unexpected conditions: %+v", r.Conditions)
	}
}

func TestExtractSentenceLordship(t *testing.T) {
	e := newTestExtractor()
	rules, _ := e.ExtractSentence("The lord of the 7th in the 10th house gives success in career.", 3)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	r := rules[0]
	if r.Conditions.LordOf != 7 || r.Conditions.House != 10 {
		t.Fatalf("unexpected conditions: %+v", r.Conditions)
	}
	if r.ExtractionMethod != rule.MethodLordship {
		t.Fatalf("expected lordship, got %s", r.ExtractionMethod)
	}
}

func TestExtractSentenceNakshatra(t *testing.T) {
	e := newTestExtractor()
	rules, _ := e.ExtractSentence("Mars in Krittika nakshatra causes conflict.", 3)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	r := rules[0]
	if r.Conditions.Planet != "Mars" || r.Conditions.Nakshatra != "Krittika" {
		t.Fatalf("unexpected conditions: %+v", r.Conditions)
	}
	if r.ExtractionMethod != rule.MethodNakshatra {
		t.Fatalf("expected nakshatra, got %s", r.ExtractionMethod)
	}
}

func TestExtractSentenceYogaCapturesCoOccurringPlanet(t *testing.T) {
	e := newTestExtractor()
	rules, _ := e.ExtractSentence("Gaja Kesari Yoga gives wisdom and fame when Jupiter is strong.", 3)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	r := rules[0]
	if r.Conditions.Planet != "Jupiter" {
		t.Fatalf("expected the co-occurring planet Jupiter to be captured, got %+v", r.Conditions)
	}
	if r.ExtractionMethod != rule.MethodYoga || r.Category != rule.CategoryYoga {
		t.Fatalf("expected yoga method/category, got %s/%s", r.ExtractionMethod, r.Category)
	}
	found := false
	for _, tag := range r.Tags {
		if tag == "yoga:Gaja Kesari Yoga" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a yoga:Gaja Kesari Yoga tag, got %v", r.Tags)
	}
}

func TestExtractSentenceNoPatternMatchIsWarned(t *testing.T) {
	e := newTestExtractor()
	rules, warnings := e.ExtractSentence("The weather today is pleasant and calm.", 1)
	if len(rules) != 0 {
		t.Fatalf("expected no rules, got %d", len(rules))
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
}

func TestExtractSentenceSplitsOnSemicolon(t *testing.T) {
	e := newTestExtractor()
	rules, _ := e.ExtractSentence(
		"Mars in the 7th house causes conflict; Jupiter in the 9th house gives fortune.", 2)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules from 2 clauses, got %d", len(rules))
	}
}

func TestExtractSentenceBelowMinConfidenceIsDropped(t *testing.T) {
	e := New(astro.Default(), WithMinConfidence(0.99))
	rules, warnings := e.ExtractSentence("Mars in the 7th house causes conflict.", 1)
	if len(rules) != 0 {
		t.Fatalf("expected no rules at an unreachable confidence floor, got %d", len(rules))
	}
	if len(warnings) != 1 || warnings[0].Reason != "confidence below minimum threshold" {
		t.Fatalf("expected a below-threshold warning, got %v", warnings)
	}
}

func TestValidateConditionsRejectsOutOfRangeHouse(t *testing.T) {
	reason := validateConditions(rule.Conditions{Planet: "Mars", House: 13})
	if reason == "" {
		t.Fatal("expected house 13 to be rejected")
	}
}

func TestValidateConditionsRequiresAnyOf(t *testing.T) {
	reason := validateConditions(rule.Conditions{Aspect: "conjunction"})
	if reason == "" {
		t.Fatal("expected a conditions value with no planet/house/sign to be rejected")
	}
}
