package astro

import "testing"

func TestCanonicalPlanetRecognizesVariants(t *testing.T) {
	lex := Default()
	for _, variant := range []string{"sun", "Surya", "RAVI", "aditya"} {
		canonical, ok := lex.CanonicalPlanet(variant)
		if !ok || canonical != "Sun" {
			t.Fatalf("expected %q to canonicalize to Sun, got %q (ok=%v)", variant, canonical, ok)
		}
	}
}

func TestCanonicalPlanetRejectsUnknownWord(t *testing.T) {
	lex := Default()
	if _, ok := lex.CanonicalPlanet("pluto"); ok {
		t.Fatal("expected pluto to be unrecognized")
	}
}

func TestCanonicalSignRecognizesVariants(t *testing.T) {
	lex := Default()
	canonical, ok := lex.CanonicalSign("Vrishabha")
	if !ok || canonical != "Taurus" {
		t.Fatalf("expected Vrishabha to canonicalize to Taurus, got %q (ok=%v)", canonical, ok)
	}
}

func TestHouseNumberRecognizesOrdinalAndSanskritWords(t *testing.T) {
	lex := Default()
	for _, word := range []string{"7th", "seventh", "yuvati"} {
		n, ok := lex.HouseNumber(word)
		if !ok || n != 7 {
			t.Fatalf("expected %q to map to house 7, got %d (ok=%v)", word, n, ok)
		}
	}
}

func TestCategoryForPicksDominantKeywordClass(t *testing.T) {
	lex := Default()
	if got := lex.CategoryFor("This placement brings wealth, prosperity, and fortune."); got != "wealth" {
		t.Fatalf("expected category 'wealth', got %q", got)
	}
}

func TestCategoryForReturnsEmptyWhenNoKeywordsMatch(t *testing.T) {
	lex := Default()
	if got := lex.CategoryFor("The sky is blue today."); got != "" {
		t.Fatalf("expected no category match, got %q", got)
	}
}
