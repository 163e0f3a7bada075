package docproc

import (
	"strings"
	"testing"

	"github.com/vedavani/astrology-ai/internal/astro"
)

func TestCleanerUndoesHyphenBreaks(t *testing.T) {
	c := NewCleaner(astro.Default())
	pages := []Page{{Number: 1, Text: "The plan-\net Mars is strong."}}
	out := c.Clean(pages)
	if strings.Contains(out[0].Text, "plan-\net") {
		t.Fatalf("expected hyphen break to be undone, got %q", out[0].Text)
	}
	if !strings.Contains(out[0].Text, "planet") {
		t.Fatalf("expected joined word 'planet', got %q", out[0].Text)
	}
}

func TestCleanerKeepsHyphenAfterKnownPrefix(t *testing.T) {
	c := NewCleaner(astro.Default())
	pages := []Page{{Number: 1, Text: "A self-\nrealized soul attains moksha."}}
	out := c.Clean(pages)
	if !strings.Contains(out[0].Text, "self-realized") {
		t.Fatalf("expected 'self-realized' to keep its hyphen, got %q", out[0].Text)
	}
}

func TestCleanerStripsRepeatedHeaderLines(t *testing.T) {
	c := NewCleaner(astro.Default())
	pages := []Page{
		{Number: 1, Text: "Classical Astrology\nMars in the 7th house causes conflict."},
		{Number: 2, Text: "Classical Astrology\nSaturn in the 10th house gives success."},
		{Number: 3, Text: "Classical Astrology\nJupiter in the 9th house gives fortune."},
	}
	out := c.Clean(pages)
	for _, p := range out {
		if strings.Contains(p.Text, "Classical Astrology") {
			t.Fatalf("expected repeated header to be stripped, got %q", p.Text)
		}
	}
}

func TestCleanerCanonicalizesSpellingVariants(t *testing.T) {
	c := NewCleaner(astro.Default())
	pages := []Page{{Number: 1, Text: "Surya in Mesha causes strength."}}
	out := c.Clean(pages)
	if !strings.Contains(out[0].Text, "Sun") || !strings.Contains(out[0].Text, "Aries") {
		t.Fatalf("expected canonical spellings, got %q", out[0].Text)
	}
}

func TestCleanerReinsertsGluedBoundaryWords(t *testing.T) {
	c := NewCleaner(astro.Default())
	pages := []Page{{Number: 1, Text: "Mars inthe 7th house causes conflict."}}
	out := c.Clean(pages)
	if !strings.Contains(out[0].Text, "in the") {
		t.Fatalf("expected 'inthe' to be split into 'in the', got %q", out[0].Text)
	}
}

func TestCleanerSplitsLongGluedOCRRun(t *testing.T) {
	c := NewCleaner(astro.Default())
	pages := []Page{{Number: 1, Text: "Mangalin7thbhavagivesconflictsinmarriage."}}
	out := c.Clean(pages)
	const want = "Mars in 7th bhava gives conflicts in marriage."
	if out[0].Text != want {
		t.Fatalf("expected glued OCR run to split to %q, got %q", want, out[0].Text)
	}
}

func TestCleanerLeavesOrdinaryLongWordsAlone(t *testing.T) {
	c := NewCleaner(astro.Default())
	pages := []Page{{Number: 1, Text: "Mars is characteristically aggressive."}}
	out := c.Clean(pages)
	if !strings.Contains(out[0].Text, "characteristically") {
		t.Fatalf("expected an ordinary long word to survive untouched, got %q", out[0].Text)
	}
}

func TestSegmentSplitsOnSentenceBoundaries(t *testing.T) {
	s := NewSegmenter(astro.Default())
	pages := []Page{{Number: 1, Text: "Mars in the 7th house causes conflict. Saturn in the 10th house gives success."}}
	sentences, total := s.Segment(pages)
	if total != 2 {
		t.Fatalf("expected 2 total sentences, got %d", total)
	}
	if len(sentences) != 2 {
		t.Fatalf("expected 2 astrological sentences, got %d", len(sentences))
	}
}

func TestSegmentFiltersNonAstrologicalSentences(t *testing.T) {
	s := NewSegmenter(astro.Default())
	pages := []Page{{Number: 1, Text: "The weather is calm today. Mars in the 7th house causes conflict."}}
	sentences, total := s.Segment(pages)
	if total != 2 {
		t.Fatalf("expected 2 total sentences scanned, got %d", total)
	}
	if len(sentences) != 1 {
		t.Fatalf("expected only the astrological sentence to survive, got %d", len(sentences))
	}
}

func TestSegmentHonorsAbbreviationExceptions(t *testing.T) {
	s := NewSegmenter(astro.Default())
	pages := []Page{{Number: 1, Text: "Dr. Rao explains that Mars in the 7th house causes conflict."}}
	sentences, total := s.Segment(pages)
	if total != 1 {
		t.Fatalf("expected 'Dr.' not to split the sentence, got %d total sentences", total)
	}
	if len(sentences) != 1 {
		t.Fatalf("expected 1 astrological sentence, got %d", len(sentences))
	}
}

func TestIsAstrologicalRecognizesKeywordsWithoutLexiconTerms(t *testing.T) {
	s := NewSegmenter(astro.Default())
	if !s.IsAstrological("This yoga brings great fortune to the native.") {
		t.Fatal("expected 'yoga' keyword to qualify the sentence")
	}
	if s.IsAstrological("The weather today is pleasant.") {
		t.Fatal("expected a non-astrological sentence to be rejected")
	}
}
