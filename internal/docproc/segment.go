package docproc

import (
	"regexp"
	"strings"

	"github.com/vedavani/astrology-ai/internal/astro"
)

// abbreviations are sentence-terminal-looking tokens that must not split a
// sentence (e.g. "Mr." or "No.").
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "dr": true, "no": true, "vol": true,
	"ch": true, "ed": true, "etc": true, "e.g": true, "i.e": true,
}

var sentenceSplitter = regexp.MustCompile(`([.!?]+)`)

// relevanceKeywords are the additional keyword set from the relevance
// filter contract, beyond the planet/house/sign lexicons.
var relevanceKeywords = []string{
	"lagna", "ascendant", "bhava", "dasha", "yoga", "nakshatra",
	"aspect", "conjunct", "exalt", "debilitat", "lord of",
}

// Sentence is one relevance-filtered sentence with its originating page.
type Sentence struct {
	Text string
	Page int
}

// Segmenter splits cleaned page text into sentences and applies the
// astrological-relevance filter.
type Segmenter struct {
	lex *astro.Lexicon
}

// NewSegmenter builds a Segmenter bound to lex.
func NewSegmenter(lex *astro.Lexicon) *Segmenter {
	return &Segmenter{lex: lex}
}

// Segment splits every page's cleaned text into sentences on ./!/? boundaries
// (honoring the abbreviation exception list) and keeps only sentences that
// pass IsAstrological. total counts every non-empty sentence seen, before
// the relevance filter.
func (s *Segmenter) Segment(pages []Page) (out []Sentence, total int) {
	for _, p := range pages {
		for _, raw := range s.splitSentences(p.Text) {
			text := strings.TrimSpace(raw)
			if text == "" {
				continue
			}
			total++
			if s.IsAstrological(text) {
				out = append(out, Sentence{Text: text, Page: p.Number})
			}
		}
	}
	return out, total
}

func (s *Segmenter) splitSentences(text string) []string {
	parts := sentenceSplitter.Split(text, -1)
	delims := sentenceSplitter.FindAllString(text, -1)

	var sentences []string
	var current strings.Builder
	for i, part := range parts {
		current.WriteString(part)
		if i < len(delims) {
			lastWord := lastToken(part)
			if abbreviations[strings.ToLower(strings.TrimRight(lastWord, "."))] {
				current.WriteString(delims[i])
				continue
			}
			current.WriteString(delims[i])
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

func lastToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// IsAstrological reports whether text contains at least one token from the
// planet, house, or sign lexicon, or one of the keyword-set phrases.
func (s *Segmenter) IsAstrological(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range strings.Fields(lower) {
		_, core, _ := splitPunctuation(w)
		if _, ok := s.lex.CanonicalPlanet(core); ok {
			return true
		}
		if _, ok := s.lex.CanonicalSign(core); ok {
			return true
		}
		if _, ok := s.lex.HouseNumber(core); ok {
			return true
		}
	}
	for _, kw := range relevanceKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
