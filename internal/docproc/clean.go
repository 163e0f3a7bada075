package docproc

import (
	"regexp"
	"strings"

	"github.com/vedavani/astrology-ai/internal/astro"
)

var (
	whitespaceRun = regexp.MustCompile(`[ \t]+`)
	blankLineRun  = regexp.MustCompile(`\n{3,}`)
	hyphenBreak   = regexp.MustCompile(`(\w+)-\n(\w+)`)
	camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)
)

// knownPrefixes holds left-fragments of a hyphenated break that are
// themselves complete words, in which case the hyphen is a real
// word-hyphen and must be kept rather than joined.
var knownPrefixes = map[string]bool{
	"self": true, "co": true, "non": true, "pre": true, "re": true,
	"semi": true, "sub": true, "well": true,
}

// Cleaner applies one deterministic normalization step over a page's raw
// text. Steps run in a fixed order; none depend on a statistical model.
type Cleaner struct {
	lex *astro.Lexicon
}

// NewCleaner builds a Cleaner bound to lex, the lexicon-driven source of
// boundary words and spelling variants.
func NewCleaner(lex *astro.Lexicon) *Cleaner {
	return &Cleaner{lex: lex}
}

// Clean runs the full cascade over all pages: header/footer stripping (by
// cross-page repetition), whitespace collapse, hyphenation undo, OCR
// boundary-word reinsertion, and planet/sign canonicalization. It returns
// one cleaned text blob per page, in page order.
func (c *Cleaner) Clean(pages []Page) []Page {
	repeated := detectRepeatedLines(pages)

	out := make([]Page, len(pages))
	for i, p := range pages {
		text := stripRepeatedLines(p.Text, repeated)
		text = collapseWhitespace(text)
		text = undoHyphenation(text)
		text = c.reinsertBoundarySpaces(text)
		text = c.canonicalizeSpellings(text)
		out[i] = Page{Number: p.Number, Text: text}
	}
	return out
}

// detectRepeatedLines finds short lines (headers/footers) that recur on
// at least 60% of pages (and on at least two pages), per the header/footer
// detection rule.
func detectRepeatedLines(pages []Page) map[string]bool {
	if len(pages) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, p := range pages {
		seen := make(map[string]bool)
		for _, line := range strings.Split(p.Text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || len(line) > 80 {
				continue
			}
			if !seen[line] {
				counts[line]++
				seen[line] = true
			}
		}
	}
	threshold := (3*len(pages) + 4) / 5 // ceil(0.6 * pages)
	if threshold < 2 {
		threshold = 2
	}
	repeated := make(map[string]bool)
	for line, n := range counts {
		if n >= threshold {
			repeated[line] = true
		}
	}
	return repeated
}

func stripRepeatedLines(text string, repeated map[string]bool) string {
	if len(repeated) == 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if repeated[strings.TrimSpace(line)] {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func collapseWhitespace(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = blankLineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func undoHyphenation(text string) string {
	return hyphenBreak.ReplaceAllStringFunc(text, func(match string) string {
		groups := hyphenBreak.FindStringSubmatch(match)
		left, right := groups[1], groups[2]
		if knownPrefixes[strings.ToLower(left)] {
			return left + "-" + right
		}
		return left + right
	})
}

// reinsertBoundarySpaces fixes the common OCR defect of two or more words
// glued together at a preposition/article/conjunction boundary: first the
// lexicon's fixed glued-word table, then a camelCase-style split, then a
// lexicon-driven greedy split of any long glued run that remains.
func (c *Cleaner) reinsertBoundarySpaces(text string) string {
	for glued, spaced := range c.lex.OCRFixes {
		text = strings.ReplaceAll(text, glued, spaced)
	}
	text = camelBoundary.ReplaceAllString(text, "$1 $2")
	text = c.splitGluedWords(text)
	return text
}

// minGluedWordLen is the token length above which a whitespace-delimited
// run is treated as a candidate multi-word OCR glue rather than ordinary
// prose, bounding the greedy segmenter's false-positive rate on normal
// long words.
const minGluedWordLen = 15

// minGluedSegments is the minimum number of lexicon-recognized segments a
// greedy split must find before the decomposition is trusted over the
// original token.
const minGluedSegments = 3

// splitGluedWords re-inserts spaces into long unbroken tokens at every
// lexicon-recognized boundary (planet, sign, house word, nakshatra,
// "lagna"/"dasha"/"yoga", ordinal, and connective word), per the
// fixed-lexicon word-join repair. Tokens that don't decompose into enough
// recognized segments are left untouched rather than guessed at.
func (c *Cleaner) splitGluedWords(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		lead, core, trail := splitPunctuation(w)
		if len(core) < minGluedWordLen {
			continue
		}
		segments, hits := c.lex.GreedySegment(core)
		if hits < minGluedSegments {
			continue
		}
		words[i] = lead + strings.Join(segments, " ") + trail
	}
	return strings.Join(words, " ")
}

// canonicalizeSpellings normalizes every recognized planet/sign token to
// its canonical spelling (e.g. Surya/Ravi -> Sun, Mesha -> Aries), word by
// word, preserving punctuation attached to the token.
func (c *Cleaner) canonicalizeSpellings(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		lead, core, trail := splitPunctuation(w)
		if canonical, ok := c.lex.CanonicalPlanet(core); ok {
			words[i] = lead + canonical + trail
			continue
		}
		if canonical, ok := c.lex.CanonicalSign(core); ok {
			words[i] = lead + canonical + trail
		}
	}
	return strings.Join(words, " ")
}

func splitPunctuation(w string) (lead, core, trail string) {
	start, end := 0, len(w)
	for start < end && !isWordChar(w[start]) {
		start++
	}
	for end > start && !isWordChar(w[end-1]) {
		end--
	}
	return w[:start], w[start:end], w[end:]
}

func isWordChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
