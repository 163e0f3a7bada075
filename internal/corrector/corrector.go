// Package corrector implements the local-LLM OCR/readability correction
// stage: deterministic batching, a structured prompt contract, and a
// mandatory non-LLM post-validation gate that is the sole source of
// correctness guarantees against a nondeterministic model.
package corrector

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vedavani/astrology-ai/internal/astroerr"
	"github.com/vedavani/astrology-ai/internal/rule"
)

// Model is the minimal interface the corrector needs from an LLM client,
// satisfied by ollamaclient.Client.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DefaultBatchSize and DefaultBatchTimeout are the spec's stated defaults.
const (
	DefaultBatchSize    = 5
	DefaultBatchTimeout = 60 * time.Second
)

// ClosedFixTags is the closed set of correction-tag values a model may
// report.
var ClosedFixTags = map[string]bool{
	"spacing": true, "hyphenation": true, "punctuation": true,
	"spelling": true, "sanskrit_preservation": true, "grammar": true,
}

// Corrector runs the batch correction pass over stored rules.
type Corrector struct {
	model       Model
	modelID     string
	batchSize   int
	batchTimeout time.Duration
}

// Option configures a Corrector.
type Option func(*Corrector)

// WithBatchSize records n on the Corrector. RunBatch processes the whole
// slice it is given, and Pipeline.CorrectPending splits pending rules into
// batches of DefaultBatchSize, so n does not change batch boundaries.
func WithBatchSize(n int) Option        { return func(c *Corrector) { c.batchSize = n } }
func WithBatchTimeout(d time.Duration) Option { return func(c *Corrector) { c.batchTimeout = d } }

// New builds a Corrector bound to model, identified by modelID for audit
// records.
func New(model Model, modelID string, opts ...Option) *Corrector {
	c := &Corrector{model: model, modelID: modelID, batchSize: DefaultBatchSize, batchTimeout: DefaultBatchTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ModelID returns the identifier this Corrector stamps onto audit records.
func (c *Corrector) ModelID() string { return c.modelID }

// Digest returns the idempotence digest for a rule's original_text.
func Digest(originalText string) string {
	sum := sha256.Sum256([]byte(originalText))
	return hex.EncodeToString(sum[:])
}

// itemResult is one outcome of running the gate over a single rule.
type itemResult struct {
	Rule      rule.Rule
	Accept    bool
	Reason    string
	Corrected string
	Fixes     []string
	ModelConf float64
}

// promptResponseItem is the per-item shape the model must return.
type promptResponseItem struct {
	CorrectedText string   `json:"corrected_text"`
	Confidence    float64  `json:"confidence"`
	FixesApplied  []string `json:"fixes_applied"`
}

type promptResponse struct {
	Corrections []promptResponseItem `json:"corrections"`
}

// RunBatch corrects one batch of rules (already selected by the caller as
// "pending", i.e. rules whose last-corrected digest does not match their
// current original_text). It returns, for each rule in order, whether the
// correction was accepted and what to write back.
func (c *Corrector) RunBatch(ctx context.Context, rules []rule.Rule) ([]itemResult, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.batchTimeout)
	defer cancel()

	prompt := buildPrompt(rules)
	raw, err := c.model.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", astroerr.ErrModelUnavailable, err)
	}

	var parsed promptResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || len(parsed.Corrections) != len(rules) {
		// Wrong count or unparseable output discards the entire batch's
		// corrections, per the §4.3 failure mode.
		results := make([]itemResult, len(rules))
		for i, r := range rules {
			results[i] = itemResult{Rule: r, Accept: false, Reason: "model returned wrong item count or invalid JSON"}
		}
		return results, nil
	}

	results := make([]itemResult, len(rules))
	for i, r := range rules {
		item := parsed.Corrections[i]
		accept, reason := validateCorrection(r, item.CorrectedText)
		results[i] = itemResult{
			Rule:      r,
			Accept:    accept,
			Reason:    reason,
			Corrected: item.CorrectedText,
			Fixes:     filterFixTags(item.FixesApplied),
			ModelConf: item.Confidence,
		}
	}
	return results, nil
}

// buildPrompt constructs the structured correction prompt enumerating each
// rule's original_text in order, instructing the model per the §4.3
// contract.
func buildPrompt(rules []rule.Rule) string {
	var b strings.Builder
	b.WriteString("You are correcting OCR-damaged excerpts from classical Vedic astrology texts.\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. Fix only OCR-like defects: missing spaces, broken hyphenation, missing punctuation, misspellings.\n")
	b.WriteString("2. Preserve every planet, sign, nakshatra, house, and ordinal word exactly (after normalizing spelling).\n")
	b.WriteString("3. Never invent new astrological claims or change the meaning.\n")
	b.WriteString("4. Return exactly one corrected string per input, in the same order, with a confidence in [0,1] and a fixes_applied list drawn only from: spacing, hyphenation, punctuation, spelling, sanskrit_preservation, grammar.\n")
	b.WriteString(`Respond with JSON: {"corrections":[{"corrected_text":"...","confidence":0.0,"fixes_applied":["..."]}]}` + "\n\n")
	for i, r := range rules {
		b.WriteString(strconv.Itoa(i+1) + ". " + r.OriginalText + "\n")
	}
	return b.String()
}

func filterFixTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if ClosedFixTags[t] {
			out = append(out, t)
		}
	}
	return out
}

// validateCorrection runs the mandatory, non-LLM post-validation gate: the
// sole source of correctness guarantees against the model's output.
func validateCorrection(r rule.Rule, corrected string) (bool, string) {
	if !utf8.ValidString(corrected) {
		return false, "invalid UTF-8"
	}
	if strings.TrimSpace(corrected) == "" {
		return false, "empty correction"
	}

	if !conditionsPreserved(r.Conditions, corrected) {
		return false, "identity_violation"
	}

	ratio := float64(len([]rune(corrected))) / float64(maxInt(1, len([]rune(r.OriginalText))))
	if ratio < 0.5 || ratio > 2.0 {
		return false, "length ratio out of bounds"
	}

	if len(r.Effects) > 0 && !retainsContentWords(r.Effects[0], corrected, 0.60) {
		return false, "effect content words not retained"
	}

	return true, ""
}

// conditionsPreserved checks that every condition value has a
// case-insensitive token match in corrected (planet/sign/nakshatra names,
// house numbers as digit or word).
func conditionsPreserved(c rule.Conditions, corrected string) bool {
	lower := strings.ToLower(corrected)
	check := func(s string) bool {
		if s == "" {
			return true
		}
		return strings.Contains(lower, strings.ToLower(s))
	}
	if !check(c.Planet) || !check(c.Sign) || !check(c.Nakshatra) || !check(c.Ascendant) {
		return false
	}
	if c.House != 0 && !containsHouseNumber(lower, c.House) {
		return false
	}
	if c.LordOf != 0 && !containsHouseNumber(lower, c.LordOf) {
		return false
	}
	return true
}

var ordinalWords = map[int]string{
	1: "first", 2: "second", 3: "third", 4: "fourth", 5: "fifth", 6: "sixth",
	7: "seventh", 8: "eighth", 9: "ninth", 10: "tenth", 11: "eleventh", 12: "twelfth",
}

func containsHouseNumber(lower string, n int) bool {
	digit := strconv.Itoa(n)
	if strings.Contains(lower, digit) {
		return true
	}
	if word, ok := ordinalWords[n]; ok && strings.Contains(lower, word) {
		return true
	}
	return false
}

// retainsContentWords reports whether at least minFraction of the content
// words (length > 2) in original also appear in corrected.
func retainsContentWords(original, corrected string, minFraction float64) bool {
	lowerCorrected := strings.ToLower(corrected)
	words := strings.Fields(strings.ToLower(original))
	total, retained := 0, 0
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?\"'()")
		if len(w) <= 2 {
			continue
		}
		total++
		if strings.Contains(lowerCorrected, w) {
			retained++
		}
	}
	if total == 0 {
		return true
	}
	return float64(retained)/float64(total) >= minFraction
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
