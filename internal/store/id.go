package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vedavani/astrology-ai/internal/rule"
)

// ComputeID derives a Rule's stable identifier as a pure function of
// (source_title, normalized_text, canonical(conditions)), so re-ingesting
// the same sentence from the same source yields the same id.
func ComputeID(sourceTitle, originalText string, c rule.Conditions) string {
	normalized := normalizeText(originalText)
	canonical := canonicalConditions(c)
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(sourceTitle))))
	h.Write([]byte{0})
	h.Write([]byte(normalized))
	h.Write([]byte{0})
	h.Write([]byte(canonical))
	return hex.EncodeToString(h.Sum(nil))[:32]
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	return strings.Join(fields, " ")
}

// canonicalConditions renders Conditions into a stable, order-independent
// string for hashing.
func canonicalConditions(c rule.Conditions) string {
	return fmt.Sprintf(
		"planet=%s|house=%d|sign=%s|nakshatra=%s|aspect=%s|strength=%s|lord_of=%d|ascendant=%s",
		strings.ToLower(c.Planet), c.House, strings.ToLower(c.Sign), strings.ToLower(c.Nakshatra),
		strings.ToLower(c.Aspect), strings.ToLower(c.Strength), c.LordOf, strings.ToLower(c.Ascendant),
	)
}
