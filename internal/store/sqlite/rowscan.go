package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vedavani/astrology-ai/internal/rule"
)

const ruleColumns = `
	id, original_text, corrected_text, last_corrected_hash,
	planet, house, sign, nakshatra, aspect, strength, lord_of, ascendant,
	effects, polarity, tags, category, source_title, page, chapter, verse,
	authority_level, confidence, extraction_method, correction, validated,
	created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (rule.Rule, error) {
	var r rule.Rule
	var effectsJSON, tagsJSON, correctionJSON string
	var createdAt, updatedAt string
	var validated int

	err := row.Scan(
		&r.ID, &r.OriginalText, &r.CorrectedText, &r.LastCorrectedHash,
		&r.Conditions.Planet, &r.Conditions.House, &r.Conditions.Sign, &r.Conditions.Nakshatra,
		&r.Conditions.Aspect, &r.Conditions.Strength, &r.Conditions.LordOf, &r.Conditions.Ascendant,
		&effectsJSON, &r.Polarity, &tagsJSON, &r.Category, &r.SourceTitle, &r.Page, &r.Chapter, &r.Verse,
		&r.AuthorityLevel, &r.Confidence, &r.ExtractionMethod, &correctionJSON, &validated,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return rule.Rule{}, fmt.Errorf("scanning rule: %w", err)
	}

	if err := json.Unmarshal([]byte(effectsJSON), &r.Effects); err != nil {
		return rule.Rule{}, fmt.Errorf("unmarshaling effects: %w", err)
	}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &r.Tags); err != nil {
			return rule.Rule{}, fmt.Errorf("unmarshaling tags: %w", err)
		}
	}
	if correctionJSON != "" {
		var corr rule.Correction
		if err := json.Unmarshal([]byte(correctionJSON), &corr); err != nil {
			return rule.Rule{}, fmt.Errorf("unmarshaling correction: %w", err)
		}
		r.Correction = &corr
	}
	r.Validated = validated != 0

	r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return rule.Rule{}, fmt.Errorf("parsing created_at: %w", err)
	}
	r.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return rule.Rule{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return r, nil
}
