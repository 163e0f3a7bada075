package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vedavani/astrology-ai/internal/astroerr"
	"github.com/vedavani/astrology-ai/internal/rule"
	"github.com/vedavani/astrology-ai/internal/store"
)

func textDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// StoreRule computes the rule's deterministic id and inserts it
// atomically. A pre-existing id is a no-op ("duplicate, not stored").
// An unknown source_title fails with UnknownSource; an out-of-range
// authority_level or missing effect/condition fails with ValidationError.
func (c *Client) StoreRule(ctx context.Context, r rule.Rule) (rule.StoreOutcome, string, error) {
	if err := validateRule(r); err != nil {
		return rule.OutcomeRejected, "", err
	}

	source, err := c.GetSource(ctx, r.SourceTitle)
	if err != nil {
		return rule.OutcomeRejected, "", err
	}
	if source == nil {
		return rule.OutcomeRejected, "", fmt.Errorf("%w: %q", astroerr.ErrUnknownSource, r.SourceTitle)
	}

	r.ID = store.ComputeID(r.SourceTitle, r.OriginalText, r.Conditions)
	r.AuthorityLevel = source.AuthorityLevel

	existing, err := c.GetRule(ctx, r.ID)
	if err != nil {
		return rule.OutcomeRejected, "", err
	}
	if existing != nil {
		return rule.OutcomeDuplicate, r.ID, nil
	}

	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now

	if err := c.insertRule(ctx, c.db, r); err != nil {
		return rule.OutcomeRejected, "", err
	}
	return rule.OutcomeStored, r.ID, nil
}

// StoreRulesBatch runs every rule through StoreRule within a single
// transaction. A per-row validation or duplicate outcome does not abort
// the batch; it is simply not counted as inserted.
func (c *Client) StoreRulesBatch(ctx context.Context, rules []rule.Rule) (int, []string, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("beginning batch transaction: %w", err)
	}
	defer tx.Rollback()

	var warnings []string
	inserted := 0
	now := time.Now().UTC()

	for _, r := range rules {
		if err := validateRule(r); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", r.OriginalText, err))
			continue
		}

		source, err := c.getSourceTx(ctx, tx, r.SourceTitle)
		if err != nil {
			return 0, nil, err
		}
		if source == nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", r.OriginalText, fmt.Errorf("%w: %q", astroerr.ErrUnknownSource, r.SourceTitle)))
			continue
		}

		r.ID = store.ComputeID(r.SourceTitle, r.OriginalText, r.Conditions)
		r.AuthorityLevel = source.AuthorityLevel

		exists, err := ruleExistsTx(ctx, tx, r.ID)
		if err != nil {
			return 0, nil, err
		}
		if exists {
			continue
		}

		r.CreatedAt, r.UpdatedAt = now, now
		if err := c.insertRule(ctx, tx, r); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", r.OriginalText, err))
			continue
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("committing batch: %w", err)
	}
	return inserted, warnings, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (c *Client) insertRule(ctx context.Context, ex execer, r rule.Rule) error {
	effectsJSON, err := json.Marshal(r.Effects)
	if err != nil {
		return fmt.Errorf("marshaling effects: %w", err)
	}
	tagsJSON, err := json.Marshal(r.Tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}
	var correctionJSON string
	if r.Correction != nil {
		b, err := json.Marshal(r.Correction)
		if err != nil {
			return fmt.Errorf("marshaling correction: %w", err)
		}
		correctionJSON = string(b)
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO rules (
			id, original_text, corrected_text, last_corrected_hash,
			planet, house, sign, nakshatra, aspect, strength, lord_of, ascendant,
			effects, polarity, tags, category, source_title, page, chapter, verse,
			authority_level, confidence, extraction_method, correction, validated,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID, r.OriginalText, r.CorrectedText, r.LastCorrectedHash,
		r.Conditions.Planet, r.Conditions.House, r.Conditions.Sign, r.Conditions.Nakshatra,
		r.Conditions.Aspect, r.Conditions.Strength, r.Conditions.LordOf, r.Conditions.Ascendant,
		string(effectsJSON), string(r.Polarity), string(tagsJSON), string(r.Category), r.SourceTitle,
		r.Page, r.Chapter, r.Verse, int(r.AuthorityLevel), r.Confidence, string(r.ExtractionMethod),
		correctionJSON, boolToInt(r.Validated), r.CreatedAt.Format(time.RFC3339Nano), r.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting rule: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// GetRule returns the rule by id, or nil if it does not exist.
func (c *Client) GetRule(ctx context.Context, id string) (*rule.Rule, error) {
	var exists string
	err := c.db.QueryRowContext(ctx, "SELECT id FROM rules WHERE id = ?", id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("checking rule existence: %w", err)
	}

	row := c.db.QueryRowContext(ctx, "SELECT "+ruleColumns+" FROM rules WHERE id = ?", id)
	r, err := scanRule(row)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func ruleExistsTx(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	var found string
	err := tx.QueryRowContext(ctx, "SELECT id FROM rules WHERE id = ?", id).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("checking rule existence: %w", err)
	}
	return true, nil
}

func (c *Client) getSourceTx(ctx context.Context, tx *sql.Tx, title string) (*rule.SourceBook, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT title, author, authority_level, registered_at FROM sources WHERE title = ?`, title)
	var s rule.SourceBook
	var registeredAt string
	err := row.Scan(&s.Title, &s.Author, &s.AuthorityLevel, &registeredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting source: %w", err)
	}
	s.RegisteredAt, err = time.Parse(time.RFC3339Nano, registeredAt)
	if err != nil {
		return nil, fmt.Errorf("parsing registered_at: %w", err)
	}
	return &s, nil
}

// ApplyCorrection writes back corrected_text and the correction audit
// record, updating updated_at. Every other field (id, conditions, effects,
// source_title, authority_level, confidence, created_at) is left
// untouched, per the ownership invariant.
func (c *Client) ApplyCorrection(ctx context.Context, ruleID, correctedText string, audit rule.Correction, digest string) error {
	correctionJSON, err := json.Marshal(audit)
	if err != nil {
		return fmt.Errorf("marshaling correction audit: %w", err)
	}
	res, err := c.db.ExecContext(ctx, `
		UPDATE rules SET corrected_text = ?, correction = ?, last_corrected_hash = ?, updated_at = ?
		WHERE id = ?
	`, correctedText, string(correctionJSON), digest, time.Now().UTC().Format(time.RFC3339Nano), ruleID)
	if err != nil {
		return fmt.Errorf("applying correction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking correction update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: rule %q", astroerr.ErrNotFound, ruleID)
	}
	return nil
}

// RecordCorrectionAudit appends one accept/reject decision to the
// append-only correction_audit trail, independent of whether the
// correction was written back to the rule.
func (c *Client) RecordCorrectionAudit(ctx context.Context, entry rule.CorrectionAuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO correction_audit (id, rule_id, accepted, reason, model_id, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.RuleID, boolToInt(entry.Accepted), entry.Reason, entry.ModelID, entry.Timestamp.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording correction audit: %w", err)
	}
	return nil
}

// ListPendingCorrection returns up to limit rules whose last_corrected_hash
// does not match sha256(original_text), i.e. rules the corrector has never
// processed or whose text changed since. The comparison runs in Go since
// sqlite has no built-in sha256, scanning oldest-first until limit rules
// qualify or the table is exhausted.
func (c *Client) ListPendingCorrection(ctx context.Context, limit int) ([]rule.Rule, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT "+ruleColumns+" FROM rules ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("listing pending corrections: %w", err)
	}
	defer rows.Close()

	var rules []rule.Rule
	for rows.Next() {
		if len(rules) >= limit {
			break
		}
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		if r.LastCorrectedHash != textDigest(r.OriginalText) {
			rules = append(rules, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending corrections: %w", err)
	}
	return rules, nil
}

// RecordExtractionStats appends a per-source audit record.
func (c *Client) RecordExtractionStats(ctx context.Context, stats rule.ExtractionStats) error {
	if stats.ID == "" {
		stats.ID = uuid.NewString()
	}
	if stats.Timestamp.IsZero() {
		stats.Timestamp = time.Now().UTC()
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO extraction_stats (
			id, source_title, sentences_total, sentences_astrological,
			rules_extracted, average_confidence, method, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, stats.ID, stats.SourceTitle, stats.SentencesTotal, stats.SentencesAstro,
		stats.RulesExtracted, stats.AverageConfidence, stats.Method, stats.Timestamp.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording extraction stats: %w", err)
	}
	return nil
}

// validateRule checks the invariants that must hold before a row is ever
// written: confidence range, authority-level range (when a level is set;
// StoreRule and StoreRulesBatch take the level from the registered source),
// non-empty effects, at least one of {planet, house, sign}, house range,
// and a non-empty source_title.
func validateRule(r rule.Rule) error {
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of range", astroerr.ErrValidation, r.Confidence)
	}
	if r.AuthorityLevel != 0 && !r.AuthorityLevel.Valid() {
		return fmt.Errorf("%w: authority_level %d out of range", astroerr.ErrValidation, r.AuthorityLevel)
	}
	if len(r.Effects) == 0 {
		return fmt.Errorf("%w: rule has no effects", astroerr.ErrValidation)
	}
	if !r.Conditions.HasAnyOf() {
		return fmt.Errorf("%w: rule has no planet, house, or sign", astroerr.ErrValidation)
	}
	if r.Conditions.House != 0 && (r.Conditions.House < 1 || r.Conditions.House > 12) {
		return fmt.Errorf("%w: house %d out of range", astroerr.ErrValidation, r.Conditions.House)
	}
	if r.SourceTitle == "" {
		return fmt.Errorf("%w: rule has no source_title", astroerr.ErrValidation)
	}
	return nil
}
