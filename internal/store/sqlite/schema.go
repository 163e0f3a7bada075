package sqlite

import (
	"context"
	"fmt"
	"strings"
)

// EnsureSchema creates every table, index, and FTS5 trigger the store
// needs, idempotently. Grounded on the teacher's transaction-wrapped DDL
// split/execute pattern.
func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS sources (
		title           TEXT PRIMARY KEY,
		author          TEXT DEFAULT '',
		authority_level INTEGER NOT NULL,
		registered_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rules (
		id                  TEXT PRIMARY KEY,
		original_text       TEXT NOT NULL,
		corrected_text      TEXT DEFAULT '',
		last_corrected_hash TEXT DEFAULT '',
		planet              TEXT DEFAULT '',
		house               INTEGER DEFAULT 0,
		sign                TEXT DEFAULT '',
		nakshatra           TEXT DEFAULT '',
		aspect              TEXT DEFAULT '',
		strength            TEXT DEFAULT '',
		lord_of             INTEGER DEFAULT 0,
		ascendant           TEXT DEFAULT '',
		effects             TEXT NOT NULL DEFAULT '[]',
		polarity            TEXT NOT NULL DEFAULT 'neutral',
		tags                TEXT DEFAULT '[]',
		category             TEXT NOT NULL DEFAULT 'other',
		source_title        TEXT NOT NULL REFERENCES sources(title),
		page                INTEGER DEFAULT 0,
		chapter             TEXT DEFAULT '',
		verse               TEXT DEFAULT '',
		authority_level     INTEGER NOT NULL,
		confidence          REAL NOT NULL,
		extraction_method   TEXT NOT NULL,
		correction          TEXT DEFAULT '',
		validated           INTEGER DEFAULT 0,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rules_source ON rules (source_title);
	CREATE INDEX IF NOT EXISTS idx_rules_authority ON rules (authority_level);
	CREATE INDEX IF NOT EXISTS idx_rules_confidence ON rules (confidence);
	CREATE INDEX IF NOT EXISTS idx_rules_category ON rules (category);
	CREATE INDEX IF NOT EXISTS idx_rules_planet ON rules (planet);
	CREATE INDEX IF NOT EXISTS idx_rules_house ON rules (house);
	CREATE INDEX IF NOT EXISTS idx_rules_sign ON rules (sign);
	CREATE INDEX IF NOT EXISTS idx_rules_nakshatra ON rules (nakshatra);

	CREATE TABLE IF NOT EXISTS extraction_stats (
		id                     TEXT PRIMARY KEY,
		source_title           TEXT NOT NULL,
		sentences_total        INTEGER NOT NULL,
		sentences_astrological INTEGER NOT NULL,
		rules_extracted        INTEGER NOT NULL,
		average_confidence     REAL NOT NULL,
		method                 TEXT DEFAULT '',
		timestamp              TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS correction_audit (
		id         TEXT PRIMARY KEY,
		rule_id    TEXT NOT NULL REFERENCES rules(id),
		accepted   INTEGER NOT NULL,
		reason     TEXT DEFAULT '',
		model_id   TEXT DEFAULT '',
		timestamp  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_correction_audit_rule ON correction_audit (rule_id);

	CREATE VIRTUAL TABLE IF NOT EXISTS rules_fts USING fts5(
		original_text,
		corrected_text,
		effects,
		content=rules,
		content_rowid=rowid
	);

	CREATE TRIGGER IF NOT EXISTS rules_ai AFTER INSERT ON rules BEGIN
		INSERT INTO rules_fts(rowid, original_text, corrected_text, effects)
		VALUES (new.rowid, new.original_text, new.corrected_text, new.effects);
	END;

	CREATE TRIGGER IF NOT EXISTS rules_ad AFTER DELETE ON rules BEGIN
		INSERT INTO rules_fts(rules_fts, rowid, original_text, corrected_text, effects)
		VALUES ('delete', old.rowid, old.original_text, old.corrected_text, old.effects);
	END;

	CREATE TRIGGER IF NOT EXISTS rules_au AFTER UPDATE ON rules BEGIN
		INSERT INTO rules_fts(rules_fts, rowid, original_text, corrected_text, effects)
		VALUES ('delete', old.rowid, old.original_text, old.corrected_text, old.effects);
		INSERT INTO rules_fts(rowid, original_text, corrected_text, effects)
		VALUES (new.rowid, new.original_text, new.corrected_text, new.effects);
	END;
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}

// splitStatements splits ddl at lines ending in ";", keeping each
// CREATE TRIGGER ... END; block together as one statement.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder
	inTrigger := false

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		if strings.HasPrefix(strings.ToUpper(stripped), "CREATE TRIGGER") {
			inTrigger = true
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			if inTrigger && !strings.EqualFold(stripped, "END;") {
				continue
			}
			inTrigger = false
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}
	return statements
}
