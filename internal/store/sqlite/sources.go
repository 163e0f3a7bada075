package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vedavani/astrology-ai/internal/astroerr"
	"github.com/vedavani/astrology-ai/internal/rule"
)

// RegisterSource upserts a SourceBook by title. The authority level is
// immutable after first insert: attempting to change it on a second call
// fails with SourceConflict.
func (c *Client) RegisterSource(ctx context.Context, source rule.SourceBook) (rule.SourceBook, error) {
	existing, err := c.GetSource(ctx, source.Title)
	if err != nil {
		return rule.SourceBook{}, err
	}

	if existing != nil {
		if existing.AuthorityLevel != source.AuthorityLevel {
			return rule.SourceBook{}, fmt.Errorf("%w: source %q already registered at authority level %d",
				astroerr.ErrSourceConflict, source.Title, existing.AuthorityLevel)
		}
		return *existing, nil
	}

	if !source.AuthorityLevel.Valid() {
		return rule.SourceBook{}, fmt.Errorf("%w: authority_level must be 1, 2, or 3", astroerr.ErrValidation)
	}

	source.RegisteredAt = time.Now().UTC()
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO sources (title, author, authority_level, registered_at) VALUES (?, ?, ?, ?)`,
		source.Title, source.Author, int(source.AuthorityLevel), source.RegisteredAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return rule.SourceBook{}, fmt.Errorf("registering source: %w", err)
	}
	return source, nil
}

// GetSource returns the registered source by title, or nil if unknown.
func (c *Client) GetSource(ctx context.Context, title string) (*rule.SourceBook, error) {
	row := c.db.QueryRowContext(ctx,
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

// ListSources returns every registered source, ordered by title.
func (c *Client) ListSources(ctx context.Context) ([]rule.SourceBook, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT title, author, authority_level, registered_at FROM sources ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var sources []rule.SourceBook
	for rows.Next() {
		var s rule.SourceBook
		var registeredAt string
		if err := rows.Scan(&s.Title, &s.Author, &s.AuthorityLevel, &registeredAt); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		s.RegisteredAt, err = time.Parse(time.RFC3339Nano, registeredAt)
		if err != nil {
			return nil, fmt.Errorf("parsing registered_at: %w", err)
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}
	if sources == nil {
		sources = []rule.SourceBook{}
	}
	return sources, nil
}
