// Package sqlite is the embedded Knowledge Store backend: a single-file
// sqlite database accessed through modernc.org/sqlite (pure Go, no cgo),
// grounded on the teacher's sqlite store client — same pragma setup, same
// FTS5 + trigger pattern for full text search.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vedavani/astrology-ai/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

// Client is a sqlite-backed Store.
type Client struct {
	db *sql.DB
}

// New opens (and pings) the sqlite database at dsn, a "sqlite://" URL as
// parsed by parseDSN.
func New(ctx context.Context, dsn string) (*Client, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	return &Client{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Client) Close(ctx context.Context) error {
	return c.db.Close()
}
