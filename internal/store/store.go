// Package store defines the Knowledge Store contract; its sqlite
// implementation lives in the store/sqlite subpackage. The interface is kept identical in shape to the
// teacher's store.Store — a thin set of context-first methods any backend
// (sqlite today, a future postgres implementation tomorrow) can satisfy —
// so the rest of the pipeline never depends on a concrete backend.
package store

import (
	"context"

	"github.com/vedavani/astrology-ai/internal/rule"
)

// Store is the durable, queryable home for Rules and SourceBooks.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	RegisterSource(ctx context.Context, source rule.SourceBook) (rule.SourceBook, error)
	GetSource(ctx context.Context, title string) (*rule.SourceBook, error)
	ListSources(ctx context.Context) ([]rule.SourceBook, error)

	StoreRule(ctx context.Context, r rule.Rule) (rule.StoreOutcome, string, error)
	StoreRulesBatch(ctx context.Context, rules []rule.Rule) (int, []string, error)
	GetRule(ctx context.Context, id string) (*rule.Rule, error)
	ApplyCorrection(ctx context.Context, ruleID, correctedText string, audit rule.Correction, digest string) error
	RecordCorrectionAudit(ctx context.Context, entry rule.CorrectionAuditEntry) error

	Search(ctx context.Context, filters rule.SearchFilters) ([]rule.Rule, error)
	ListPendingCorrection(ctx context.Context, limit int) ([]rule.Rule, error)

	RecordExtractionStats(ctx context.Context, stats rule.ExtractionStats) error

	Export(ctx context.Context, filters rule.SearchFilters) (rule.Bundle, error)
	Import(ctx context.Context, bundle rule.Bundle, strategy rule.MergeStrategy) (rule.ImportReport, error)
}
