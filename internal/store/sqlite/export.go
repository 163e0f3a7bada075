package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/vedavani/astrology-ai/internal/rule"
	"github.com/vedavani/astrology-ai/internal/store"
)

const bundleSchemaVersion = "1"

// Export returns every rule matching filters (ignoring pagination, since a
// bundle is meant to hold a complete working set) plus the SourceBook
// record for each distinct source_title referenced.
func (c *Client) Export(ctx context.Context, filters rule.SearchFilters) (rule.Bundle, error) {
	unpaginated := filters
	unpaginated.Limit = 0
	unpaginated.Offset = 0

	rules, err := c.Search(ctx, unpaginated)
	if err != nil {
		return rule.Bundle{}, fmt.Errorf("exporting rules: %w", err)
	}

	seen := map[string]bool{}
	var sources []rule.SourceBook
	for _, r := range rules {
		if seen[r.SourceTitle] {
			continue
		}
		seen[r.SourceTitle] = true
		src, err := c.GetSource(ctx, r.SourceTitle)
		if err != nil {
			return rule.Bundle{}, fmt.Errorf("exporting source %q: %w", r.SourceTitle, err)
		}
		if src != nil {
			sources = append(sources, *src)
		}
	}
	if sources == nil {
		sources = []rule.SourceBook{}
	}

	return rule.Bundle{
		SchemaVersion:  bundleSchemaVersion,
		ExportedAt:     time.Now().UTC(),
		TotalRules:     len(rules),
		FiltersApplied: &filters,
		Sources:        sources,
		Rules:          rules,
	}, nil
}

// Import merges a bundle into the store under one of three strategies:
//
//   - replace: every rule belonging to a source present in the bundle is
//     deleted before the bundle's rules are inserted, so the bundle
//     becomes those sources' complete rule set.
//   - append: bundle rules are inserted, overwriting any existing row
//     with the same content-derived id.
//   - skip_duplicates: bundle rules are inserted only where no row with
//     that id already exists; existing rows are left untouched.
//
// Source authority levels are immutable: a bundle source whose level
// conflicts with an already-registered source of the same title is
// skipped, and its rules are skipped with it.
func (c *Client) Import(ctx context.Context, bundle rule.Bundle, strategy rule.MergeStrategy) (rule.ImportReport, error) {
	var report rule.ImportReport

	registered := map[string]bool{}
	for _, src := range bundle.Sources {
		existing, err := c.GetSource(ctx, src.Title)
		if err != nil {
			return report, err
		}
		if existing != nil && existing.AuthorityLevel != src.AuthorityLevel {
			continue
		}
		if existing == nil {
			if _, err := c.RegisterSource(ctx, src); err != nil {
				return report, fmt.Errorf("importing source %q: %w", src.Title, err)
			}
			report.SourcesImported++
		}
		registered[src.Title] = true
	}

	if strategy == rule.MergeReplace {
		toClear := map[string]bool{}
		for _, r := range bundle.Rules {
			if registered[r.SourceTitle] {
				toClear[r.SourceTitle] = true
			}
		}
		for title := range toClear {
			if _, err := c.db.ExecContext(ctx, "DELETE FROM rules WHERE source_title = ?", title); err != nil {
				return report, fmt.Errorf("clearing rules for %q: %w", title, err)
			}
		}
	}

	for _, r := range bundle.Rules {
		if !registered[r.SourceTitle] {
			report.RulesSkipped++
			continue
		}

		r.ID = store.ComputeID(r.SourceTitle, r.OriginalText, r.Conditions)

		exists, err := c.GetRule(ctx, r.ID)
		if err != nil {
			return report, err
		}

		switch {
		case exists != nil && strategy == rule.MergeSkipDuplicates:
			report.RulesSkipped++
			continue
		case exists != nil:
			if _, err := c.db.ExecContext(ctx, "DELETE FROM rules WHERE id = ?", r.ID); err != nil {
				return report, fmt.Errorf("replacing rule %q: %w", r.ID, err)
			}
		}

		if r.CreatedAt.IsZero() {
			r.CreatedAt = bundle.ExportedAt
		}
		if r.UpdatedAt.IsZero() {
			r.UpdatedAt = r.CreatedAt
		}
		if err := validateRule(r); err != nil {
			report.RulesSkipped++
			continue
		}
		if err := c.insertRule(ctx, c.db, r); err != nil {
			return report, fmt.Errorf("importing rule %q: %w", r.ID, err)
		}
		report.RulesImported++
	}

	return report, nil
}
