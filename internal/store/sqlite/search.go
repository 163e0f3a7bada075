package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/vedavani/astrology-ai/internal/rule"
)

// Search builds a dynamic WHERE clause from the closed set of filter keys
// SearchFilters exposes and orders the single-column orderings in SQL. The
// default relevance ordering (rule.Relevance, a simple weighted sum over
// two already-indexed columns) and Offset/Limit pagination are applied in
// Go after the rows are read.
func (c *Client) Search(ctx context.Context, filters rule.SearchFilters) ([]rule.Rule, error) {
	var where []string
	var args []any

	addEq := func(column string, value any) {
		where = append(where, column+" = ?")
		args = append(args, value)
	}

	if filters.Planet != "" {
		addEq("planet", filters.Planet)
	}
	if filters.House != 0 {
		addEq("house", filters.House)
	}
	if filters.Sign != "" {
		addEq("sign", filters.Sign)
	}
	if filters.Nakshatra != "" {
		addEq("nakshatra", filters.Nakshatra)
	}
	if filters.Ascendant != "" {
		addEq("ascendant", filters.Ascendant)
	}
	if filters.LordOf != 0 {
		addEq("lord_of", filters.LordOf)
	}
	if filters.SourceTitle != "" {
		addEq("source_title", filters.SourceTitle)
	}
	if filters.AuthorityLevel != 0 {
		addEq("authority_level", int(filters.AuthorityLevel))
	}
	if filters.Category != "" {
		addEq("category", string(filters.Category))
	}
	if filters.ExtractionMethod != "" {
		addEq("extraction_method", string(filters.ExtractionMethod))
	}
	if filters.MinConfidence != 0 {
		where = append(where, "confidence >= ?")
		args = append(args, filters.MinConfidence)
	}
	if filters.MaxConfidence != 0 {
		where = append(where, "confidence <= ?")
		args = append(args, filters.MaxConfidence)
	}
	if filters.EffectContains != "" {
		where = append(where, "effects LIKE ?")
		args = append(args, "%"+filters.EffectContains+"%")
	}
	if len(filters.Tags) > 0 {
		var tagClauses []string
		for _, tag := range filters.Tags {
			tagClauses = append(tagClauses, "tags LIKE ?")
			args = append(args, `%"`+tag+`"%`)
		}
		where = append(where, "("+strings.Join(tagClauses, " OR ")+")")
	}

	query := "SELECT " + ruleColumns + " FROM rules"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	// Relevance depends on authority_level and confidence only, so a
	// direct SQL ORDER BY serves every case except "relevance", which is
	// sorted in Go with rule.Relevance over rows read in created_at order.
	switch filters.OrderBy {
	case rule.OrderByConfidence:
		query += " ORDER BY confidence DESC, created_at ASC"
	case rule.OrderByAuthority:
		query += " ORDER BY authority_level ASC, confidence DESC"
	case rule.OrderByCreatedAt:
		query += " ORDER BY created_at DESC"
	default:
		query += " ORDER BY created_at ASC"
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching rules: %w", err)
	}
	defer rows.Close()

	var rules []rule.Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	if filters.OrderBy == "" || filters.OrderBy == rule.OrderByRelevance {
		sortByRelevance(rules)
	}

	rules = paginate(rules, filters.Offset, filters.Limit)
	if rules == nil {
		rules = []rule.Rule{}
	}
	return rules, nil
}

func sortByRelevance(rules []rule.Rule) {
	scores := make([]float64, len(rules))
	for i, r := range rules {
		scores[i] = rule.Relevance(r.AuthorityLevel, r.Confidence)
	}
	for i := 1; i < len(rules); i++ {
		for j := i; j > 0 && scores[j] > scores[j-1]; j-- {
			rules[j], rules[j-1] = rules[j-1], rules[j]
			scores[j], scores[j-1] = scores[j-1], scores[j]
		}
	}
}

func paginate(rules []rule.Rule, offset, limit int) []rule.Rule {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rules) {
		return []rule.Rule{}
	}
	rules = rules[offset:]
	if limit > 0 && limit < len(rules) {
		rules = rules[:limit]
	}
	return rules
}
