package sqlite

import (
	"context"
	"testing"

	"github.com/vedavani/astrology-ai/internal/rule"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	c, err := New(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	if err := c.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensuring schema: %v", err)
	}
	t.Cleanup(func() { c.Close(ctx) })
	return c
}

func mustRegisterSource(t *testing.T, c *Client, title string, level rule.AuthorityLevel) {
	t.Helper()
	ctx := context.Background()
	if _, err := c.RegisterSource(ctx, rule.SourceBook{Title: title, AuthorityLevel: level}); err != nil {
		t.Fatalf("registering source %q: %v", title, err)
	}
}

func mustStoreRule(t *testing.T, c *Client, r rule.Rule) string {
	t.Helper()
	ctx := context.Background()
	outcome, id, err := c.StoreRule(ctx, r)
	if err != nil {
		t.Fatalf("storing rule: %v", err)
	}
	if outcome != rule.OutcomeStored {
		t.Fatalf("expected OutcomeStored, got %v", outcome)
	}
	return id
}

func TestSearchFiltersByPlanet(t *testing.T) {
	c := newTestClient(t)
	mustRegisterSource(t, c, "Classical Text", rule.AuthorityClassical)

	mustStoreRule(t, c, rule.Rule{
		OriginalText: "Mars in the seventh house causes discord in marriage.",
		Conditions:   rule.Conditions{Planet: "Mars", House: 7},
		Effects:      []string{"discord in marriage"},
		Category:     rule.CategoryPlanetaryPlacement,
		SourceTitle:  "Classical Text",
		Confidence:   0.75,
	})
	mustStoreRule(t, c, rule.Rule{
		OriginalText: "Venus in the fourth house gives domestic happiness.",
		Conditions:   rule.Conditions{Planet: "Venus", House: 4},
		Effects:      []string{"domestic happiness"},
		Category:     rule.CategoryPlanetaryPlacement,
		SourceTitle:  "Classical Text",
		Confidence:   0.8,
	})

	results, err := c.Search(context.Background(), rule.SearchFilters{Planet: "Mars"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Conditions.Planet != "Mars" {
		t.Fatalf("expected Mars rule, got %+v", results[0])
	}
}

func TestSearchOrdersByRelevanceByDefault(t *testing.T) {
	c := newTestClient(t)
	mustRegisterSource(t, c, "Classical Text", rule.AuthorityClassical)
	mustRegisterSource(t, c, "Modern Guide", rule.AuthorityModern)

	mustStoreRule(t, c, rule.Rule{
		OriginalText: "Modern guide says Mars in the seventh house causes tension.",
		Conditions:   rule.Conditions{Planet: "Mars", House: 7},
		Effects:      []string{"tension"},
		Category:     rule.CategoryPlanetaryPlacement,
		SourceTitle:  "Modern Guide",
		Confidence:   0.9,
	})
	mustStoreRule(t, c, rule.Rule{
		OriginalText: "Classical text says Mars in the seventh house causes discord.",
		Conditions:   rule.Conditions{Planet: "Mars", House: 7},
		Effects:      []string{"discord"},
		Category:     rule.CategoryPlanetaryPlacement,
		SourceTitle:  "Classical Text",
		Confidence:   0.6,
	})

	results, err := c.Search(context.Background(), rule.SearchFilters{Planet: "Mars"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].SourceTitle != "Classical Text" {
		t.Fatalf("expected classical source ranked first by relevance, got %q", results[0].SourceTitle)
	}
}

func TestSearchPagination(t *testing.T) {
	c := newTestClient(t)
	mustRegisterSource(t, c, "Classical Text", rule.AuthorityClassical)

	for i, sign := range []string{"Aries", "Taurus", "Gemini"} {
		mustStoreRule(t, c, rule.Rule{
			OriginalText: "Jupiter in " + sign + " brings fortune, chapter " + string(rune('a'+i)),
			Conditions:   rule.Conditions{Planet: "Jupiter", Sign: sign},
			Effects:      []string{"fortune"},
			Category:     rule.CategoryPlanetaryPlacement,
			SourceTitle:  "Classical Text",
			Confidence:   0.7,
		})
	}

	results, err := c.Search(context.Background(), rule.SearchFilters{
		Planet: "Jupiter", Limit: 2, Offset: 1, OrderBy: rule.OrderByCreatedAt,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestSearchEffectContains(t *testing.T) {
	c := newTestClient(t)
	mustRegisterSource(t, c, "Classical Text", rule.AuthorityClassical)

	mustStoreRule(t, c, rule.Rule{
		OriginalText: "Saturn in the tenth house delays career success.",
		Conditions:   rule.Conditions{Planet: "Saturn", House: 10},
		Effects:      []string{"delays career success"},
		Category:     rule.CategoryPlanetaryPlacement,
		SourceTitle:  "Classical Text",
		Confidence:   0.7,
	})

	results, err := c.Search(context.Background(), rule.SearchFilters{EffectContains: "career"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}
