package mcp

import (
	"context"
	"testing"

	"github.com/vedavani/astrology-ai/internal/pipeline"
	"github.com/vedavani/astrology-ai/internal/rule"
	"github.com/vedavani/astrology-ai/internal/store/sqlite"
)

func newTestPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	ctx := context.Background()
	s, err := sqlite.New(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensuring schema: %v", err)
	}
	t.Cleanup(func() { s.Close(ctx) })
	return pipeline.New(s)
}

func TestHandleGetRuleNotFound(t *testing.T) {
	server := NewServer(newTestPipeline(t), "test")

	_, _, err := server.handleGetRule(context.Background(), nil, GetRuleInput{ID: "missing"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestHandleSearchRules(t *testing.T) {
	ctx := context.Background()
	p := newTestPipeline(t)
	if _, err := p.RegisterSource(ctx, rule.SourceBook{Title: "Classical Text", AuthorityLevel: rule.AuthorityClassical}); err != nil {
		t.Fatalf("registering source: %v", err)
	}
	outcome, id, err := p.Store.StoreRule(ctx, rule.Rule{
		OriginalText: "Mars in the seventh house causes discord in marriage.",
		Conditions:   rule.Conditions{Planet: "Mars", House: 7},
		Effects:      []string{"discord in marriage"},
		Category:     rule.CategoryPlanetaryPlacement,
		SourceTitle:  "Classical Text",
		Confidence:   0.75,
	})
	if err != nil || outcome != rule.OutcomeStored {
		t.Fatalf("storing rule: outcome=%v err=%v", outcome, err)
	}

	server := NewServer(p, "test")

	_, output, err := server.handleSearchRules(ctx, nil, SearchRulesInput{Planet: "Mars"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Rules) != 1 || output.Rules[0].ID != id {
		t.Fatalf("unexpected search output: %+v", output)
	}

	_, ruleOut, err := server.handleGetRule(ctx, nil, GetRuleInput{ID: id})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ruleOut.Planet != "Mars" || ruleOut.House != 7 {
		t.Fatalf("unexpected rule output: %+v", ruleOut)
	}
}

func TestHandleListSources(t *testing.T) {
	ctx := context.Background()
	p := newTestPipeline(t)
	if _, err := p.RegisterSource(ctx, rule.SourceBook{Title: "Classical Text", AuthorityLevel: rule.AuthorityClassical}); err != nil {
		t.Fatalf("registering source: %v", err)
	}

	server := NewServer(p, "test")
	_, output, err := server.handleListSources(ctx, nil, ListSourcesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Sources) != 1 || output.Sources[0].Title != "Classical Text" {
		t.Fatalf("unexpected sources output: %+v", output)
	}
}

func TestHandleIngestBookRequiresPathAndTitle(t *testing.T) {
	server := NewServer(newTestPipeline(t), "test")
	_, _, err := server.handleIngestBook(context.Background(), nil, IngestBookInput{})
	if err == nil {
		t.Fatalf("expected error")
	}
}
