package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/vedavani/astrology-ai/internal/astroerr"
	"github.com/vedavani/astrology-ai/internal/corrector"
	"github.com/vedavani/astrology-ai/internal/rule"
	"github.com/vedavani/astrology-ai/internal/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Client {
	t.Helper()
	ctx := context.Background()
	c, err := sqlite.New(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	if err := c.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensuring schema: %v", err)
	}
	t.Cleanup(func() { c.Close(ctx) })
	return c
}

func TestIngestBookRejectsMissingSourceTitle(t *testing.T) {
	p := New(newTestStore(t))
	_, err := p.IngestBook(context.Background(), "testdata/does-not-exist.pdf", IngestOptions{})
	if !errors.Is(err, astroerr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// fakeModel returns a fixed JSON response regardless of prompt, letting
// CorrectPending be exercised without a live Ollama server.
type fakeModel struct {
	response string
	err      error
}

func (f *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}

func TestCorrectPendingAcceptsValidCorrection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.RegisterSource(ctx, rule.SourceBook{Title: "Classical Text", AuthorityLevel: rule.AuthorityClassical}); err != nil {
		t.Fatalf("registering source: %v", err)
	}
	outcome, id, err := s.StoreRule(ctx, rule.Rule{
		OriginalText: "Mars in the seventh house causes discord in marriage.",
		Conditions:   rule.Conditions{Planet: "Mars", House: 7},
		Effects:      []string{"discord in marriage"},
		Category:     rule.CategoryPlanetaryPlacement,
		SourceTitle:  "Classical Text",
		Confidence:   0.7,
	})
	if err != nil || outcome != rule.OutcomeStored {
		t.Fatalf("storing rule: outcome=%v err=%v", outcome, err)
	}

	model := &fakeModel{response: `{"corrections":[{"corrected_text":"Mars in the seventh house causes discord in marriage.","confidence":0.9,"fixes_applied":["spacing"]}]}`}

	p := New(s)
	p.Corrector = corrector.New(model, "test-model")

	report, err := p.CorrectPending(ctx, 10)
	if err != nil {
		t.Fatalf("correcting pending: %v", err)
	}
	if report.Attempted != 1 || report.Accepted != 1 || report.Rejected != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	updated, err := s.GetRule(ctx, id)
	if err != nil {
		t.Fatalf("getting rule: %v", err)
	}
	if updated.CorrectedText == "" {
		t.Fatalf("expected corrected_text to be set")
	}
	if updated.Correction == nil || updated.Correction.ModelID != "test-model" {
		t.Fatalf("expected correction audit with model id, got %+v", updated.Correction)
	}
}

func TestCorrectPendingWithoutModelFails(t *testing.T) {
	p := New(newTestStore(t))
	_, err := p.CorrectPending(context.Background(), 10)
	if !errors.Is(err, astroerr.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}
