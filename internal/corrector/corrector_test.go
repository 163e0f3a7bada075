package corrector

import (
	"context"
	"testing"

	"github.com/vedavani/astrology-ai/internal/rule"
)

type scriptedModel struct {
	response string
	err      error
}

func (m *scriptedModel) Generate(ctx context.Context, prompt string) (string, error) {
	return m.response, m.err
}

func testRule(text string) rule.Rule {
	return rule.Rule{
		ID:           "r1",
		OriginalText: text,
		Conditions:   rule.Conditions{Planet: "Mars", House: 7},
		Effects:      []string{"causes conflict in marriage"},
	}
}

func TestRunBatchAcceptsValidCorrection(t *testing.T) {
	model := &scriptedModel{response: `{"corrections":[{"corrected_text":"Mars in the 7th house causes conflict in marriage.","confidence":0.9,"fixes_applied":["spacing"]}]}`}
	c := New(model, "test-model")

	results, err := c.RunBatch(context.Background(), []rule.Rule{testRule("Mars inthe 7th house causes conflict in marriage.")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].Accept {
		t.Fatalf("expected acceptance, got reason %q", results[0].Reason)
	}
	if len(results[0].Fixes) != 1 || results[0].Fixes[0] != "spacing" {
		t.Fatalf("expected fixes_applied=[spacing], got %v", results[0].Fixes)
	}
}

func TestRunBatchRejectsWrongItemCount(t *testing.T) {
	model := &scriptedModel{response: `{"corrections":[]}`}
	c := New(model, "test-model")

	results, err := c.RunBatch(context.Background(), []rule.Rule{testRule("Mars in the 7th house causes conflict.")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Accept {
		t.Fatal("expected rejection on item-count mismatch")
	}
}

func TestRunBatchRejectsInvalidJSON(t *testing.T) {
	model := &scriptedModel{response: "not json"}
	c := New(model, "test-model")

	results, err := c.RunBatch(context.Background(), []rule.Rule{testRule("Mars in the 7th house causes conflict.")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Accept {
		t.Fatal("expected rejection on invalid JSON")
	}
}

func TestValidateCorrectionRejectsDroppedCondition(t *testing.T) {
	r := testRule("Mars in the 7th house causes conflict in marriage.")
	accept, reason := validateCorrection(r, "Jupiter in the 7th house causes conflict in marriage.")
	if accept {
		t.Fatal("expected rejection when the condition planet is dropped")
	}
	if reason != "identity_violation" {
		t.Fatalf("expected identity_violation, got %q", reason)
	}
}

func TestValidateCorrectionRejectsExtremeLengthRatio(t *testing.T) {
	r := testRule("Mars in the 7th house causes conflict in marriage.")
	accept, reason := validateCorrection(r, "Mars 7th.")
	if accept {
		t.Fatal("expected rejection when the correction is drastically shorter")
	}
	if reason != "length ratio out of bounds" {
		t.Fatalf("expected length ratio rejection, got %q", reason)
	}
}

func TestValidateCorrectionAcceptsFaithfulFix(t *testing.T) {
	r := testRule("Mars inthe 7th house causes conflict in marriage.")
	accept, reason := validateCorrection(r, "Mars in the 7th house causes conflict in marriage.")
	if !accept {
		t.Fatalf("expected acceptance, got reason %q", reason)
	}
}

func TestDigestIsStableAndOrderSensitive(t *testing.T) {
	a := Digest("Mars in the 7th house.")
	b := Digest("Mars in the 7th house.")
	c := Digest("Mars in the 8th house.")
	if a != b {
		t.Fatal("expected identical input to produce identical digests")
	}
	if a == c {
		t.Fatal("expected different input to produce different digests")
	}
}
