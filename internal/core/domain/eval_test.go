package domain

import (
	"errors"
	"testing"
)

func TestParseEvaluation(t *testing.T) {
	raw := "REASONING: Every claim in the answer appears in context 2.\nVERDICT: GROUNDED"

	ev, err := ParseEvaluation(raw, VerdictGrounded, VerdictNotGrounded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Verdict != VerdictGrounded {
		t.Errorf("expected GROUNDED, got %s", ev.Verdict)
	}
	if ev.Reasoning != "Every claim in the answer appears in context 2." {
		t.Errorf("unexpected reasoning: %q", ev.Reasoning)
	}
}

func TestParseEvaluation_MultilineReasoning(t *testing.T) {
	raw := "REASONING: The answer mentions a refund policy.\nNo such policy appears in the context.\nVERDICT: NOT_GROUNDED"

	ev, err := ParseEvaluation(raw, VerdictGrounded, VerdictNotGrounded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Verdict != VerdictNotGrounded {
		t.Errorf("expected NOT_GROUNDED, got %s", ev.Verdict)
	}
	if ev.Reasoning != "The answer mentions a refund policy. No such policy appears in the context." {
		t.Errorf("unexpected reasoning: %q", ev.Reasoning)
	}
}

func TestParseEvaluation_SurroundingNoise(t *testing.T) {
	raw := "\n  REASONING: Partially useful pricing details.\n  VERDICT: RELEVANT  \n\n"

	ev, err := ParseEvaluation(raw, VerdictRelevant, VerdictNotRelevant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Verdict != VerdictRelevant {
		t.Errorf("expected RELEVANT, got %s", ev.Verdict)
	}
}

func TestParseEvaluation_Malformed(t *testing.T) {
	cases := map[string]string{
		"free form":          "The answer looks fine to me.",
		"missing verdict":    "REASONING: looks good",
		"missing reasoning":  "VERDICT: GROUNDED",
		"unexpected verdict": "REASONING: ok\nVERDICT: MAYBE",
		"wrong judge":        "REASONING: ok\nVERDICT: RELEVANT",
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEvaluation(raw, VerdictGrounded, VerdictNotGrounded)
			if !errors.Is(err, ErrBadVerdict) {
				t.Errorf("expected ErrBadVerdict, got %v", err)
			}
		})
	}
}
