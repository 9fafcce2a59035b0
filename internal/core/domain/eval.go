package domain

import (
	"fmt"
	"strings"
)

// Verdict is the outcome of a judge call.
type Verdict string

// Verdicts for the groundedness judge.
const (
	VerdictGrounded    Verdict = "GROUNDED"
	VerdictNotGrounded Verdict = "NOT_GROUNDED"
)

// Verdicts for the relevance judge.
const (
	VerdictRelevant    Verdict = "RELEVANT"
	VerdictNotRelevant Verdict = "NOT_RELEVANT"
)

// Evaluation is a parsed judge response: a short rationale followed by a
// verdict. Evaluations are advisory signals; a negative verdict does not
// retract the answer that was already produced.
type Evaluation struct {
	Reasoning string
	Verdict   Verdict
}

// ParseEvaluation parses the fixed two-line judge output format:
//
//	REASONING: <explanation>
//	VERDICT: <verdict>
//
// The reasoning may span multiple lines; the verdict line terminates it.
// Anything else returns ErrBadVerdict so judges can be scripted without
// free-form parsing.
func ParseEvaluation(raw string, allowed ...Verdict) (Evaluation, error) {
	var (
		ev            Evaluation
		seenReasoning bool
		reasoning     []string
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "REASONING:"):
			seenReasoning = true
			reasoning = append(reasoning, strings.TrimSpace(strings.TrimPrefix(line, "REASONING:")))
		case strings.HasPrefix(line, "VERDICT:"):
			if !seenReasoning {
				return Evaluation{}, fmt.Errorf("%w: verdict before reasoning", ErrBadVerdict)
			}
			ev.Reasoning = strings.TrimSpace(strings.Join(reasoning, " "))
			verdict := Verdict(strings.TrimSpace(strings.TrimPrefix(line, "VERDICT:")))
			for _, a := range allowed {
				if verdict == a {
					ev.Verdict = verdict
					return ev, nil
				}
			}
			return Evaluation{}, fmt.Errorf("%w: unexpected verdict %q", ErrBadVerdict, verdict)
		case seenReasoning && line != "":
			// Continuation of a multi-line rationale.
			reasoning = append(reasoning, line)
		}
	}

	if !seenReasoning {
		return Evaluation{}, fmt.Errorf("%w: missing REASONING line", ErrBadVerdict)
	}
	return Evaluation{}, fmt.Errorf("%w: missing VERDICT line", ErrBadVerdict)
}
