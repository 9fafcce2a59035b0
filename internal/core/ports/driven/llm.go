package driven

import "context"

// LLMService produces text completions. It is used both for answer
// synthesis and for the judge prompts of the evaluator.
type LLMService interface {
	// Complete produces a completion for the prompt.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the completion model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures a single completion call.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	// Zero means the provider default.
	MaxTokens int

	// Temperature controls randomness. Judge calls use 0 so that
	// verdicts are as deterministic as the provider allows.
	Temperature float32
}
