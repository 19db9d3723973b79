package driven

import "context"

// Generator produces text completions for answer grounding.
// This is an optional service - when nil, answers degrade to a
// retrieval-only listing of document snippets.
//
// The core treats any failure (timeout, API error, empty content)
// uniformly as "no generation available" and still produces a
// well-formed response.
type Generator interface {
	// Complete produces a completion for the prompt.
	Complete(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
