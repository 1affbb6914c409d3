package core

import "context"

// LLMProvider abstracts the generative model so the streaming pipeline never
// depends on a specific vendor SDK.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)

	// GenerateStream emits answer fragments as the model produces them. The
	// text channel is closed when generation completes; at most one error is
	// sent on the error channel.
	GenerateStream(ctx context.Context, systemPrompt string, userPrompt string) (<-chan string, <-chan error)
}
