package driven

import "context"

// CompletionService produces conversational completions.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini and compatible chat completion APIs)
//   - Local inference servers exposing the same wire format
type CompletionService interface {
	// Chat conducts a multi-turn conversation and returns the full reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ChatStream conducts a multi-turn conversation, invoking onDelta for
	// every incremental token/delta in generation order. Deltas are
	// fragments, not cumulative text; the caller accumulates. If onDelta
	// returns an error the stream is abandoned and that error returned.
	ChatStream(ctx context.Context, messages []ChatMessage, opts ChatOptions, onDelta func(delta string) error) error

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
