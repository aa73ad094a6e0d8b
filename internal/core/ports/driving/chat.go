package driving

import (
	"context"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
)

// TurnOptions configures a single conversational turn.
type TurnOptions struct {
	// Retrieve enables chunk retrieval before generation.
	Retrieve bool

	// DocumentIDs optionally widens the retrieval scope to the union of
	// the conversation and the listed documents.
	DocumentIDs []string

	// Observer, when set, is called after every committed cumulative
	// content value. Used by interactive frontends to display progress.
	Observer func(cumulative string)
}

// ChatService orchestrates retrieval-augmented conversational turns.
type ChatService interface {
	// NewConversation creates an empty conversation.
	NewConversation(ctx context.Context, title string) (*domain.Conversation, error)

	// Send stores the user message, creates the assistant placeholder,
	// and runs the turn to its terminal state. It returns the assistant
	// message as last committed (state complete or error). Turns within
	// one conversation are serialised; a second Send for the same
	// conversation waits for the first's terminal state.
	Send(ctx context.Context, conversationID, content string, opts TurnOptions) (*domain.Message, error)

	// History returns a conversation's messages in order.
	History(ctx context.Context, conversationID string) ([]domain.Message, error)
}
