package driven

import (
	"context"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
)

// ConversationStore persists conversations and their ordered messages.
//
// The assistant placeholder message is the only read-modify-write record in
// the system; it must only be mutated by its owning turn's orchestrator.
type ConversationStore interface {
	// SaveConversation stores or updates a conversation.
	SaveConversation(ctx context.Context, conv *domain.Conversation) error

	// GetConversation retrieves a conversation by ID.
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)

	// ListConversations returns all conversations, newest first.
	ListConversations(ctx context.Context) ([]domain.Conversation, error)

	// AppendMessage appends a message to a conversation and increments
	// its message count.
	AppendMessage(ctx context.Context, msg *domain.Message) error

	// GetMessage retrieves a message by ID.
	GetMessage(ctx context.Context, id string) (*domain.Message, error)

	// ListMessages returns a conversation's messages in creation order.
	ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error)

	// UpdateMessageContent replaces a message's content with the
	// cumulative text so far. Commits must be applied in generation
	// order; the store never reorders them.
	UpdateMessageContent(ctx context.Context, id, content string) error

	// SetMessageState transitions a message's lifecycle state, recording
	// a reason when the state is error. Illegal transitions (for example
	// out of a terminal state) are rejected with ErrInvalidInput.
	SetMessageState(ctx context.Context, id string, state domain.MessageState, reason string) error
}
