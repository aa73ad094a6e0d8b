package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore is an in-memory implementation of driven.ConversationStore.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]domain.Conversation
	convOrder     []string
	messages      map[string]domain.Message
	msgOrder      map[string][]string
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]domain.Conversation),
		messages:      make(map[string]domain.Message),
		msgOrder:      make(map[string][]string),
	}
}

// SaveConversation stores or updates a conversation.
func (s *ConversationStore) SaveConversation(_ context.Context, conv *domain.Conversation) error {
	if conv.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now().UTC()
	}
	if _, exists := s.conversations[conv.ID]; !exists {
		s.convOrder = append(s.convOrder, conv.ID)
	}
	s.conversations[conv.ID] = *conv
	return nil
}

// GetConversation retrieves a conversation by ID.
func (s *ConversationStore) GetConversation(_ context.Context, id string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &conv, nil
}

// ListConversations returns all conversations, newest first.
func (s *ConversationStore) ListConversations(_ context.Context) ([]domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Conversation, 0, len(s.convOrder))
	for i := len(s.convOrder) - 1; i >= 0; i-- {
		result = append(result, s.conversations[s.convOrder[i]])
	}
	return result, nil
}

// AppendMessage appends a message to a conversation and increments its
// message count.
func (s *ConversationStore) AppendMessage(_ context.Context, msg *domain.Message) error {
	if msg.ID == "" || msg.ConversationID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[msg.ConversationID]
	if !ok {
		return domain.ErrNotFound
	}

	now := time.Now().UTC()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	msg.UpdatedAt = now

	s.messages[msg.ID] = *msg
	s.msgOrder[msg.ConversationID] = append(s.msgOrder[msg.ConversationID], msg.ID)

	conv.MessageCount++
	s.conversations[conv.ID] = conv
	return nil
}

// GetMessage retrieves a message by ID.
func (s *ConversationStore) GetMessage(_ context.Context, id string) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &msg, nil
}

// ListMessages returns a conversation's messages in creation order.
func (s *ConversationStore) ListMessages(_ context.Context, conversationID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order := s.msgOrder[conversationID]
	result := make([]domain.Message, 0, len(order))
	for _, id := range order {
		result = append(result, s.messages[id])
	}
	return result, nil
}

// UpdateMessageContent replaces a message's content with the cumulative
// text so far.
func (s *ConversationStore) UpdateMessageContent(_ context.Context, id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return domain.ErrNotFound
	}
	msg.Content = content
	msg.UpdatedAt = time.Now().UTC()
	s.messages[id] = msg
	return nil
}

// SetMessageState transitions a message's lifecycle state.
func (s *ConversationStore) SetMessageState(_ context.Context, id string, state domain.MessageState, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !msg.State.CanTransitionTo(state) {
		return fmt.Errorf("%w: cannot transition message from %s to %s",
			domain.ErrInvalidInput, msg.State, state)
	}
	msg.State = state
	msg.Error = reason
	msg.UpdatedAt = time.Now().UTC()
	s.messages[id] = msg
	return nil
}
