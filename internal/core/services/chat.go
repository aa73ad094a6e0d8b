package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driven"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driving"
	"github.com/pagechat/pagechat-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// assistantInstructions is the system prompt for retrieval-augmented turns.
const assistantInstructions = `You are a helpful assistant that answers questions about web pages the user has shared.

Ground your answers in the provided page content. When you draw on a source, cite it inline as a markdown link: [title](url). If the provided content does not cover the question, say so rather than guessing.`

// ChatService orchestrates retrieval-augmented conversational turns.
//
// Turns within one conversation are serialised through a per-conversation
// mutex: at most one generation mutates a conversation's placeholder at a
// time, and a second Send waits for the first turn's terminal state.
type ChatService struct {
	convStore         driven.ConversationStore
	retrievalService  driving.RetrievalService
	completionService driven.CompletionService

	mu    sync.Mutex
	turns map[string]*sync.Mutex
}

// NewChatService creates a new chat service. The completion service may be
// nil, in which case Send fails explicitly.
func NewChatService(
	convStore driven.ConversationStore,
	retrievalService driving.RetrievalService,
	completionService driven.CompletionService,
) *ChatService {
	return &ChatService{
		convStore:         convStore,
		retrievalService:  retrievalService,
		completionService: completionService,
		turns:             make(map[string]*sync.Mutex),
	}
}

// NewConversation creates an empty conversation.
func (s *ChatService) NewConversation(ctx context.Context, title string) (*domain.Conversation, error) {
	if strings.TrimSpace(title) == "" {
		title = "New conversation"
	}

	conv := domain.Conversation{
		ID:    uuid.New().String(),
		Title: title,
	}
	if err := s.convStore.SaveConversation(ctx, &conv); err != nil {
		return nil, fmt.Errorf("saving conversation: %w", err)
	}
	return &conv, nil
}

// History returns a conversation's messages in order.
func (s *ChatService) History(ctx context.Context, conversationID string) ([]domain.Message, error) {
	if _, err := s.convStore.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.convStore.ListMessages(ctx, conversationID)
}

// Send stores the user message, creates the assistant placeholder, and runs
// the turn to its terminal state. The returned message reflects the last
// committed content: complete on success, error with any partial content
// retained on failure.
func (s *ChatService) Send(ctx context.Context, conversationID, content string, opts driving.TurnOptions) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty message content", domain.ErrInvalidInput)
	}
	if s.completionService == nil {
		return nil, domain.ErrCompletionUnavailable
	}

	lock := s.turnLock(conversationID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.convStore.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	logger.Section("Conversation Turn")
	logger.Debug("Conversation: %s", conversationID)

	history, err := s.convStore.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	userMsg := domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        content,
		State:          domain.StateComplete,
	}
	if err := s.convStore.AppendMessage(ctx, &userMsg); err != nil {
		return nil, fmt.Errorf("storing user message: %w", err)
	}

	placeholder := domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		State:          domain.StatePending,
	}
	if err := s.convStore.AppendMessage(ctx, &placeholder); err != nil {
		return nil, fmt.Errorf("storing assistant placeholder: %w", err)
	}

	// Retrieval runs before any generation: a retrieval failure fails the
	// turn without ever starting the stream.
	var retrieved []domain.RetrievedChunk
	if opts.Retrieve {
		retrieved, err = s.retrievalService.Search(ctx, domain.RetrievalQuery{
			ConversationID: conversationID,
			DocumentIDs:    opts.DocumentIDs,
			QueryText:      content,
		})
		if err != nil {
			return s.failTurn(ctx, placeholder.ID, fmt.Errorf("retrieving context: %w", err))
		}
		logger.Debug("Retrieved %d context chunks", len(retrieved))
	}

	chatMessages := buildPrompt(retrieved, history, content)

	if err := s.convStore.SetMessageState(ctx, placeholder.ID, domain.StateStreaming, ""); err != nil {
		return nil, fmt.Errorf("starting stream: %w", err)
	}

	// Deltas commit cumulatively: every committed value extends the
	// previous one, so readers never observe content shrinking.
	var cumulative strings.Builder
	streamErr := s.completionService.ChatStream(ctx, chatMessages, driven.ChatOptions{}, func(delta string) error {
		cumulative.WriteString(delta)
		if err := s.convStore.UpdateMessageContent(ctx, placeholder.ID, cumulative.String()); err != nil {
			return fmt.Errorf("committing content: %w", err)
		}
		if opts.Observer != nil {
			opts.Observer(cumulative.String())
		}
		return nil
	})
	if streamErr != nil {
		return s.failTurn(ctx, placeholder.ID, streamErr)
	}

	if err := s.convStore.SetMessageState(ctx, placeholder.ID, domain.StateComplete, ""); err != nil {
		return nil, fmt.Errorf("completing turn: %w", err)
	}

	return s.convStore.GetMessage(ctx, placeholder.ID)
}

// failTurn moves the placeholder to its error state, retaining whatever
// content was committed before the failure.
func (s *ChatService) failTurn(ctx context.Context, messageID string, cause error) (*domain.Message, error) {
	logger.Warn("Turn failed: %v", cause)
	if err := s.convStore.SetMessageState(ctx, messageID, domain.StateError, cause.Error()); err != nil {
		logger.Warn("recording turn failure: %v", err)
	}
	msg, getErr := s.convStore.GetMessage(ctx, messageID)
	if getErr != nil {
		return nil, cause
	}
	return msg, cause
}

// turnLock returns the serialisation lock for a conversation.
func (s *ChatService) turnLock(conversationID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.turns[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		s.turns[conversationID] = lock
	}
	return lock
}

// buildPrompt assembles the chat messages for one turn: the system
// instructions with any retrieved context, the prior completed exchanges,
// and the current user message.
func buildPrompt(retrieved []domain.RetrievedChunk, history []domain.Message, content string) []driven.ChatMessage {
	system := assistantInstructions
	if len(retrieved) > 0 {
		var b strings.Builder
		b.WriteString(system)
		b.WriteString("\n\nRelevant page content:\n")
		for _, chunk := range retrieved {
			b.WriteString("\n---\n")
			if chunk.Title != "" || chunk.URL != "" {
				fmt.Fprintf(&b, "Source: [%s](%s)\n", chunk.Title, chunk.URL)
			}
			b.WriteString(chunk.Text)
			b.WriteString("\n")
		}
		system = b.String()
	}

	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    string(domain.RoleSystem),
		Content: system,
	})

	// Only completed turns feed the prompt; pending placeholders and
	// failed generations are skipped.
	for _, msg := range history {
		if msg.State != domain.StateComplete || msg.Content == "" {
			continue
		}
		messages = append(messages, driven.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	messages = append(messages, driven.ChatMessage{
		Role:    string(domain.RoleUser),
		Content: content,
	})
	return messages
}
