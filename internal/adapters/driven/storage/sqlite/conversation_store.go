package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driven"
)

// conversationStore implements driven.ConversationStore.
type conversationStore struct {
	store *Store
}

var _ driven.ConversationStore = (*conversationStore)(nil)

// SaveConversation stores or updates a conversation.
func (s *conversationStore) SaveConversation(ctx context.Context, conv *domain.Conversation) error {
	if conv.ID == "" {
		return domain.ErrInvalidInput
	}

	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO conversations (id, title, message_count, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title
	`, conv.ID, conv.Title, conv.MessageCount, conv.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}
	return nil
}

// GetConversation retrieves a conversation by ID.
func (s *conversationStore) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, message_count, created_at
		FROM conversations WHERE id = ?
	`, id)

	var conv domain.Conversation
	if err := row.Scan(&conv.ID, &conv.Title, &conv.MessageCount, &conv.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning conversation: %w", err)
	}

	return &conv, nil
}

// ListConversations returns all conversations, newest first.
func (s *conversationStore) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, message_count, created_at
		FROM conversations
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	var convs []domain.Conversation //nolint:prealloc // size unknown from query
	for rows.Next() {
		var conv domain.Conversation
		if err := rows.Scan(&conv.ID, &conv.Title, &conv.MessageCount, &conv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		convs = append(convs, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}

	return convs, nil
}

// AppendMessage appends a message to a conversation and increments its
// message count, atomically.
func (s *conversationStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	if msg.ID == "" || msg.ConversationID == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	msg.UpdatedAt = now

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, role, content, state, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.ConversationID, string(msg.Role), msg.Content,
		string(msg.State), msg.Error, msg.CreatedAt, msg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE conversations SET message_count = message_count + 1 WHERE id = ?
	`, msg.ConversationID)
	if err != nil {
		return fmt.Errorf("updating message count: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetMessage retrieves a message by ID.
func (s *conversationStore) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, role, content, state, error, created_at, updated_at
		FROM messages WHERE id = ?
	`, id)

	return scanMessage(row.Scan)
}

// ListMessages returns a conversation's messages in creation order.
func (s *conversationStore) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, conversation_id, role, content, state, error, created_at, updated_at
		FROM messages WHERE conversation_id = ?
		ORDER BY rowid
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message //nolint:prealloc // size unknown from query
	for rows.Next() {
		msg, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	return msgs, nil
}

// UpdateMessageContent replaces a message's content with the cumulative
// text so far.
func (s *conversationStore) UpdateMessageContent(ctx context.Context, id, content string) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE messages SET content = ?, updated_at = ? WHERE id = ?
	`, content, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating message content: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetMessageState transitions a message's lifecycle state. The current
// state is read and checked inside the transaction so terminal states
// cannot be left.
func (s *conversationStore) SetMessageState(ctx context.Context, id string, state domain.MessageState, reason string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var current string
	row := tx.QueryRowContext(ctx, "SELECT state FROM messages WHERE id = ?", id)
	if err := row.Scan(&current); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return fmt.Errorf("scanning message state: %w", err)
	}

	if !domain.MessageState(current).CanTransitionTo(state) {
		return fmt.Errorf("%w: cannot transition message from %s to %s",
			domain.ErrInvalidInput, current, state)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE messages SET state = ?, error = ?, updated_at = ? WHERE id = ?
	`, string(state), reason, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating message state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// scanMessage scans a message through any row's Scan function.
func scanMessage(scan func(dest ...any) error) (*domain.Message, error) {
	var msg domain.Message
	var role, state string

	if err := scan(&msg.ID, &msg.ConversationID, &role, &msg.Content,
		&state, &msg.Error, &msg.CreatedAt, &msg.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning message: %w", err)
	}

	msg.Role = domain.MessageRole(role)
	msg.State = domain.MessageState(state)

	return &msg, nil
}
