package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
)

func TestConfigStore(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("openai.model", "gpt-4o-mini"))
	require.NoError(t, store.Set("chunker.size", 120))

	assert.Equal(t, "gpt-4o-mini", store.GetString("openai.model"))
	assert.Equal(t, 120, store.GetInt("chunker.size"))
	assert.ElementsMatch(t, []string{"openai.model", "chunker.size"}, store.Keys())

	require.NoError(t, store.Delete("openai.model"))
	_, ok := store.Get("openai.model")
	assert.False(t, ok)

	// Missing and mistyped keys degrade to zero values.
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("chunker.missing"))
	require.NoError(t, store.Set("not-a-number", "x"))
	assert.Equal(t, 0, store.GetInt("not-a-number"))
}

func TestConversationStore_ListNewestFirst(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	require.NoError(t, store.SaveConversation(ctx, &domain.Conversation{ID: "c1"}))
	require.NoError(t, store.SaveConversation(ctx, &domain.Conversation{ID: "c2"}))

	list, err := store.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c2", list[0].ID)
	assert.Equal(t, "c1", list[1].ID)
}

func TestConversationStore_TransitionGuard(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	require.NoError(t, store.SaveConversation(ctx, &domain.Conversation{ID: "c1"}))
	require.NoError(t, store.AppendMessage(ctx, &domain.Message{
		ID: "m1", ConversationID: "c1", Role: domain.RoleAssistant, State: domain.StatePending,
	}))

	require.NoError(t, store.SetMessageState(ctx, "m1", domain.StateStreaming, ""))
	require.NoError(t, store.SetMessageState(ctx, "m1", domain.StateError, "boom"))

	// Terminal states cannot be left.
	err := store.SetMessageState(ctx, "m1", domain.StateStreaming, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	msg, err := store.GetMessage(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateError, msg.State)
	assert.Equal(t, "boom", msg.Error)
}

func TestConversationStore_AppendRequiresConversation(t *testing.T) {
	store := NewConversationStore()

	err := store.AppendMessage(context.Background(), &domain.Message{
		ID: "m1", ConversationID: "missing", Role: domain.RoleUser,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListOldestFirst(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: id, ConversationID: "conv1"}))
	}

	docs, err := store.ListDocuments(ctx, "conv1")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "c", docs[2].ID)
}

func TestChunkStore_DeleteDocumentChunks(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "a", DocumentID: "doc1", ConversationID: "conv1"},
		{ID: "b", DocumentID: "doc2", ConversationID: "conv1"},
	}))

	require.NoError(t, store.DeleteDocumentChunks(ctx, "doc1"))

	remaining, err := store.GetChunks(ctx, "doc1")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	kept, err := store.GetChunks(ctx, "doc2")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
