package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagechat/pagechat-cli/internal/adapters/driven/storage/memory"
	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driven"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driving"
)

// mockRetrieval implements driving.RetrievalService with canned results.
type mockRetrieval struct {
	results []domain.RetrievedChunk
	err     error
}

func (m *mockRetrieval) Search(_ context.Context, _ domain.RetrievalQuery) ([]domain.RetrievedChunk, error) {
	return m.results, m.err
}

var _ driving.RetrievalService = (*mockRetrieval)(nil)

func newChatFixture(completion driven.CompletionService, retrieval driving.RetrievalService) (*ChatService, *memory.ConversationStore) {
	convStore := memory.NewConversationStore()
	if retrieval == nil {
		retrieval = &mockRetrieval{}
	}
	return NewChatService(convStore, retrieval, completion), convStore
}

func TestChat_NewConversation(t *testing.T) {
	svc, _ := newChatFixture(newMockCompletion(), nil)

	conv, err := svc.NewConversation(context.Background(), "Reading list")
	require.NoError(t, err)
	assert.Equal(t, "Reading list", conv.Title)
	assert.NotEmpty(t, conv.ID)

	unnamed, err := svc.NewConversation(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, "New conversation", unnamed.Title)
}

func TestChat_SendCompletesTurn(t *testing.T) {
	completion := newMockCompletion("Hello", ", ", "world!")
	svc, _ := newChatFixture(completion, nil)
	ctx := context.Background()

	conv, err := svc.NewConversation(ctx, "t")
	require.NoError(t, err)

	msg, err := svc.Send(ctx, conv.ID, "hi", driving.TurnOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.StateComplete, msg.State)
	assert.Equal(t, "Hello, world!", msg.Content)
	assert.Equal(t, domain.RoleAssistant, msg.Role)

	history, err := svc.History(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "hi", history[0].Content)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
}

func TestChat_ObserverSeesMonotonicCumulativeContent(t *testing.T) {
	completion := newMockCompletion("a", "b", "c")
	svc, _ := newChatFixture(completion, nil)
	ctx := context.Background()

	conv, err := svc.NewConversation(ctx, "t")
	require.NoError(t, err)

	var observed []string
	_, err = svc.Send(ctx, conv.ID, "go", driving.TurnOptions{
		Observer: func(cumulative string) { observed = append(observed, cumulative) },
	})
	require.NoError(t, err)

	// Every committed value extends the previous one.
	require.Equal(t, []string{"a", "ab", "abc"}, observed)
}

func TestChat_StreamErrorRetainsPartialContent(t *testing.T) {
	completion := newMockCompletion("Hi ", "there!", "never sent")
	completion.errAfter = 2
	completion.streamErr = domain.ErrGenerationStream
	svc, _ := newChatFixture(completion, nil)
	ctx := context.Background()

	conv, err := svc.NewConversation(ctx, "t")
	require.NoError(t, err)

	msg, err := svc.Send(ctx, conv.ID, "go", driving.TurnOptions{})
	require.ErrorIs(t, err, domain.ErrGenerationStream)
	require.NotNil(t, msg)

	assert.Equal(t, domain.StateError, msg.State)
	assert.Equal(t, "Hi there!", msg.Content)
	assert.NotEmpty(t, msg.Error)
}

func TestChat_RetrievalFailureAbortsBeforeGeneration(t *testing.T) {
	completion := newMockCompletion("should not run")
	retrieval := &mockRetrieval{err: domain.ErrEmbeddingProvider}
	svc, _ := newChatFixture(completion, retrieval)
	ctx := context.Background()

	conv, err := svc.NewConversation(ctx, "t")
	require.NoError(t, err)

	msg, err := svc.Send(ctx, conv.ID, "go", driving.TurnOptions{Retrieve: true})
	require.Error(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, domain.StateError, msg.State)
	assert.Empty(t, msg.Content)

	// The stream never started.
	assert.Nil(t, completion.messages)
}

func TestChat_RetrievedContextEntersPrompt(t *testing.T) {
	completion := newMockCompletion("answer")
	retrieval := &mockRetrieval{results: []domain.RetrievedChunk{
		{Text: "relevant passage", Title: "Example", URL: "https://example.com", Score: 0.9},
	}}
	svc, _ := newChatFixture(completion, retrieval)
	ctx := context.Background()

	conv, err := svc.NewConversation(ctx, "t")
	require.NoError(t, err)

	_, err = svc.Send(ctx, conv.ID, "what does it say?", driving.TurnOptions{Retrieve: true})
	require.NoError(t, err)

	require.NotEmpty(t, completion.messages)
	system := completion.messages[0]
	assert.Equal(t, "system", system.Role)
	assert.Contains(t, system.Content, "relevant passage")
	assert.Contains(t, system.Content, "[Example](https://example.com)")

	last := completion.messages[len(completion.messages)-1]
	assert.Equal(t, "user", last.Role)
	assert.Equal(t, "what does it say?", last.Content)
}

func TestChat_FailedTurnsExcludedFromLaterPrompts(t *testing.T) {
	failing := newMockCompletion("partial")
	failing.errAfter = 1
	failing.streamErr = domain.ErrGenerationStream

	convStore := memory.NewConversationStore()
	svc := NewChatService(convStore, &mockRetrieval{}, failing)
	ctx := context.Background()

	conv, err := svc.NewConversation(ctx, "t")
	require.NoError(t, err)

	_, err = svc.Send(ctx, conv.ID, "first", driving.TurnOptions{})
	require.Error(t, err)

	// Second turn with a fresh, succeeding completion.
	ok := newMockCompletion("fine")
	svc2 := NewChatService(convStore, &mockRetrieval{}, ok)
	_, err = svc2.Send(ctx, conv.ID, "second", driving.TurnOptions{})
	require.NoError(t, err)

	for _, m := range ok.messages {
		assert.NotEqual(t, "partial", m.Content)
	}
}

func TestChat_TurnsSerialisedPerConversation(t *testing.T) {
	var active, maxActive int32
	completion := &concurrencyProbe{active: &active, maxActive: &maxActive}
	svc, _ := newChatFixture(completion, nil)
	ctx := context.Background()

	conv, err := svc.NewConversation(ctx, "t")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Send(ctx, conv.ID, "msg", driving.TurnOptions{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxActive), "turns overlapped")

	history, err := svc.History(ctx, conv.ID)
	require.NoError(t, err)
	assert.Len(t, history, 8)
	for _, msg := range history {
		assert.True(t, msg.State.Terminal())
	}
}

func TestChat_UnknownConversation(t *testing.T) {
	svc, _ := newChatFixture(newMockCompletion("x"), nil)

	_, err := svc.Send(context.Background(), "missing", "hi", driving.TurnOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.History(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChat_EmptyContentRejected(t *testing.T) {
	svc, _ := newChatFixture(newMockCompletion("x"), nil)

	_, err := svc.Send(context.Background(), "conv", "   ", driving.TurnOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChat_NoCompletionServiceConfigured(t *testing.T) {
	svc, _ := newChatFixture(nil, nil)

	_, err := svc.Send(context.Background(), "conv", "hi", driving.TurnOptions{})
	assert.ErrorIs(t, err, domain.ErrCompletionUnavailable)
}

// concurrencyProbe records how many streams run at once.
type concurrencyProbe struct {
	active    *int32
	maxActive *int32
}

func (p *concurrencyProbe) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return "done", nil
}

func (p *concurrencyProbe) ChatStream(
	_ context.Context,
	_ []driven.ChatMessage,
	_ driven.ChatOptions,
	onDelta func(delta string) error,
) error {
	n := atomic.AddInt32(p.active, 1)
	defer atomic.AddInt32(p.active, -1)
	for {
		old := atomic.LoadInt32(p.maxActive)
		if n <= old || atomic.CompareAndSwapInt32(p.maxActive, old, n) {
			break
		}
	}
	return onDelta("done")
}

func (p *concurrencyProbe) ModelName() string { return "probe" }

func (p *concurrencyProbe) Ping(_ context.Context) error { return nil }

func (p *concurrencyProbe) Close() error { return nil }

var _ driven.CompletionService = (*concurrencyProbe)(nil)
