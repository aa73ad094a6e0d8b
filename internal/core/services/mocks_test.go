package services

import (
	"context"

	"github.com/pagechat/pagechat-cli/internal/core/ports/driven"
)

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding  []float32
	embeddings [][]float32
	embedErr   error
	batchCalls int
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.embeddings != nil {
		return m.embeddings[:len(texts)], nil
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int { return len(m.embedding) }

func (m *mockEmbeddingService) ModelName() string { return "mock-embedding" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

var _ driven.EmbeddingService = (*mockEmbeddingService)(nil)

// mockCompletionService implements driven.CompletionService for testing.
// It replays scripted deltas, optionally failing after errAfter deltas.
type mockCompletionService struct {
	deltas    []string
	errAfter  int // fail after this many deltas; -1 means never
	streamErr error
	messages  []driven.ChatMessage
}

func newMockCompletion(deltas ...string) *mockCompletionService {
	return &mockCompletionService{deltas: deltas, errAfter: -1}
}

func (m *mockCompletionService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.messages = messages
	var full string
	for _, d := range m.deltas {
		full += d
	}
	return full, m.streamErr
}

func (m *mockCompletionService) ChatStream(
	_ context.Context,
	messages []driven.ChatMessage,
	_ driven.ChatOptions,
	onDelta func(delta string) error,
) error {
	m.messages = messages
	for i, d := range m.deltas {
		if m.errAfter >= 0 && i == m.errAfter {
			return m.streamErr
		}
		if err := onDelta(d); err != nil {
			return err
		}
	}
	if m.errAfter >= 0 && m.errAfter >= len(m.deltas) {
		return m.streamErr
	}
	return nil
}

func (m *mockCompletionService) ModelName() string { return "mock-completion" }

func (m *mockCompletionService) Ping(_ context.Context) error { return nil }

func (m *mockCompletionService) Close() error { return nil }

var _ driven.CompletionService = (*mockCompletionService)(nil)
