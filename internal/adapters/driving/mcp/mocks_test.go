package mcp

import (
	"context"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driving"
)

// mockRetrievalService implements driving.RetrievalService for testing.
type mockRetrievalService struct {
	results   []domain.RetrievedChunk
	err       error
	lastQuery domain.RetrievalQuery
}

func (m *mockRetrievalService) Search(_ context.Context, query domain.RetrievalQuery) ([]domain.RetrievedChunk, error) {
	m.lastQuery = query
	return m.results, m.err
}

var _ driving.RetrievalService = (*mockRetrievalService)(nil)

// mockIngestService implements driving.IngestService for testing.
type mockIngestService struct {
	result  *driving.IngestResult
	err     error
	lastReq driving.IngestRequest
}

func (m *mockIngestService) IngestPage(_ context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	m.lastReq = req
	return m.result, m.err
}

var _ driving.IngestService = (*mockIngestService)(nil)

// mockChatService implements driving.ChatService for testing.
type mockChatService struct {
	msg      *domain.Message
	err      error
	lastOpts driving.TurnOptions
}

func (m *mockChatService) NewConversation(_ context.Context, title string) (*domain.Conversation, error) {
	return &domain.Conversation{ID: "conv1", Title: title}, nil
}

func (m *mockChatService) Send(_ context.Context, _, _ string, opts driving.TurnOptions) (*domain.Message, error) {
	m.lastOpts = opts
	return m.msg, m.err
}

func (m *mockChatService) History(_ context.Context, _ string) ([]domain.Message, error) {
	return nil, nil
}

var _ driving.ChatService = (*mockChatService)(nil)
