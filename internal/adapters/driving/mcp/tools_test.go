package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driving"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestPorts_Validate(t *testing.T) {
	err := (&Ports{Ingest: &mockIngestService{}}).Validate()
	assert.ErrorIs(t, err, ErrMissingRetrievalService)

	err = (&Ports{Retrieval: &mockRetrievalService{}}).Validate()
	assert.ErrorIs(t, err, ErrMissingIngestService)

	// Chat is optional.
	err = (&Ports{Retrieval: &mockRetrievalService{}, Ingest: &mockIngestService{}}).Validate()
	assert.NoError(t, err)
}

func TestNewServer_RejectsIncompletePorts(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.Error(t, err)
}

func TestHandleSearch(t *testing.T) {
	retrieval := &mockRetrievalService{results: []domain.RetrievedChunk{
		{Text: "first passage", Score: 0.9, Title: "Example", URL: "https://example.com"},
		{Text: "second passage", Score: 0.4},
	}}
	server := newTestServer(t, &Ports{Retrieval: retrieval, Ingest: &mockIngestService{}})

	_, output, err := server.handleSearch(context.Background(), nil, SearchInput{
		Query:          "passage",
		ConversationID: "conv1",
		DocumentIDs:    []string{"doc2"},
		Limit:          3,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, output.Count)
	require.Len(t, output.Results, 2)
	assert.Equal(t, "first passage", output.Results[0].Text)
	assert.Equal(t, "Example", output.Results[0].Title)
	assert.Equal(t, "https://example.com", output.Results[0].URL)

	// The query passes through untouched.
	assert.Equal(t, "passage", retrieval.lastQuery.QueryText)
	assert.Equal(t, "conv1", retrieval.lastQuery.ConversationID)
	assert.Equal(t, []string{"doc2"}, retrieval.lastQuery.DocumentIDs)
	assert.Equal(t, 3, retrieval.lastQuery.Limit)
}

func TestHandleSearch_Error(t *testing.T) {
	retrieval := &mockRetrievalService{err: domain.ErrEmbeddingUnavailable}
	server := newTestServer(t, &Ports{Retrieval: retrieval, Ingest: &mockIngestService{}})

	_, _, err := server.handleSearch(context.Background(), nil, SearchInput{
		Query:          "q",
		ConversationID: "conv1",
	})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestHandleIngest(t *testing.T) {
	ingest := &mockIngestService{result: &driving.IngestResult{
		Document: domain.Document{
			ID:               "doc1",
			Title:            "An Article",
			ExtractionMethod: domain.ExtractionPrimary,
			Length:           1200,
		},
		ChunkCount: 4,
	}}
	server := newTestServer(t, &Ports{Retrieval: &mockRetrievalService{}, Ingest: ingest})

	_, output, err := server.handleIngest(context.Background(), nil, IngestInput{
		ConversationID:    "conv1",
		URL:               "https://example.com/a",
		HTML:              "<html><body><p>hi</p></body></html>",
		IncludeUIElements: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "doc1", output.DocumentID)
	assert.Equal(t, "An Article", output.Title)
	assert.Equal(t, string(domain.ExtractionPrimary), output.ExtractionMethod)
	assert.Equal(t, 1200, output.Length)
	assert.Equal(t, 4, output.ChunkCount)

	assert.Equal(t, "conv1", ingest.lastReq.ConversationID)
	assert.Equal(t, "https://example.com/a", ingest.lastReq.URL)
	assert.True(t, ingest.lastReq.IncludeUIElements)
	assert.NotEmpty(t, ingest.lastReq.HTML)
}

func TestHandleIngest_Error(t *testing.T) {
	ingest := &mockIngestService{err: domain.ErrExtractionFailed}
	server := newTestServer(t, &Ports{Retrieval: &mockRetrievalService{}, Ingest: ingest})

	_, _, err := server.handleIngest(context.Background(), nil, IngestInput{
		ConversationID: "conv1",
		HTML:           "<html></html>",
	})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestHandleChat(t *testing.T) {
	chat := &mockChatService{msg: &domain.Message{
		ID:      "m1",
		Content: "grounded answer",
		State:   domain.StateComplete,
	}}
	server := newTestServer(t, &Ports{
		Retrieval: &mockRetrievalService{},
		Ingest:    &mockIngestService{},
		Chat:      chat,
	})

	_, output, err := server.handleChat(context.Background(), nil, ChatInput{
		ConversationID: "conv1",
		Message:        "what does the page say?",
		Retrieve:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, "m1", output.MessageID)
	assert.Equal(t, "grounded answer", output.Content)
	assert.Equal(t, string(domain.StateComplete), output.State)
	assert.True(t, chat.lastOpts.Retrieve)
}

func TestHandleChat_FailedTurnStillReported(t *testing.T) {
	// A turn that fails mid-stream returns both the message and the error;
	// the tool surfaces the message so the caller sees partial content.
	chat := &mockChatService{
		msg: &domain.Message{
			ID:      "m1",
			Content: "partial",
			State:   domain.StateError,
			Error:   "stream interrupted",
		},
		err: domain.ErrGenerationStream,
	}
	server := newTestServer(t, &Ports{
		Retrieval: &mockRetrievalService{},
		Ingest:    &mockIngestService{},
		Chat:      chat,
	})

	_, output, err := server.handleChat(context.Background(), nil, ChatInput{
		ConversationID: "conv1",
		Message:        "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StateError), output.State)
	assert.Equal(t, "partial", output.Content)
	assert.Equal(t, "stream interrupted", output.Error)
}
