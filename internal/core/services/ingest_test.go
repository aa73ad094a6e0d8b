package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagechat/pagechat-cli/internal/adapters/driven/storage/memory"
	"github.com/pagechat/pagechat-cli/internal/chunker"
	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driving"
	"github.com/pagechat/pagechat-cli/internal/extractor"
)

// ingestFixture bundles the stores behind an IngestService.
type ingestFixture struct {
	svc        *IngestService
	docStore   *memory.DocumentStore
	chunkStore *memory.ChunkStore
	embedding  *mockEmbeddingService
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()
	chk, err := chunker.New()
	require.NoError(t, err)

	f := &ingestFixture{
		docStore:   memory.NewDocumentStore(),
		chunkStore: memory.NewChunkStore(),
		embedding:  &mockEmbeddingService{embedding: []float32{0.1, 0.2}},
	}
	f.svc = NewIngestService(extractor.New(), chk, f.embedding, f.docStore, f.chunkStore)
	return f
}

// longArticle builds an HTML page whose main content spans several chunks.
func longArticle(paragraphs int) string {
	var sb strings.Builder
	sb.WriteString(`<html><head><title>Long Read</title></head><body><article><h1>Long Read</h1>`)
	for i := 0; i < paragraphs; i++ {
		sb.WriteString(fmt.Sprintf(
			"<p>Section %d of the article provides a steady stream of prose so that the chunker has a realistic volume of words to window over when it runs.</p>", i))
	}
	sb.WriteString(`</article></body></html>`)
	return sb.String()
}

func TestIngest_FullPipeline(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	result, err := f.svc.IngestPage(ctx, driving.IngestRequest{
		ConversationID: "conv1",
		URL:            "https://example.com/long-read",
		HTML:           []byte(longArticle(20)),
	})
	require.NoError(t, err)

	assert.Equal(t, "conv1", result.Document.ConversationID)
	assert.Equal(t, "Long Read", result.Document.Title)
	assert.Equal(t, "example.com", result.Document.SiteName)
	assert.Equal(t, len(result.Document.Content), result.Document.Length)
	assert.Positive(t, result.ChunkCount)

	// The stored chunk set carries scope tags and embeddings.
	chunks, err := f.chunkStore.GetChunks(ctx, result.Document.ID)
	require.NoError(t, err)
	require.Len(t, chunks, result.ChunkCount)
	for _, chunk := range chunks {
		assert.Equal(t, result.Document.ID, chunk.DocumentID)
		assert.Equal(t, "conv1", chunk.ConversationID)
		assert.Equal(t, []float32{0.1, 0.2}, chunk.Embedding)
	}

	// One batch round-trip for the whole page.
	assert.Equal(t, 1, f.embedding.batchCalls)
}

func TestIngest_EmbeddingFailureAbandonsChunkSet(t *testing.T) {
	f := newIngestFixture(t)
	f.embedding.embedErr = domain.ErrEmbeddingProvider
	ctx := context.Background()

	_, err := f.svc.IngestPage(ctx, driving.IngestRequest{
		ConversationID: "conv1",
		HTML:           []byte(longArticle(20)),
	})
	require.ErrorIs(t, err, domain.ErrEmbeddingProvider)

	// The document survives with the failure recorded; no chunks at all.
	docs, err := f.docStore.ListDocuments(ctx, "conv1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.NotEmpty(t, docs[0].Error)

	chunks, err := f.chunkStore.GetChunks(ctx, docs[0].ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIngest_ReingestAppendsParallelChunkSet(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	first, err := f.svc.IngestPage(ctx, driving.IngestRequest{
		ConversationID: "conv1",
		URL:            "https://example.com/a",
		HTML:           []byte(longArticle(20)),
	})
	require.NoError(t, err)

	second, err := f.svc.IngestPage(ctx, driving.IngestRequest{
		ConversationID: "conv1",
		URL:            "https://example.com/a",
		HTML:           []byte(longArticle(20)),
	})
	require.NoError(t, err)

	// Re-ingestion creates a new document with its own chunk set; the
	// first set is untouched.
	assert.NotEqual(t, first.Document.ID, second.Document.ID)

	chunks, err := f.chunkStore.GetChunks(ctx, first.Document.ID)
	require.NoError(t, err)
	assert.Len(t, chunks, first.ChunkCount)
}

func TestIngest_ValidatesInput(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	_, err := f.svc.IngestPage(ctx, driving.IngestRequest{HTML: []byte("<p>x</p>")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.IngestPage(ctx, driving.IngestRequest{ConversationID: "conv1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngest_NoEmbeddingServiceConfigured(t *testing.T) {
	f := newIngestFixture(t)
	f.svc = NewIngestService(extractor.New(), mustChunker(t), nil, f.docStore, f.chunkStore)
	ctx := context.Background()

	_, err := f.svc.IngestPage(ctx, driving.IngestRequest{
		ConversationID: "conv1",
		HTML:           []byte(longArticle(20)),
	})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIngest_MetadataFlowsToChunks(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	meta := map[string]any{"origin": "extension"}
	result, err := f.svc.IngestPage(ctx, driving.IngestRequest{
		ConversationID: "conv1",
		HTML:           []byte(longArticle(20)),
		Metadata:       meta,
	})
	require.NoError(t, err)

	chunks, err := f.chunkStore.GetChunks(ctx, result.Document.ID)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.Equal(t, meta, chunk.Metadata)
	}
	assert.Equal(t, meta, result.Document.Metadata)
}

func mustChunker(t *testing.T) *chunker.Chunker {
	t.Helper()
	c, err := chunker.New()
	require.NoError(t, err)
	return c
}
