package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pagechat/pagechat-cli/internal/chunker"
	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driven"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driving"
	"github.com/pagechat/pagechat-cli/internal/extractor"
	"github.com/pagechat/pagechat-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the write path: extract, chunk, embed, index.
type IngestService struct {
	extractor        *extractor.Extractor
	chunker          *chunker.Chunker
	embeddingService driven.EmbeddingService
	docStore         driven.DocumentStore
	chunkStore       driven.ChunkStore
}

// NewIngestService creates a new ingest service. The embedding service may
// be nil, in which case pages are stored without an indexed chunk set.
func NewIngestService(
	ext *extractor.Extractor,
	chk *chunker.Chunker,
	embeddingService driven.EmbeddingService,
	docStore driven.DocumentStore,
	chunkStore driven.ChunkStore,
) *IngestService {
	return &IngestService{
		extractor:        ext,
		chunker:          chk,
		embeddingService: embeddingService,
		docStore:         docStore,
		chunkStore:       chunkStore,
	}
}

// IngestPage extracts a page snapshot, splits it into chunks, embeds them in
// one batch, and persists the chunk set. Embedding failure abandons the
// chunk set without partial commits; the document is kept with its failure
// reason recorded.
func (s *IngestService) IngestPage(ctx context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	if req.ConversationID == "" {
		return nil, fmt.Errorf("%w: conversation ID is required", domain.ErrInvalidInput)
	}
	if len(req.HTML) == 0 {
		return nil, fmt.Errorf("%w: empty page snapshot", domain.ErrInvalidInput)
	}

	logger.Section("Page Ingestion")
	logger.Debug("URL: %s (%d bytes)", req.URL, len(req.HTML))

	page, err := extractor.NewPage(req.HTML, req.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	extracted := s.extractor.Extract(page, extractor.Options{
		IncludeUIElements: req.IncludeUIElements,
	})
	if strings.TrimSpace(extracted.Content) == "" {
		return nil, fmt.Errorf("%w: document produced no text", domain.ErrExtractionFailed)
	}

	doc := domain.Document{
		ID:               uuid.New().String(),
		ConversationID:   req.ConversationID,
		URL:              extracted.URL,
		Title:            extracted.Title,
		SiteName:         extracted.SiteName,
		Content:          extracted.Content,
		Excerpt:          extracted.Excerpt,
		Length:           extracted.Length,
		ExtractionMethod: extracted.Method,
		Metadata:         req.Metadata,
		CreatedAt:        extracted.Timestamp,
	}

	if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}

	chunks := s.chunker.Split(extracted.Content, req.Metadata)
	for i := range chunks {
		chunks[i].DocumentID = doc.ID
		chunks[i].ConversationID = doc.ConversationID
	}
	logger.Debug("Split into %d chunks via %s extraction", len(chunks), extracted.Method)

	if len(chunks) == 0 {
		return &driving.IngestResult{Document: doc}, nil
	}

	if s.embeddingService == nil {
		doc.Error = domain.ErrEmbeddingUnavailable.Error()
		if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
			logger.Warn("recording ingest failure: %v", err)
		}
		return nil, domain.ErrEmbeddingUnavailable
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		// The whole chunk set is abandoned; nothing partial is stored.
		doc.Error = err.Error()
		if saveErr := s.docStore.SaveDocument(ctx, &doc); saveErr != nil {
			logger.Warn("recording ingest failure: %v", saveErr)
		}
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}

	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if err := s.chunkStore.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("saving chunks: %w", err)
	}

	logger.Info("Ingested %q: %d chunks indexed", doc.Title, len(chunks))
	return &driving.IngestResult{
		Document:   doc,
		ChunkCount: len(chunks),
	}, nil
}
