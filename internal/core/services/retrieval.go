package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driven"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driving"
	"github.com/pagechat/pagechat-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService answers filtered nearest-neighbour queries over the
// chunk index and hydrates results with source provenance.
type RetrievalService struct {
	embeddingService driven.EmbeddingService
	chunkStore       driven.ChunkStore
	docStore         driven.DocumentStore
}

// NewRetrievalService creates a new retrieval service. The embedding
// service may be nil, in which case every search fails explicitly.
func NewRetrievalService(
	embeddingService driven.EmbeddingService,
	chunkStore driven.ChunkStore,
	docStore driven.DocumentStore,
) *RetrievalService {
	return &RetrievalService{
		embeddingService: embeddingService,
		chunkStore:       chunkStore,
		docStore:         docStore,
	}
}

// Search embeds the query text and returns up to Limit chunks ranked by
// descending similarity, restricted to the query's scope. An embedding
// failure is an explicit error, never a silently empty result.
func (s *RetrievalService) Search(ctx context.Context, query domain.RetrievalQuery) ([]domain.RetrievedChunk, error) {
	logger.Section("Chunk Retrieval")

	text := strings.TrimSpace(query.QueryText)
	if text == "" {
		return nil, fmt.Errorf("%w: empty query text", domain.ErrInvalidInput)
	}

	scope := query.Scope()
	if scope.ConversationID == "" && len(scope.DocumentIDs) == 0 {
		logger.Debug("Empty scope, returning no results")
		return nil, nil
	}

	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	vector, err := s.embeddingService.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = domain.DefaultRetrievalLimit
	}

	scored, err := s.chunkStore.SearchByVector(ctx, vector, scope, limit)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	logger.Debug("Scope matched %d chunks (limit %d)", len(scored), limit)

	// Hydrate provenance once per distinct document.
	docs := make(map[string]*domain.Document)
	results := make([]domain.RetrievedChunk, 0, len(scored))
	for _, sc := range scored {
		doc, ok := docs[sc.Chunk.DocumentID]
		if !ok {
			doc, err = s.docStore.GetDocument(ctx, sc.Chunk.DocumentID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("loading document %s: %w", sc.Chunk.DocumentID, err)
			}
			docs[sc.Chunk.DocumentID] = doc
		}

		result := domain.RetrievedChunk{
			Text:  sc.Chunk.Text,
			Score: sc.Score,
		}
		if doc != nil {
			result.Title = doc.Title
			result.URL = doc.URL
		}
		results = append(results, result)
	}

	return results, nil
}
