package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Chunks are kept in insertion order so tie-breaking matches the
// SQLite adapter.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{}
}

// SaveChunks appends a document's chunk set.
func (s *ChunkStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

// SearchByVector returns up to limit chunks in scope, ranked by descending
// cosine similarity. Ties break by insertion order.
func (s *ChunkStore) SearchByVector(
	_ context.Context,
	vector []float32,
	scope domain.ChunkScope,
	limit int,
) ([]domain.ScoredChunk, error) {
	if scope.ConversationID == "" && len(scope.DocumentIDs) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = domain.DefaultRetrievalLimit
	}

	inDocs := make(map[string]bool, len(scope.DocumentIDs))
	for _, id := range scope.DocumentIDs {
		inDocs[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var scored []domain.ScoredChunk
	for _, chunk := range s.chunks {
		inScope := (scope.ConversationID != "" && chunk.ConversationID == scope.ConversationID) ||
			inDocs[chunk.DocumentID]
		if !inScope {
			continue
		}
		scored = append(scored, domain.ScoredChunk{
			Chunk: chunk,
			Score: cosine(vector, chunk.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// GetChunks retrieves all chunks for a document in position order.
func (s *ChunkStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Chunk
	for _, chunk := range s.chunks {
		if chunk.DocumentID == documentID {
			result = append(result, chunk)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Position.Start < result[j].Position.Start
	})
	return result, nil
}

// DeleteDocumentChunks removes all chunk sets for a document.
func (s *ChunkStore) DeleteDocumentChunks(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.chunks[:0]
	for _, chunk := range s.chunks {
		if chunk.DocumentID != documentID {
			kept = append(kept, chunk)
		}
	}
	s.chunks = kept
	return nil
}

// cosine computes cosine similarity between two vectors.
// Mismatched lengths and zero vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
