package driven

import (
	"context"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
)

// ChunkStore persists chunks with their embeddings and scope tags, and
// answers filtered nearest-neighbour queries.
//
// Writers only append: existing chunk records are never mutated, so
// concurrent ingestions of independent documents are safe. Re-ingesting a
// document inserts a new, parallel chunk set.
type ChunkStore interface {
	// SaveChunks persists a document's chunk set with embeddings and
	// scope tags. The write is transactional: either all chunks of the
	// call are stored or none.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// SearchByVector returns up to limit chunks in scope, ranked by
	// descending cosine similarity to the query vector. Ties break by
	// chunk insertion order. An empty scope yields an empty result,
	// not an error.
	SearchByVector(ctx context.Context, vector []float32, scope domain.ChunkScope, limit int) ([]domain.ScoredChunk, error)

	// GetChunks retrieves all chunks for a document in position order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteDocumentChunks removes all chunk sets for a document.
	DeleteDocumentChunks(ctx context.Context, documentID string) error
}
