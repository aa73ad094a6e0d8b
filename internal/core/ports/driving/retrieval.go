package driving

import (
	"context"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
)

// RetrievalService answers filtered nearest-neighbour queries over the
// chunk index.
type RetrievalService interface {
	// Search embeds the query text and returns up to Limit chunks ranked
	// by descending similarity, restricted to the query's scope. An empty
	// scope returns an empty result; an embedding failure returns an
	// explicit error, never a silently empty result.
	Search(ctx context.Context, query domain.RetrievalQuery) ([]domain.RetrievedChunk, error)
}
