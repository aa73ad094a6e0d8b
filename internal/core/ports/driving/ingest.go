package driving

import (
	"context"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
)

// IngestRequest describes one page snapshot to ingest.
type IngestRequest struct {
	// ConversationID is the conversation the page belongs to.
	ConversationID string

	// URL is the page location the snapshot was taken from.
	URL string

	// HTML is the raw page snapshot. Owned by the call; never persisted.
	HTML []byte

	// IncludeUIElements additionally harvests header/nav/sidebar/footer
	// regions during extraction.
	IncludeUIElements bool

	// Metadata is attached to every chunk produced from the page.
	Metadata map[string]any
}

// IngestResult reports what an ingestion produced.
type IngestResult struct {
	// Document is the persisted page record.
	Document domain.Document

	// ChunkCount is the number of chunks stored for the page.
	ChunkCount int
}

// IngestService runs the write path: extract, chunk, embed, index.
type IngestService interface {
	// IngestPage extracts a page snapshot, splits it into chunks, embeds
	// them in one batch, and persists the chunk set. Embedding failure
	// abandons the document's chunk set without partial commits.
	IngestPage(ctx context.Context, req IngestRequest) (*IngestResult, error)
}
