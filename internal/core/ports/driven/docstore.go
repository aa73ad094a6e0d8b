package driven

import (
	"context"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
)

// DocumentStore persists ingested page documents.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns the documents of a conversation.
	ListDocuments(ctx context.Context, conversationID string) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error
}
