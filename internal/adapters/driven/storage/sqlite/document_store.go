package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc.ID == "" {
		return domain.ErrInvalidInput
	}

	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents
			(id, conversation_id, url, title, site_name, content, excerpt,
			 length, extraction_method, error, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			conversation_id = excluded.conversation_id,
			url = excluded.url,
			title = excluded.title,
			site_name = excluded.site_name,
			content = excluded.content,
			excerpt = excluded.excerpt,
			length = excluded.length,
			extraction_method = excluded.extraction_method,
			error = excluded.error,
			metadata = excluded.metadata
	`, doc.ID, doc.ConversationID, doc.URL, doc.Title, doc.SiteName,
		doc.Content, doc.Excerpt, doc.Length, string(doc.ExtractionMethod),
		doc.Error, string(metadataJSON), doc.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, url, title, site_name, content, excerpt,
		       length, extraction_method, error, metadata, created_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row.Scan)
}

// ListDocuments returns the documents of a conversation, oldest first.
func (s *documentStore) ListDocuments(ctx context.Context, conversationID string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, conversation_id, url, title, site_name, content, excerpt,
		       length, extraction_method, error, metadata, created_at
		FROM documents WHERE conversation_id = ?
		ORDER BY rowid
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// DeleteDocument removes a document; its chunks cascade.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// scanDocument scans a document through any row's Scan function.
func scanDocument(scan func(dest ...any) error) (*domain.Document, error) {
	var doc domain.Document
	var method, metadataJSON string

	if err := scan(&doc.ID, &doc.ConversationID, &doc.URL, &doc.Title,
		&doc.SiteName, &doc.Content, &doc.Excerpt, &doc.Length,
		&method, &doc.Error, &metadataJSON, &doc.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.ExtractionMethod = domain.ExtractionMethod(method)

	if metadataJSON != "" && metadataJSON != jsonNull {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return &doc, nil
}
