package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
	"github.com/pagechat/pagechat-cli/internal/core/ports/driven"
)

// chunkStore implements driven.ChunkStore.
//
// Similarity search loads the scoped candidate set and ranks it by cosine
// similarity in process. Candidate rows arrive in rowid order, so a stable
// sort preserves insertion order between equal scores.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// SaveChunks persists a document's chunk set in one transaction.
func (s *chunkStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks
			(id, document_id, conversation_id, text, word_count,
			 character_count, token_count, position_start, position_end,
			 metadata, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID,
			chunk.ConversationID, chunk.Text, chunk.Counts.Words,
			chunk.Counts.Characters, chunk.Counts.Tokens,
			chunk.Position.Start, chunk.Position.End,
			string(metadataJSON), embeddingBlob); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SearchByVector returns up to limit chunks in scope, ranked by descending
// cosine similarity. Ties break by chunk insertion order.
func (s *chunkStore) SearchByVector(
	ctx context.Context,
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

	where, args := scopeFilter(scope)

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, conversation_id, text, word_count,
		       character_count, token_count, position_start, position_end,
		       metadata, embedding
		FROM chunks WHERE `+where+`
		ORDER BY rowid
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var scored []domain.ScoredChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
		scored = append(scored, domain.ScoredChunk{
			Chunk: *chunk,
			Score: cosineSimilarity(vector, chunk.Embedding),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
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
func (s *chunkStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, conversation_id, text, word_count,
		       character_count, token_count, position_start, position_end,
		       metadata, embedding
		FROM chunks WHERE document_id = ?
		ORDER BY position_start, rowid
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// DeleteDocumentChunks removes all chunk sets for a document.
func (s *chunkStore) DeleteDocumentChunks(ctx context.Context, documentID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// scopeFilter builds the WHERE clause for a chunk scope. The scope is the
// union of the conversation and any explicitly listed documents.
func scopeFilter(scope domain.ChunkScope) (string, []any) {
	var clauses []string
	var args []any

	if scope.ConversationID != "" {
		clauses = append(clauses, "conversation_id = ?")
		args = append(args, scope.ConversationID)
	}
	if len(scope.DocumentIDs) > 0 {
		placeholders := strings.Repeat("?, ", len(scope.DocumentIDs))
		clauses = append(clauses, "document_id IN ("+placeholders[:len(placeholders)-2]+")")
		for _, id := range scope.DocumentIDs {
			args = append(args, id)
		}
	}

	return strings.Join(clauses, " OR "), args
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths and zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
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

// scanChunk scans a chunk through any row's Scan function.
func scanChunk(scan func(dest ...any) error) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte
	var metadataJSON string

	if err := scan(&chunk.ID, &chunk.DocumentID, &chunk.ConversationID,
		&chunk.Text, &chunk.Counts.Words, &chunk.Counts.Characters,
		&chunk.Counts.Tokens, &chunk.Position.Start, &chunk.Position.End,
		&metadataJSON, &embeddingBlob); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON != "" && metadataJSON != jsonNull {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
		}
	}

	return &chunk, nil
}
