package domain

// DefaultRetrievalLimit is the number of chunks returned when no limit is set.
const DefaultRetrievalLimit = 5

// RetrievalQuery describes one filtered nearest-neighbour lookup.
// It is transient: one value per retrieval call.
type RetrievalQuery struct {
	// ConversationID scopes the query to a conversation.
	ConversationID string

	// DocumentIDs optionally widens the scope to the union of the
	// conversation and the listed documents.
	DocumentIDs []string

	// QueryText is embedded and matched against chunk embeddings.
	QueryText string

	// Limit caps the number of results (DefaultRetrievalLimit when <= 0).
	Limit int
}

// Scope returns the chunk scope filter for the query.
func (q RetrievalQuery) Scope() ChunkScope {
	return ChunkScope{
		ConversationID: q.ConversationID,
		DocumentIDs:    q.DocumentIDs,
	}
}

// ScoredChunk pairs a chunk with its similarity score.
type ScoredChunk struct {
	Chunk Chunk

	// Score is the cosine similarity to the query vector.
	Score float64
}

// RetrievedChunk is a retrieval result hydrated with source provenance,
// enough for the generator to produce attributable citations.
type RetrievedChunk struct {
	// Text is the chunk content.
	Text string

	// Score is the similarity score.
	Score float64

	// Title is the source document title.
	Title string

	// URL is the source document location.
	URL string
}
