package domain

import "time"

// Document represents an ingested page snapshot after extraction.
// It is the canonical representation the chunker and retrieval cite from.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// ConversationID links to the conversation that owns this document.
	ConversationID string

	// URL is the original page location.
	URL string

	// Title is the human-readable page title.
	Title string

	// SiteName is the hostname of the page URL.
	SiteName string

	// Content is the full structured text produced by the extractor.
	Content string

	// Excerpt is the first 150 characters of Content plus an ellipsis.
	Excerpt string

	// Length is the character length of Content.
	Length int

	// ExtractionMethod records which extraction strategy produced Content.
	ExtractionMethod ExtractionMethod

	// Error holds an ingestion failure reason, if any.
	Error string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk represents a retrievable unit within a document.
// Chunks are immutable once persisted; re-extraction produces a new chunk set.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// ConversationID links to the conversation scope of the parent document.
	ConversationID string

	// Text is the chunk content.
	Text string

	// Counts holds size statistics about Text.
	Counts ChunkCounts

	// Position locates the chunk within the source text in word indices.
	Position ChunkPosition

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// ChunkCounts holds size statistics for a chunk.
type ChunkCounts struct {
	// Words is the number of words in the chunk.
	Words int

	// Characters is the character length of the chunk text.
	Characters int

	// Tokens is an optional provider token count (0 when unknown).
	Tokens int
}

// ChunkPosition locates a chunk within its source text.
// Start and End are word indices; End is inclusive.
type ChunkPosition struct {
	Start int
	End   int
}

// ChunkScope restricts which chunks a retrieval query may match.
// When DocumentIDs is empty, the scope is the conversation alone.
// When DocumentIDs is set, the scope is the union of the conversation
// and the listed documents.
type ChunkScope struct {
	ConversationID string
	DocumentIDs    []string
}
