package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtractionFailed indicates no text could be produced at all,
	// for example from an empty or inaccessible document. Degraded
	// extraction is not an error; it is surfaced via ExtractionMethod.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrInvalidChunkConfig indicates the chunk overlap is at least the
	// window size, which would never advance. Programmer error, not retried.
	ErrInvalidChunkConfig = errors.New("chunk overlap must be smaller than chunk size")

	// ErrEmbeddingProvider indicates a batch embedding call failed.
	// Ingestion or search of the affected document/query is abandoned,
	// never partially committed.
	ErrEmbeddingProvider = errors.New("embedding provider error")

	// ErrGenerationStream indicates the generation stream failed after
	// zero or more deltas. Partial committed content is retained.
	ErrGenerationStream = errors.New("generation stream error")

	// ErrConversationBusy indicates a generation is already active for
	// the conversation. One active generation per conversation is an
	// orchestrator invariant.
	ErrConversationBusy = errors.New("conversation has an active generation")

	// ErrCompletionUnavailable indicates the completion service is not
	// configured.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic retrieval is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
