// Package chunker splits normalised text into overlapping word windows.
package chunker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
)

// DefaultChunkSize is the default window size in words.
const DefaultChunkSize = 120

// DefaultOverlap is the default overlap between windows in words.
const DefaultOverlap = 20

// MinChunkCharacters is the minimum retrievable chunk size. A window whose
// joined text is not longer than this is skipped, except when the whole
// input fits in a single window.
const MinChunkCharacters = 100

// Chunker splits text into overlapping, bounded windows with stable
// position and length metadata. It is pure, deterministic and restartable.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in words.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between windows in words.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options. An overlap that is not
// smaller than the chunk size would never advance the window and is
// rejected with ErrInvalidChunkConfig.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.overlap >= c.chunkSize {
		return nil, domain.ErrInvalidChunkConfig
	}

	return c, nil
}

// ChunkSize returns the configured window size in words.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap in words.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split divides text into chunks. Positions are word indices into the
// whitespace-split source; End is inclusive. Chunks are emitted in
// non-decreasing Start order. Empty or whitespace-only text produces no
// chunks. A window is emitted only when its joined text exceeds
// MinChunkCharacters, except when the entire input is shorter than the
// window and forms the sole chunk.
func (c *Chunker) Split(text string, metadata map[string]any) []domain.Chunk {
	words := strings.Fields(text)
	n := len(words)
	if n == 0 {
		return nil
	}

	step := c.chunkSize - c.overlap
	chunks := make([]domain.Chunk, 0, n/step+1)

	for i := 0; i < n; i += step {
		end := i + c.chunkSize
		if end > n {
			end = n
		}
		slice := words[i:end]
		joined := strings.Join(slice, " ")

		// The sole-chunk exception: input shorter than one window.
		soleChunk := i == 0 && n <= c.chunkSize

		if len(joined) > MinChunkCharacters || soleChunk {
			chunks = append(chunks, domain.Chunk{
				ID:   uuid.New().String(),
				Text: joined,
				Counts: domain.ChunkCounts{
					Words:      len(slice),
					Characters: len(joined),
				},
				Position: domain.ChunkPosition{
					Start: i,
					End:   end - 1,
				},
				Metadata: metadata,
			})
		}
	}

	return chunks
}
