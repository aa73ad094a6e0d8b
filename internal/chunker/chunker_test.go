package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagechat/pagechat-cli/internal/core/domain"
)

// makeWords builds a space-joined text of n distinct words.
func makeWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%03d", i)
	}
	return strings.Join(words, " ")
}

func TestNew_Defaults(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSize, c.ChunkSize())
	assert.Equal(t, DefaultOverlap, c.Overlap())
}

func TestNew_RejectsOverlapNotSmallerThanSize(t *testing.T) {
	_, err := New(WithChunkSize(50), WithOverlap(50))
	assert.ErrorIs(t, err, domain.ErrInvalidChunkConfig)

	_, err = New(WithChunkSize(50), WithOverlap(80))
	assert.ErrorIs(t, err, domain.ErrInvalidChunkConfig)
}

func TestSplit_WindowPositions(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	// 300 words with size 120 and overlap 20 yields windows starting at
	// 0, 100 and 200, the last truncated at the text's end.
	chunks := c.Split(makeWords(300), nil)
	require.Len(t, chunks, 3)

	assert.Equal(t, 0, chunks[0].Position.Start)
	assert.Equal(t, 119, chunks[0].Position.End)
	assert.Equal(t, 100, chunks[1].Position.Start)
	assert.Equal(t, 219, chunks[1].Position.End)
	assert.Equal(t, 200, chunks[2].Position.Start)
	assert.Equal(t, 299, chunks[2].Position.End)

	assert.Equal(t, 120, chunks[0].Counts.Words)
	assert.Equal(t, 100, chunks[2].Counts.Words)
}

func TestSplit_Deterministic(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	text := makeWords(500)
	first := c.Split(text, nil)
	second := c.Split(text, nil)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Text, second[i].Text)
		assert.Equal(t, first[i].Position, second[i].Position)
		assert.Equal(t, first[i].Counts, second[i].Counts)
	}
}

func TestSplit_ChunkTextMatchesPositions(t *testing.T) {
	c, err := New(WithChunkSize(10), WithOverlap(2))
	require.NoError(t, err)

	// Long words keep every window above the minimum chunk length.
	words25 := make([]string, 25)
	for i := range words25 {
		words25[i] = fmt.Sprintf("wordnumber%03dpadding", i)
	}
	text := strings.Join(words25, " ")
	words := strings.Fields(text)

	for _, chunk := range c.Split(text, nil) {
		expected := strings.Join(words[chunk.Position.Start:chunk.Position.End+1], " ")
		assert.Equal(t, expected, chunk.Text)
		assert.Equal(t, len(chunk.Text), chunk.Counts.Characters)
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	assert.Empty(t, c.Split("", nil))
	assert.Empty(t, c.Split("   \n\t  ", nil))
}

func TestSplit_SoleShortChunkKept(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	// Shorter than the minimum chunk length, but the whole input fits in
	// one window, so it is still emitted.
	chunks := c.Split("just a few short words", nil)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a few short words", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Position.Start)
	assert.Equal(t, 4, chunks[0].Position.End)
}

func TestSplit_ShortTrailingWindowSkipped(t *testing.T) {
	c, err := New(WithChunkSize(10), WithOverlap(2))
	require.NoError(t, err)

	// 12 single-letter words: the full window joins to under the minimum
	// and the input spans more than one window, so the trailing windows
	// are dropped entirely.
	text := strings.Repeat("a ", 12)
	chunks := c.Split(text, nil)
	assert.Empty(t, chunks)
}

func TestSplit_MetadataAttached(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	meta := map[string]any{"source": "test"}
	chunks := c.Split(makeWords(150), meta)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.Equal(t, meta, chunk.Metadata)
	}
}

func TestSplit_UniqueIDs(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	chunks := c.Split(makeWords(400), nil)
	seen := make(map[string]bool)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk.ID)
		assert.False(t, seen[chunk.ID], "duplicate chunk ID %s", chunk.ID)
		seen[chunk.ID] = true
	}
}
