package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "", Truncate("abc", 0))

	// Rune-safe: never splits a multi-byte character.
	assert.Equal(t, "héll", Truncate("héllo", 4))
}

func TestTruncateWithMarker(t *testing.T) {
	assert.Equal(t, "short", TruncateWithMarker("short", 10, "…"))
	assert.Equal(t, "lon…", TruncateWithMarker("longtext", 3, "…"))
}

func TestChunkLines(t *testing.T) {
	lines := []string{
		strings.Repeat("a", 40) + "\n",
		strings.Repeat("b", 40) + "\n",
		strings.Repeat("c", 40) + "\n",
	}

	chunks := ChunkLines("HEADER\n", lines, 100)
	assert.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[0], "HEADER\n"))
	assert.Contains(t, chunks[0], "aaa")
	assert.Contains(t, chunks[0], "bbb")
	assert.Contains(t, chunks[1], "ccc")

	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 100)
	}
}

func TestChunkLines_Empty(t *testing.T) {
	assert.Nil(t, ChunkLines("", nil, 100))

	chunks := ChunkLines("only header", nil, 100)
	assert.Equal(t, []string{"only header"}, chunks)
}
