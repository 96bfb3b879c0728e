package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecursiveSplitter_ShortTextIsOneChunk(t *testing.T) {
	splitter, err := NewRecursiveSplitter(500, 100, nil)
	require.NoError(t, err)

	chunks := splitter.Split("Expenses above $500 require VP approval.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Expenses above $500 require VP approval.", chunks[0])
}

func TestRecursiveSplitter_RespectsChunkSize(t *testing.T) {
	splitter, err := NewRecursiveSplitter(100, 20, nil)
	require.NoError(t, err)

	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("Section rule number with several words in it.\n\n")
	}

	chunks := splitter.Split(sb.String())
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 100, "chunk %q exceeds size", chunk)
	}
}

func TestRecursiveSplitter_PrefersParagraphBoundaries(t *testing.T) {
	splitter, err := NewRecursiveSplitter(60, 0, nil)
	require.NoError(t, err)

	text := "First paragraph about meal limits.\n\nSecond paragraph about travel."
	chunks := splitter.Split(text)

	require.Len(t, chunks, 2)
	assert.Equal(t, "First paragraph about meal limits.", chunks[0])
	assert.Equal(t, "Second paragraph about travel.", chunks[1])
}

func TestRecursiveSplitter_OverlapCarriesTail(t *testing.T) {
	splitter, err := NewRecursiveSplitter(40, 15, []string{" "})
	require.NoError(t, err)

	chunks := splitter.Split("alpha bravo charlie delta echo foxtrot golf hotel india juliet")
	require.Greater(t, len(chunks), 1)

	// Each chunk after the first starts with words from the previous chunk.
	for i := 1; i < len(chunks); i++ {
		firstWord := strings.Fields(chunks[i])[0]
		assert.Contains(t, chunks[i-1], firstWord,
			"chunk %d does not overlap its predecessor", i)
	}
}

func TestRecursiveSplitter_CustomDividerSplitsFirst(t *testing.T) {
	divider := "\n" + strings.Repeat("-", 79) + "\n"
	splitter, err := NewRecursiveSplitter(200, 0, []string{divider, "\n\n", "\n", " "})
	require.NoError(t, err)

	email1 := "From: michael@dundermifflin.com\nSubject: Party budget\nWe need more funds."
	email2 := "From: angela@dundermifflin.com\nSubject: Re: Party budget\nAbsolutely not."
	chunks := splitter.Split(email1 + divider + email2)

	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0], "Party budget")
	assert.Contains(t, chunks[1], "Absolutely not.")
}

func TestRecursiveSplitter_HardSplitFallback(t *testing.T) {
	splitter, err := NewRecursiveSplitter(10, 2, nil)
	require.NoError(t, err)

	chunks := splitter.Split(strings.Repeat("x", 25))
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 10)
	}

	var total int
	for _, chunk := range chunks {
		total += len(chunk)
	}
	// Overlap duplicates characters, so the sum exceeds the input length.
	assert.GreaterOrEqual(t, total, 25)
}

func TestRecursiveSplitter_DropsWhitespaceChunks(t *testing.T) {
	splitter, err := NewRecursiveSplitter(14, 0, nil)
	require.NoError(t, err)

	chunks := splitter.Split("real content\n\n   \n\nmore content")
	assert.Equal(t, []string{"real content", "more content"}, chunks)
}

func TestNewRecursiveSplitter_Validation(t *testing.T) {
	_, err := NewRecursiveSplitter(0, 0, nil)
	require.Error(t, err)

	_, err = NewRecursiveSplitter(100, 100, nil)
	require.Error(t, err)

	_, err = NewRecursiveSplitter(100, -1, nil)
	require.Error(t, err)
}
