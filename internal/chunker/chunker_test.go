package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateTokens(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"short latin rounds up to one token", "hi", 1},
		{"sixteen latin chars", "abcdefghijklmnop", 4},
		{"hebrew uses a smaller divisor", "אבגדהוזחטי", 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EstimateTokens(tc.text))
		})
	}
}

func TestSplit_EmptyContent(t *testing.T) {
	assert.Nil(t, Split("hours", "Weekly Hours", "   ", 100))
}

func TestSplit_FitsInOneChunk(t *testing.T) {
	chunks := Split("hours", "Weekly Hours", "We're open weekdays 9 to 6.", 100)
	require.Len(t, chunks, 1)
	assert.True(t, strings.HasPrefix(chunks[0].Text, "[hours — Weekly Hours]\n"))
	assert.Contains(t, chunks[0].Text, "We're open weekdays 9 to 6.")
}

func TestSplit_SplitsLongContentAcrossParagraphs(t *testing.T) {
	paragraph := strings.Repeat("word ", 200) // well over any small token budget
	content := paragraph + "\n\n" + paragraph
	chunks := Split("services", "Offerings", content, 20)

	require.True(t, len(chunks) > 1, "a long document should split into multiple chunks")
	for _, c := range chunks {
		assert.True(t, strings.HasPrefix(c.Text, "[services — Offerings]\n"))
		body := strings.TrimPrefix(c.Text, "[services — Offerings]\n")
		assert.LessOrEqual(t, EstimateTokens(body), 20+4, "a merged chunk should stay near the token budget")
	}
}

func TestSplit_SingleOverlongWordIsItsOwnChunk(t *testing.T) {
	longWord := strings.Repeat("x", 200)
	chunks := Split("kb", "Title", longWord, 5)

	require.NotEmpty(t, chunks)
	found := false
	for _, c := range chunks {
		if strings.Contains(c.Text, longWord) {
			found = true
		}
	}
	assert.True(t, found, "an unsplittable word must still appear in the output rather than being dropped")
}

func TestGreedyMerge_CombinesSmallPieces(t *testing.T) {
	merged := greedyMerge([]string{"a", "b", "c"}, 100)
	require.Len(t, merged, 1)
	assert.Equal(t, "a\n\nb\n\nc", merged[0])
}

func TestGreedyMerge_SplitsWhenBudgetExceeded(t *testing.T) {
	big := strings.Repeat("word ", 50)
	merged := greedyMerge([]string{big, big}, EstimateTokens(big))
	assert.Len(t, merged, 2)
}
