package embedder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"collapses internal whitespace", "hello   world", "hello world"},
		{"strips newlines", "line one\nline two\r\nline three", "line one line two line three"},
		{"trims surrounding whitespace", "  padded  ", "padded"},
		{"empty becomes single space", "", " "},
		{"whitespace only becomes single space", "   \n\n  ", " "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalize(tc.in))
		})
	}
}

func TestNormalizeVector(t *testing.T) {
	t.Run("unit-normalizes a vector", func(t *testing.T) {
		out := normalizeVector([]float32{3, 4})
		assert.InDelta(t, 0.6, out[0], 1e-6)
		assert.InDelta(t, 0.8, out[1], 1e-6)
	})

	t.Run("zero vector is returned unchanged to avoid divide-by-zero", func(t *testing.T) {
		in := []float32{0, 0, 0}
		out := normalizeVector(in)
		assert.Equal(t, in, out)
	})
}

func TestHashEmbed_DeterministicPerText(t *testing.T) {
	a := hashEmbed("hello world", 16)
	b := hashEmbed("hello world", 16)
	assert.Equal(t, a, b)
}

func TestHashEmbed_DiffersAcrossTexts(t *testing.T) {
	a := hashEmbed("hello world", 16)
	b := hashEmbed("goodbye world", 16)
	assert.NotEqual(t, a, b)
}

func TestHashEmbed_ProducesRequestedDimension(t *testing.T) {
	vec := hashEmbed("some chunk of text", 1536)
	assert.Len(t, vec, 1536)
}

func TestHashEmbed_ValuesStayInExpectedRange(t *testing.T) {
	vec := hashEmbed("some chunk of text", 64)
	for _, x := range vec {
		assert.GreaterOrEqual(t, x, float32(-1.0))
		assert.Less(t, x, float32(1.0))
	}
}

func TestLocalFallback_ProducesUnitVectors(t *testing.T) {
	e := &Embedder{dimension: 32}
	out := e.localFallback([]string{"a", "b"})

	require := assert.New(t)
	require.Len(out, 2)
	for _, v := range out {
		var sumSq float64
		for _, x := range v {
			sumSq += float64(x) * float64(x)
		}
		require.InDelta(1.0, sumSq, 1e-3)
	}
}
