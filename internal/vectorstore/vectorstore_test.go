package vectorstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyDirectory(t *testing.T) {
	s, err := Open(t.TempDir(), 0.3)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Size())
	assert.Equal(t, 0, s.Dimension())
}

func TestOpen_LegacyPickleSidecarForcesEmptyStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, metadataFile+".pkl"), []byte("legacy"), 0o644))

	s, err := Open(dir, 0.3)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Size())
}

func TestReplaceThenOpen_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, 0.0)
	require.NoError(t, err)

	vectors := [][]float32{{1, 0, 0}, {0, 1, 0}}
	metadata := []Metadata{
		{EntryID: 1, ChunkIndex: 0, Category: "hours", Title: "Weekly Hours", Text: "we're open"},
		{EntryID: 2, ChunkIndex: 0, Category: "pricing", Title: "Rates", Text: "ten dollars"},
	}
	require.NoError(t, s.Replace(vectors, metadata))
	assert.Equal(t, 2, s.Size())
	assert.Equal(t, 3, s.Dimension())

	reopened, err := Open(dir, 0.0)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Size())
	assert.Equal(t, 3, reopened.Dimension())

	hits := reopened.Search([]float32{1, 0, 0}, 5)
	require.NotEmpty(t, hits)
	assert.Equal(t, "hours", hits[0].Category)
}

func TestReplace_LengthMismatchErrors(t *testing.T) {
	s, err := Open(t.TempDir(), 0.0)
	require.NoError(t, err)

	err = s.Replace([][]float32{{1, 2}}, nil)
	assert.Error(t, err)
}

func TestSearch_OrdersByScoreDescending(t *testing.T) {
	s, err := Open(t.TempDir(), 0.0)
	require.NoError(t, err)

	require.NoError(t, s.Replace(
		[][]float32{{1, 0}, {0.5, 0.5}, {0, 1}},
		[]Metadata{{Title: "low"}, {Title: "mid"}, {Title: "high"}},
	))

	hits := s.Search([]float32{0, 1}, 10)
	require.Len(t, hits, 3)
	assert.Equal(t, "high", hits[0].Title)
	assert.Equal(t, "low", hits[2].Title)
}

func TestSearch_FiltersBelowMinRelevance(t *testing.T) {
	s, err := Open(t.TempDir(), 0.9)
	require.NoError(t, err)

	require.NoError(t, s.Replace(
		[][]float32{{1, 0}, {0, 1}},
		[]Metadata{{Title: "match"}, {Title: "no-match"}},
	))

	hits := s.Search([]float32{1, 0}, 10)
	require.Len(t, hits, 1)
	assert.Equal(t, "match", hits[0].Title)
}

func TestSearch_CapsAtK(t *testing.T) {
	s, err := Open(t.TempDir(), 0.0)
	require.NoError(t, err)

	require.NoError(t, s.Replace(
		[][]float32{{1, 0}, {1, 0}, {1, 0}},
		[]Metadata{{Title: "a"}, {Title: "b"}, {Title: "c"}},
	))

	hits := s.Search([]float32{1, 0}, 2)
	assert.Len(t, hits, 2)
}

func TestSearch_EmptyIndexReturnsEmptySlice(t *testing.T) {
	s, err := Open(t.TempDir(), 0.0)
	require.NoError(t, err)

	hits := s.Search([]float32{1, 0}, 5)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestL2Norm(t *testing.T) {
	assert.InDelta(t, 1.0, L2Norm([]float32{1, 0, 0}), 1e-6)
	assert.InDelta(t, 5.0, L2Norm([]float32{3, 4}), 1e-6)
	assert.InDelta(t, 0.0, L2Norm([]float32{}), 1e-6)
}

func TestEncodeDecodeVectors_RoundTrip(t *testing.T) {
	vectors := [][]float32{{1.5, -2.25, 0}, {0.1, 0.2, 0.3}}
	encoded := encodeVectors(vectors)

	decoded, err := decodeVectors(encoded, 3)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.InDeltaSlice(t, vectors[0], decoded[0], 1e-6)
	assert.InDeltaSlice(t, vectors[1], decoded[1], 1e-6)
}

func TestDecodeVectors_CorruptLengthErrors(t *testing.T) {
	_, err := decodeVectors([]byte{1, 2, 3}, 3)
	assert.Error(t, err)
}

func TestDecodeVectors_ZeroDimensionIsEmptyNotError(t *testing.T) {
	decoded, err := decodeVectors([]byte{1, 2, 3, 4}, 0)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}
