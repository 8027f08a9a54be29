package ragindex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatContext_Empty(t *testing.T) {
	assert.Equal(t, "", FormatContext(nil))
}

func TestFormatContext_NumbersAndCitesEachChunk(t *testing.T) {
	chunks := []RetrievedChunk{
		{Category: "hours", Title: "Weekly Hours", Text: "we're open 9-6"},
		{Category: "pricing", Title: "Rates", Text: "haircuts are $20"},
	}
	out := FormatContext(chunks)

	assert.Contains(t, out, "1. we're open 9-6\n(Source: hours — Weekly Hours)")
	assert.Contains(t, out, "2. haircuts are $20\n(Source: pricing — Rates)")
}

func TestManager_MarkStaleThenIsStale(t *testing.T) {
	m := &Manager{dir: t.TempDir()}
	assert.False(t, m.isStale())

	require.NoError(t, m.MarkStale(nil))
	assert.True(t, m.isStale())
}

func TestManager_StaleMtime_NilWhenNotStale(t *testing.T) {
	m := &Manager{dir: t.TempDir()}
	assert.Nil(t, m.staleMtime())
}

func TestManager_StaleMtime_SetAfterMarkStale(t *testing.T) {
	m := &Manager{dir: t.TempDir()}
	require.NoError(t, m.MarkStale(nil))
	assert.NotNil(t, m.staleMtime())
}

func TestManager_ClearStaleIfUnchanged_ClearsWhenTokenMatches(t *testing.T) {
	m := &Manager{dir: t.TempDir()}
	require.NoError(t, m.MarkStale(nil))
	token := m.staleMtime()
	require.NotNil(t, token)

	require.NoError(t, m.clearStaleIfUnchanged(token))
	assert.False(t, m.isStale())
}

func TestManager_ClearStaleIfUnchanged_LeavesStaleWhenMutatedMidRebuild(t *testing.T) {
	m := &Manager{dir: t.TempDir()}
	require.NoError(t, m.MarkStale(nil))
	staleToken := m.staleMtime()
	require.NotNil(t, staleToken)

	// Simulate a KB mutation landing after the rebuild's staleness snapshot
	// but before it finishes: a different mtime means a fresh mutation.
	different := staleToken.Add(-time.Hour)

	require.NoError(t, m.clearStaleIfUnchanged(&different))
	assert.True(t, m.isStale(), "a mutation during rebuild must keep the sentinel set")
}

func TestSameMtime(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Second)

	assert.True(t, sameMtime(nil, nil))
	assert.False(t, sameMtime(&now, nil))
	assert.False(t, sameMtime(nil, &now))
	assert.True(t, sameMtime(&now, &now))
	assert.False(t, sameMtime(&now, &later))
}
