package store

import "context"

// Chunk is a KB-entry-derived text unit with an optional cached embedding.
// Text already carries the "[category — title]" source prefix.
type Chunk struct {
	ID        int64
	EntryID   int64
	Index     int
	Text      string
	Embedding []byte // little-endian float32, unit-normalized; nil before first rebuild
}

// FindChunk is the find condition for Chunk.
type FindChunk struct {
	EntryID *int64
}

// ReplaceEntryChunks is the unit of work for swapping an entry's chunk set
// during an incremental rebuild: delete the old rows and insert new ones in
// a single transaction.
type ReplaceEntryChunks struct {
	EntryID int64
	Chunks  []*Chunk
}

// ChunkStore persists KB-entry chunks and their cached embeddings.
type ChunkStore interface {
	ListChunks(ctx context.Context, find *FindChunk) ([]*Chunk, error)
	ListAllChunks(ctx context.Context) ([]*Chunk, error)
	ReplaceChunks(ctx context.Context, r *ReplaceEntryChunks) error
	DeleteChunksByEntry(ctx context.Context, entryID int64) error
}

func (s *Store) ListChunks(ctx context.Context, find *FindChunk) ([]*Chunk, error) {
	return s.driver.ListChunks(ctx, find)
}

func (s *Store) ListAllChunks(ctx context.Context) ([]*Chunk, error) {
	return s.driver.ListAllChunks(ctx)
}

func (s *Store) ReplaceChunks(ctx context.Context, r *ReplaceEntryChunks) error {
	return s.driver.ReplaceChunks(ctx, r)
}

func (s *Store) DeleteChunksByEntry(ctx context.Context, entryID int64) error {
	return s.driver.DeleteChunksByEntry(ctx, entryID)
}
