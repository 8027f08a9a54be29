package store

import "context"

// KBEntry is a curated knowledge-base article the RAG pipeline chunks and embeds.
type KBEntry struct {
	ID        int64
	Category  string
	Title     string
	Content   string
	Active    bool
	CreatedAt int64
	UpdatedAt int64
}

// FindKBEntry is the find condition for KBEntry.
type FindKBEntry struct {
	ID         *int64
	ActiveOnly bool
}

// UpdateKBEntry carries the mutable fields of a KBEntry update.
type UpdateKBEntry struct {
	ID       int64
	Category *string
	Title    *string
	Content  *string
	Active   *bool
}

// KBStore persists knowledge-base entries. Deleting an entry cascades to its chunks.
type KBStore interface {
	CreateKBEntry(ctx context.Context, e *KBEntry) (*KBEntry, error)
	GetKBEntry(ctx context.Context, id int64) (*KBEntry, error)
	ListKBEntries(ctx context.Context, find *FindKBEntry) ([]*KBEntry, error)
	UpdateKBEntry(ctx context.Context, update *UpdateKBEntry) (*KBEntry, error)
	DeleteKBEntry(ctx context.Context, id int64) error
}

func (s *Store) CreateKBEntry(ctx context.Context, e *KBEntry) (*KBEntry, error) {
	return s.driver.CreateKBEntry(ctx, e)
}

func (s *Store) GetKBEntry(ctx context.Context, id int64) (*KBEntry, error) {
	return s.driver.GetKBEntry(ctx, id)
}

func (s *Store) ListKBEntries(ctx context.Context, find *FindKBEntry) ([]*KBEntry, error) {
	return s.driver.ListKBEntries(ctx, find)
}

func (s *Store) UpdateKBEntry(ctx context.Context, update *UpdateKBEntry) (*KBEntry, error) {
	return s.driver.UpdateKBEntry(ctx, update)
}

func (s *Store) DeleteKBEntry(ctx context.Context, id int64) error {
	return s.driver.DeleteKBEntry(ctx, id)
}
