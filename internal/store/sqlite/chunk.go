package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) ListChunks(ctx context.Context, find *store.FindChunk) ([]*store.Chunk, error) {
	where, args := "1 = 1", []any{}
	if find != nil && find.EntryID != nil {
		where += " AND entry_id = ?"
		args = append(args, *find.EntryID)
	}
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, entry_id, idx, text, embedding FROM chunk WHERE `+where+` ORDER BY entry_id, idx`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chunks")
	}
	defer rows.Close()
	return scanChunks(rows)
}

func (d *DB) ListAllChunks(ctx context.Context) ([]*store.Chunk, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, entry_id, idx, text, embedding FROM chunk ORDER BY entry_id, idx`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list all chunks")
	}
	defer rows.Close()
	return scanChunks(rows)
}

// ReplaceChunks swaps every chunk belonging to an entry in one transaction,
// so a concurrent reader of ListAllChunks never observes a half-written entry.
func (d *DB) ReplaceChunks(ctx context.Context, r *store.ReplaceEntryChunks) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunk WHERE entry_id = ?`, r.EntryID); err != nil {
		return errors.Wrap(err, "failed to clear old chunks")
	}
	for _, c := range r.Chunks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chunk (entry_id, idx, text, embedding) VALUES (?, ?, ?, ?)
		`, r.EntryID, c.Index, c.Text, c.Embedding); err != nil {
			return errors.Wrap(err, "failed to insert chunk")
		}
	}
	return errors.Wrap(tx.Commit(), "failed to commit chunk replacement")
}

func (d *DB) DeleteChunksByEntry(ctx context.Context, entryID int64) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM chunk WHERE entry_id = ?`, entryID)
	return errors.Wrap(err, "failed to delete chunks")
}

func scanChunks(rows *sql.Rows) ([]*store.Chunk, error) {
	var chunks []*store.Chunk
	for rows.Next() {
		var c store.Chunk
		if err := rows.Scan(&c.ID, &c.EntryID, &c.Index, &c.Text, &c.Embedding); err != nil {
			return nil, errors.Wrap(err, "failed to scan chunk")
		}
		chunks = append(chunks, &c)
	}
	return chunks, rows.Err()
}
