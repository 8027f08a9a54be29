package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) CreateKBEntry(ctx context.Context, e *store.KBEntry) (*store.KBEntry, error) {
	stmt := `
		INSERT INTO kb_entry (category, title, content, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, category, title, content, active, created_at, updated_at
	`
	row := d.db.QueryRowContext(ctx, stmt, e.Category, e.Title, e.Content, e.Active, e.CreatedAt, e.UpdatedAt)
	return scanKBEntry(row)
}

func (d *DB) GetKBEntry(ctx context.Context, id int64) (*store.KBEntry, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, category, title, content, active, created_at, updated_at
		FROM kb_entry WHERE id = ?
	`, id)
	return scanKBEntry(row)
}

func (d *DB) ListKBEntries(ctx context.Context, find *store.FindKBEntry) ([]*store.KBEntry, error) {
	where, args := "1 = 1", []any{}
	if find != nil {
		if find.ID != nil {
			where += " AND id = ?"
			args = append(args, *find.ID)
		}
		if find.ActiveOnly {
			where += " AND active = 1"
		}
	}
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, category, title, content, active, created_at, updated_at
		FROM kb_entry WHERE `+where+` ORDER BY category, title`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list kb entries")
	}
	defer rows.Close()

	var entries []*store.KBEntry
	for rows.Next() {
		e, err := scanKBEntryRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (d *DB) UpdateKBEntry(ctx context.Context, update *store.UpdateKBEntry) (*store.KBEntry, error) {
	set, args := []string{}, []any{}
	if update.Category != nil {
		set = append(set, "category = ?")
		args = append(args, *update.Category)
	}
	if update.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Content != nil {
		set = append(set, "content = ?")
		args = append(args, *update.Content)
	}
	if update.Active != nil {
		set = append(set, "active = ?")
		args = append(args, *update.Active)
	}
	if len(set) == 0 {
		return d.GetKBEntry(ctx, update.ID)
	}
	set = append(set, "updated_at = strftime('%s','now')")
	args = append(args, update.ID)

	query := "UPDATE kb_entry SET " + joinComma(set) + " WHERE id = ? RETURNING id, category, title, content, active, created_at, updated_at"
	row := d.db.QueryRowContext(ctx, query, args...)
	return scanKBEntry(row)
}

func (d *DB) DeleteKBEntry(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM kb_entry WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete kb entry")
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanKBEntry(row *sql.Row) (*store.KBEntry, error) {
	var e store.KBEntry
	if err := row.Scan(&e.ID, &e.Category, &e.Title, &e.Content, &e.Active, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to scan kb entry")
	}
	return &e, nil
}

func scanKBEntryRow(rows *sql.Rows) (*store.KBEntry, error) {
	var e store.KBEntry
	if err := rows.Scan(&e.ID, &e.Category, &e.Title, &e.Content, &e.Active, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to scan kb entry")
	}
	return &e, nil
}
