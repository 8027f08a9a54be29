package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) AppendMessage(ctx context.Context, m *store.Message) (*store.Message, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO message (user_id, username, role, text, sources, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, user_id, username, role, text, sources, created_at
	`, m.UserID, m.Username, m.Role, m.Text, m.Sources, m.CreatedAt)
	return scanMessage(row)
}

func (d *DB) ListMessages(ctx context.Context, find *store.FindMessage) ([]*store.Message, error) {
	where, args := "1 = 1", []any{}
	if find != nil {
		if find.UserID != nil {
			where += " AND user_id = ?"
			args = append(args, *find.UserID)
		}
		if find.AfterID != nil {
			where += " AND id > ?"
			args = append(args, *find.AfterID)
		}
	}
	query := `SELECT id, user_id, username, role, text, sources, created_at FROM message WHERE ` + where + ` ORDER BY id ASC`
	if find != nil && find.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *find.Limit)
	}
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list messages")
	}
	defer rows.Close()
	return scanMessages(rows)
}

// ListRecentMessages returns the last limit messages for userID in
// ascending order, matching the Conversation Orchestrator's sliding
// context-window read pattern.
func (d *DB) ListRecentMessages(ctx context.Context, userID string, limit int) ([]*store.Message, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, user_id, username, role, text, sources, created_at FROM (
			SELECT id, user_id, username, role, text, sources, created_at
			FROM message WHERE user_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC
	`, userID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list recent messages")
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (d *DB) CountMessagesAfter(ctx context.Context, userID string, afterID int64) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM message WHERE user_id = ? AND id > ?
	`, userID, afterID).Scan(&count)
	return count, errors.Wrap(err, "failed to count messages")
}

func (d *DB) CountMessagesSince(ctx context.Context, userID string, since int64) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM message WHERE user_id = ? AND created_at >= ?
	`, userID, since).Scan(&count)
	return count, errors.Wrap(err, "failed to count messages since")
}

func (d *DB) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM message`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user ids")
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan user id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListAllRecent returns, per user, their most recent message — used by the
// admin conversations list view.
func (d *DB) ListAllRecent(ctx context.Context, limit int) ([]*store.Message, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, user_id, username, role, text, sources, created_at
		FROM message m
		WHERE id = (SELECT MAX(id) FROM message WHERE user_id = m.user_id)
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list recent conversations")
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessage(row *sql.Row) (*store.Message, error) {
	var m store.Message
	if err := row.Scan(&m.ID, &m.UserID, &m.Username, &m.Role, &m.Text, &m.Sources, &m.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to scan message")
	}
	return &m, nil
}

func scanMessages(rows *sql.Rows) ([]*store.Message, error) {
	var messages []*store.Message
	for rows.Next() {
		var m store.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Username, &m.Role, &m.Text, &m.Sources, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan message")
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
