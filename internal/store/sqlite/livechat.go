package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) StartLiveChatSession(ctx context.Context, userID, username string) (*store.LiveChatSession, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE live_chat_session SET active = 0, ended_at = strftime('%s','now')
		WHERE user_id = ? AND active = 1
	`, userID); err != nil {
		return nil, errors.Wrap(err, "failed to end stale session")
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO live_chat_session (user_id, username, active, started_at)
		VALUES (?, ?, 1, strftime('%s','now'))
		RETURNING id, user_id, username, active, started_at, ended_at
	`, userID, username)
	session, err := scanLiveChatSession(row)
	if err != nil {
		return nil, err
	}
	return session, errors.Wrap(tx.Commit(), "failed to commit session start")
}

func (d *DB) EndLiveChatSession(ctx context.Context, userID string) (*store.LiveChatSession, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE live_chat_session SET active = 0, ended_at = strftime('%s','now')
		WHERE user_id = ? AND active = 1
		RETURNING id, user_id, username, active, started_at, ended_at
	`, userID)
	session, err := scanLiveChatSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return session, err
}

func (d *DB) GetActiveLiveChatSession(ctx context.Context, userID string) (*store.LiveChatSession, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, user_id, username, active, started_at, ended_at
		FROM live_chat_session WHERE user_id = ? AND active = 1
	`, userID)
	session, err := scanLiveChatSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return session, err
}

func (d *DB) ListActiveLiveChatSessions(ctx context.Context) ([]*store.LiveChatSession, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, user_id, username, active, started_at, ended_at
		FROM live_chat_session WHERE active = 1 ORDER BY started_at
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active sessions")
	}
	defer rows.Close()

	var sessions []*store.LiveChatSession
	for rows.Next() {
		var s store.LiveChatSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Username, &s.Active, &s.StartedAt, &s.EndedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan session")
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

func (d *DB) EndAllActiveLiveChatSessions(ctx context.Context) (int, error) {
	result, err := d.db.ExecContext(ctx, `
		UPDATE live_chat_session SET active = 0, ended_at = strftime('%s','now') WHERE active = 1
	`)
	if err != nil {
		return 0, errors.Wrap(err, "failed to end active sessions")
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}

func scanLiveChatSession(row *sql.Row) (*store.LiveChatSession, error) {
	var s store.LiveChatSession
	if err := row.Scan(&s.ID, &s.UserID, &s.Username, &s.Active, &s.StartedAt, &s.EndedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
