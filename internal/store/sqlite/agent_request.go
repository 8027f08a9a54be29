package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) CreateAgentRequest(ctx context.Context, r *store.AgentRequest) (*store.AgentRequest, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO agent_request (user_id, username, platform_handle, reason, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, user_id, username, platform_handle, reason, status, created_at, handled_at
	`, r.UserID, r.Username, r.PlatformHandle, r.Reason, r.Status, r.CreatedAt)
	return scanAgentRequest(row)
}

func (d *DB) GetAgentRequest(ctx context.Context, id int64) (*store.AgentRequest, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, user_id, username, platform_handle, reason, status, created_at, handled_at
		FROM agent_request WHERE id = ?
	`, id)
	return scanAgentRequest(row)
}

func (d *DB) ListAgentRequests(ctx context.Context, find *store.FindAgentRequest) ([]*store.AgentRequest, error) {
	where, args := "1 = 1", []any{}
	if find != nil && find.Status != nil {
		where += " AND status = ?"
		args = append(args, *find.Status)
	}
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, user_id, username, platform_handle, reason, status, created_at, handled_at
		FROM agent_request WHERE `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list agent requests")
	}
	defer rows.Close()

	var requests []*store.AgentRequest
	for rows.Next() {
		r, err := scanAgentRequestRow(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (d *DB) UpdateAgentRequestStatus(ctx context.Context, id int64, status store.AgentRequestStatus) (*store.AgentRequest, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE agent_request SET status = ?, handled_at = strftime('%s','now') WHERE id = ?
		RETURNING id, user_id, username, platform_handle, reason, status, created_at, handled_at
	`, status, id)
	return scanAgentRequest(row)
}

func scanAgentRequest(row *sql.Row) (*store.AgentRequest, error) {
	var r store.AgentRequest
	if err := row.Scan(&r.ID, &r.UserID, &r.Username, &r.PlatformHandle, &r.Reason, &r.Status, &r.CreatedAt, &r.HandledAt); err != nil {
		return nil, errors.Wrap(err, "failed to scan agent request")
	}
	return &r, nil
}

func scanAgentRequestRow(rows *sql.Rows) (*store.AgentRequest, error) {
	var r store.AgentRequest
	if err := rows.Scan(&r.ID, &r.UserID, &r.Username, &r.PlatformHandle, &r.Reason, &r.Status, &r.CreatedAt, &r.HandledAt); err != nil {
		return nil, errors.Wrap(err, "failed to scan agent request")
	}
	return &r, nil
}
