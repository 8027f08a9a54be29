package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) GetSubscription(ctx context.Context, userID string) (*store.Subscription, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT user_id, subscribed, updated_at FROM subscription WHERE user_id = ?
	`, userID)
	var sub store.Subscription
	err := row.Scan(&sub.UserID, &sub.Subscribed, &sub.UpdatedAt)
	if err == sql.ErrNoRows {
		// No row yet means the user has never opted out: treat as
		// subscribed without persisting.
		return &store.Subscription{UserID: userID, Subscribed: true}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get subscription")
	}
	return &sub, nil
}

func (d *DB) SetSubscribed(ctx context.Context, userID string, subscribed bool) (*store.Subscription, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO subscription (user_id, subscribed, updated_at)
		VALUES (?, ?, strftime('%s','now'))
		ON CONFLICT (user_id) DO UPDATE SET
			subscribed = excluded.subscribed,
			updated_at = excluded.updated_at
		RETURNING user_id, subscribed, updated_at
	`, userID, subscribed)
	var sub store.Subscription
	if err := row.Scan(&sub.UserID, &sub.Subscribed, &sub.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to set subscription")
	}
	return &sub, nil
}

func (d *DB) ListSubscribedUserIDs(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT DISTINCT m.user_id FROM message m
		LEFT JOIN subscription s ON s.user_id = m.user_id
		WHERE s.subscribed IS NULL OR s.subscribed = 1
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list subscribed users")
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

func (d *DB) CountSubscribed(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT m.user_id) FROM message m
		LEFT JOIN subscription s ON s.user_id = m.user_id
		WHERE s.subscribed IS NULL OR s.subscribed = 1
	`).Scan(&count)
	return count, errors.Wrap(err, "failed to count subscribed users")
}
