package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) CreateBroadcast(ctx context.Context, b *store.Broadcast) (*store.Broadcast, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO broadcast (text, audience_label, recipient_count, sent_count, failed_count, status, created_at, updated_at)
		VALUES (?, ?, ?, 0, 0, ?, ?, ?)
		RETURNING id, text, audience_label, recipient_count, sent_count, failed_count, status, created_at, updated_at
	`, b.Text, b.AudienceLabel, b.RecipientCount, b.Status, b.CreatedAt, b.UpdatedAt)
	return scanBroadcast(row)
}

func (d *DB) GetBroadcast(ctx context.Context, id int64) (*store.Broadcast, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, text, audience_label, recipient_count, sent_count, failed_count, status, created_at, updated_at
		FROM broadcast WHERE id = ?
	`, id)
	return scanBroadcast(row)
}

func (d *DB) ListBroadcasts(ctx context.Context) ([]*store.Broadcast, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, text, audience_label, recipient_count, sent_count, failed_count, status, created_at, updated_at
		FROM broadcast ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list broadcasts")
	}
	defer rows.Close()

	var broadcasts []*store.Broadcast
	for rows.Next() {
		b, err := scanBroadcastRow(rows)
		if err != nil {
			return nil, err
		}
		broadcasts = append(broadcasts, b)
	}
	return broadcasts, rows.Err()
}

func (d *DB) UpdateBroadcastStatus(ctx context.Context, id int64, status store.BroadcastStatus) (*store.Broadcast, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE broadcast SET status = ?, updated_at = strftime('%s','now') WHERE id = ?
		RETURNING id, text, audience_label, recipient_count, sent_count, failed_count, status, created_at, updated_at
	`, status, id)
	return scanBroadcast(row)
}

func (d *DB) IncrementBroadcastProgress(ctx context.Context, id int64, sentDelta, failedDelta int) (*store.Broadcast, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE broadcast SET sent_count = sent_count + ?, failed_count = failed_count + ?, updated_at = strftime('%s','now')
		WHERE id = ?
		RETURNING id, text, audience_label, recipient_count, sent_count, failed_count, status, created_at, updated_at
	`, sentDelta, failedDelta, id)
	return scanBroadcast(row)
}

func scanBroadcast(row *sql.Row) (*store.Broadcast, error) {
	var b store.Broadcast
	if err := row.Scan(&b.ID, &b.Text, &b.AudienceLabel, &b.RecipientCount, &b.SentCount, &b.FailedCount, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to scan broadcast")
	}
	return &b, nil
}

func scanBroadcastRow(rows *sql.Rows) (*store.Broadcast, error) {
	var b store.Broadcast
	if err := rows.Scan(&b.ID, &b.Text, &b.AudienceLabel, &b.RecipientCount, &b.SentCount, &b.FailedCount, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to scan broadcast")
	}
	return &b, nil
}
