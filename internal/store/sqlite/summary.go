package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) GetSummary(ctx context.Context, userID string) (*store.Summary, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT user_id, summary_text, cumulative_message_count, last_summarized_message_id, created_at
		FROM summary WHERE user_id = ?
	`, userID)
	var s store.Summary
	err := row.Scan(&s.UserID, &s.SummaryText, &s.CumulativeMessageCount, &s.LastSummarizedMessageID, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get summary")
	}
	return &s, nil
}

func (d *DB) UpsertSummary(ctx context.Context, u *store.UpsertSummary) (*store.Summary, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO summary (user_id, summary_text, cumulative_message_count, last_summarized_message_id, created_at)
		VALUES (?, ?, ?, ?, strftime('%s','now'))
		ON CONFLICT (user_id) DO UPDATE SET
			summary_text = excluded.summary_text,
			cumulative_message_count = excluded.cumulative_message_count,
			last_summarized_message_id = excluded.last_summarized_message_id
		RETURNING user_id, summary_text, cumulative_message_count, last_summarized_message_id, created_at
	`, u.UserID, u.SummaryText, u.CumulativeMessageCount, u.LastSummarizedMessageID)
	var s store.Summary
	if err := row.Scan(&s.UserID, &s.SummaryText, &s.CumulativeMessageCount, &s.LastSummarizedMessageID, &s.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to upsert summary")
	}
	return &s, nil
}
