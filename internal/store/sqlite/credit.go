package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) CreateCredit(ctx context.Context, c *store.Credit) (*store.Credit, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO credit (user_id, amount, type, reason, used, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, user_id, amount, type, reason, used, expires_at, created_at
	`, c.UserID, c.Amount, c.Type, c.Reason, c.Used, c.ExpiresAt, c.CreatedAt)
	return scanCredit(row)
}

func (d *DB) ListCredits(ctx context.Context, find *store.FindCredit) ([]*store.Credit, error) {
	where, args := "1 = 1", []any{}
	if find != nil {
		if find.UserID != nil {
			where += " AND user_id = ?"
			args = append(args, *find.UserID)
		}
		if find.UnusedOnly {
			where += " AND used = 0"
		}
	}
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, user_id, amount, type, reason, used, expires_at, created_at
		FROM credit WHERE `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list credits")
	}
	defer rows.Close()

	var credits []*store.Credit
	for rows.Next() {
		c, err := scanCreditRow(rows)
		if err != nil {
			return nil, err
		}
		credits = append(credits, c)
	}
	return credits, rows.Err()
}

func (d *DB) MarkCreditUsed(ctx context.Context, id int64) (*store.Credit, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE credit SET used = 1 WHERE id = ?
		RETURNING id, user_id, amount, type, reason, used, expires_at, created_at
	`, id)
	return scanCredit(row)
}

func (d *DB) SumAvailableCredits(ctx context.Context, userID string) (float64, error) {
	var total sql.NullFloat64
	err := d.db.QueryRowContext(ctx, `
		SELECT SUM(amount) FROM credit
		WHERE user_id = ? AND used = 0 AND (expires_at IS NULL OR expires_at > strftime('%s','now'))
	`, userID).Scan(&total)
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum available credits")
	}
	return total.Float64, nil
}

func scanCredit(row *sql.Row) (*store.Credit, error) {
	var c store.Credit
	if err := row.Scan(&c.ID, &c.UserID, &c.Amount, &c.Type, &c.Reason, &c.Used, &c.ExpiresAt, &c.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to scan credit")
	}
	return &c, nil
}

func scanCreditRow(rows *sql.Rows) (*store.Credit, error) {
	var c store.Credit
	if err := rows.Scan(&c.ID, &c.UserID, &c.Amount, &c.Type, &c.Reason, &c.Used, &c.ExpiresAt, &c.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to scan credit")
	}
	return &c, nil
}
