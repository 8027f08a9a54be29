package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) CreateReferral(ctx context.Context, r *store.Referral) (*store.Referral, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO referral (referrer_id, referred_id, code, status, created_at, completed_at, sent)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, referrer_id, referred_id, code, status, created_at, completed_at, sent
	`, r.ReferrerID, r.ReferredID, r.Code, r.Status, r.CreatedAt, r.CompletedAt, r.Sent)
	return scanReferral(row)
}

func (d *DB) GetReferralByReferrer(ctx context.Context, referrerID string) (*store.Referral, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, referrer_id, referred_id, code, status, created_at, completed_at, sent
		FROM referral WHERE referrer_id = ?
	`, referrerID)
	r, err := scanReferral(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

func (d *DB) GetReferralByCode(ctx context.Context, code string) (*store.Referral, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, referrer_id, referred_id, code, status, created_at, completed_at, sent
		FROM referral WHERE code = ?
	`, code)
	r, err := scanReferral(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

func (d *DB) GetReferralByReferred(ctx context.Context, referredID string) (*store.Referral, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, referrer_id, referred_id, code, status, created_at, completed_at, sent
		FROM referral WHERE referred_id = ?
	`, referredID)
	r, err := scanReferral(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

// RegisterReferral attaches referredID to the referral for code, provided
// the code exists, is not self-referred, and referredID carries no other
// attribution. All three checks and the write happen inside one
// transaction so two concurrent registrations can't both succeed.
func (d *DB) RegisterReferral(ctx context.Context, code, referredID string) (bool, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return false, errors.Wrap(err, "failed to begin tx")
	}
	defer tx.Rollback()

	var referralID int64
	var referrerID string
	var existingReferred sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT id, referrer_id, referred_id FROM referral WHERE code = ?
	`, code).Scan(&referralID, &referrerID, &existingReferred)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to look up referral by code")
	}
	if existingReferred.Valid || referrerID == referredID {
		return false, nil
	}

	var alreadyAttributed int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM referral WHERE referred_id = ?
	`, referredID).Scan(&alreadyAttributed); err != nil {
		return false, errors.Wrap(err, "failed to check existing attribution")
	}
	if alreadyAttributed > 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE referral SET referred_id = ? WHERE id = ?
	`, referredID, referralID); err != nil {
		return false, errors.Wrap(err, "failed to attach referred user")
	}
	return true, errors.Wrap(tx.Commit(), "failed to commit referral registration")
}

// CompleteReferral marks the referral completed and mints both credit rows
// atomically: a completed referral and its two credits always appear
// together, never one without the other.
func (d *DB) CompleteReferral(ctx context.Context, referredID string, referrerCredit, referredCredit *store.Credit) (*store.Referral, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin tx")
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		UPDATE referral SET status = ?, completed_at = strftime('%s','now')
		WHERE referred_id = ? AND status = ?
		RETURNING id, referrer_id, referred_id, code, status, created_at, completed_at, sent
	`, store.ReferralCompleted, referredID, store.ReferralPending)
	referral, err := scanReferral(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to complete referral")
	}

	for _, c := range []*store.Credit{referrerCredit, referredCredit} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO credit (user_id, amount, type, reason, used, expires_at, created_at)
			VALUES (?, ?, ?, ?, 0, ?, strftime('%s','now'))
		`, c.UserID, c.Amount, c.Type, c.Reason, c.ExpiresAt); err != nil {
			return nil, errors.Wrap(err, "failed to mint credit")
		}
	}
	return referral, errors.Wrap(tx.Commit(), "failed to commit referral completion")
}

func (d *DB) MarkReferralSent(ctx context.Context, referralID int64) (bool, error) {
	result, err := d.db.ExecContext(ctx, `UPDATE referral SET sent = 1 WHERE id = ? AND sent = 0`, referralID)
	if err != nil {
		return false, errors.Wrap(err, "failed to mark referral sent")
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func (d *DB) UnmarkReferralSent(ctx context.Context, referralID int64) error {
	_, err := d.db.ExecContext(ctx, `UPDATE referral SET sent = 0 WHERE id = ?`, referralID)
	return errors.Wrap(err, "failed to unmark referral sent")
}

func (d *DB) ListReferrals(ctx context.Context) ([]*store.Referral, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, referrer_id, referred_id, code, status, created_at, completed_at, sent
		FROM referral ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list referrals")
	}
	defer rows.Close()

	var referrals []*store.Referral
	for rows.Next() {
		r, err := scanReferralRow(rows)
		if err != nil {
			return nil, err
		}
		referrals = append(referrals, r)
	}
	return referrals, rows.Err()
}

func (d *DB) TopReferrers(ctx context.Context, limit int) ([]*store.ReferrerStats, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT referrer_id,
			SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS completed,
			SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END) AS pending
		FROM referral
		GROUP BY referrer_id
		ORDER BY completed DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute top referrers")
	}
	defer rows.Close()

	var stats []*store.ReferrerStats
	for rows.Next() {
		var r store.ReferrerStats
		if err := rows.Scan(&r.ReferrerID, &r.CompletedCount, &r.PendingCount); err != nil {
			return nil, errors.Wrap(err, "failed to scan referrer stats")
		}
		stats = append(stats, &r)
	}
	return stats, rows.Err()
}

func scanReferral(row *sql.Row) (*store.Referral, error) {
	var r store.Referral
	if err := row.Scan(&r.ID, &r.ReferrerID, &r.ReferredID, &r.Code, &r.Status, &r.CreatedAt, &r.CompletedAt, &r.Sent); err != nil {
		return nil, err
	}
	return &r, nil
}

func scanReferralRow(rows *sql.Rows) (*store.Referral, error) {
	var r store.Referral
	if err := rows.Scan(&r.ID, &r.ReferrerID, &r.ReferredID, &r.Code, &r.Status, &r.CreatedAt, &r.CompletedAt, &r.Sent); err != nil {
		return nil, errors.Wrap(err, "failed to scan referral")
	}
	return &r, nil
}
