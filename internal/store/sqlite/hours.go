package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) GetWeekHours(ctx context.Context) ([]*store.BusinessHours, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT day_of_week, open_time, close_time, closed FROM business_hours ORDER BY day_of_week
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get week hours")
	}
	defer rows.Close()

	var week []*store.BusinessHours
	for rows.Next() {
		var h store.BusinessHours
		if err := rows.Scan(&h.DayOfWeek, &h.OpenTime, &h.CloseTime, &h.Closed); err != nil {
			return nil, errors.Wrap(err, "failed to scan business hours")
		}
		week = append(week, &h)
	}
	return week, rows.Err()
}

func (d *DB) UpsertHours(ctx context.Context, h *store.BusinessHours) (*store.BusinessHours, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO business_hours (day_of_week, open_time, close_time, closed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (day_of_week) DO UPDATE SET
			open_time = excluded.open_time,
			close_time = excluded.close_time,
			closed = excluded.closed
		RETURNING day_of_week, open_time, close_time, closed
	`, h.DayOfWeek, h.OpenTime, h.CloseTime, h.Closed)
	var out store.BusinessHours
	if err := row.Scan(&out.DayOfWeek, &out.OpenTime, &out.CloseTime, &out.Closed); err != nil {
		return nil, errors.Wrap(err, "failed to upsert business hours")
	}
	return &out, nil
}

func (d *DB) GetHoursForDay(ctx context.Context, dayOfWeek int) (*store.BusinessHours, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT day_of_week, open_time, close_time, closed FROM business_hours WHERE day_of_week = ?
	`, dayOfWeek)
	var h store.BusinessHours
	err := row.Scan(&h.DayOfWeek, &h.OpenTime, &h.CloseTime, &h.Closed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get hours for day")
	}
	return &h, nil
}

func (d *DB) CreateSpecialDay(ctx context.Context, s *store.SpecialDay) (*store.SpecialDay, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO special_day (date, name, open_time, close_time, closed, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, date, name, open_time, close_time, closed, notes
	`, s.Date, s.Name, s.OpenTime, s.CloseTime, s.Closed, s.Notes)
	return scanSpecialDay(row)
}

func (d *DB) UpdateSpecialDay(ctx context.Context, s *store.SpecialDay) (*store.SpecialDay, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE special_day SET date = ?, name = ?, open_time = ?, close_time = ?, closed = ?, notes = ?
		WHERE id = ?
		RETURNING id, date, name, open_time, close_time, closed, notes
	`, s.Date, s.Name, s.OpenTime, s.CloseTime, s.Closed, s.Notes, s.ID)
	return scanSpecialDay(row)
}

func (d *DB) DeleteSpecialDay(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM special_day WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete special day")
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (d *DB) GetSpecialDay(ctx context.Context, date string) (*store.SpecialDay, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, date, name, open_time, close_time, closed, notes FROM special_day WHERE date = ?
	`, date)
	s, err := scanSpecialDay(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (d *DB) ListSpecialDays(ctx context.Context, find *store.FindSpecialDay) ([]*store.SpecialDay, error) {
	where, args := "1 = 1", []any{}
	if find != nil {
		if find.From != nil {
			where += " AND date >= ?"
			args = append(args, *find.From)
		}
		if find.To != nil {
			where += " AND date <= ?"
			args = append(args, *find.To)
		}
	}
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, date, name, open_time, close_time, closed, notes FROM special_day WHERE `+where+` ORDER BY date`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list special days")
	}
	defer rows.Close()

	var days []*store.SpecialDay
	for rows.Next() {
		var s store.SpecialDay
		if err := rows.Scan(&s.ID, &s.Date, &s.Name, &s.OpenTime, &s.CloseTime, &s.Closed, &s.Notes); err != nil {
			return nil, errors.Wrap(err, "failed to scan special day")
		}
		days = append(days, &s)
	}
	return days, rows.Err()
}

func scanSpecialDay(row *sql.Row) (*store.SpecialDay, error) {
	var s store.SpecialDay
	if err := row.Scan(&s.ID, &s.Date, &s.Name, &s.OpenTime, &s.CloseTime, &s.Closed, &s.Notes); err != nil {
		return nil, err
	}
	return &s, nil
}
