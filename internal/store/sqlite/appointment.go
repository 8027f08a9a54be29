package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) CreateAppointment(ctx context.Context, a *store.Appointment) (*store.Appointment, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO appointment (user_id, username, platform_handle, service, preferred_date, preferred_time, notes, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, user_id, username, platform_handle, service, preferred_date, preferred_time, notes, status, created_at
	`, a.UserID, a.Username, a.PlatformHandle, a.Service, a.PreferredDate, a.PreferredTime, a.Notes, a.Status, a.CreatedAt)
	return scanAppointment(row)
}

func (d *DB) GetAppointment(ctx context.Context, id int64) (*store.Appointment, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, user_id, username, platform_handle, service, preferred_date, preferred_time, notes, status, created_at
		FROM appointment WHERE id = ?
	`, id)
	return scanAppointment(row)
}

func (d *DB) ListAppointments(ctx context.Context, find *store.FindAppointment) ([]*store.Appointment, error) {
	where, args := "1 = 1", []any{}
	if find != nil {
		if find.UserID != nil {
			where += " AND user_id = ?"
			args = append(args, *find.UserID)
		}
		if find.Status != nil {
			where += " AND status = ?"
			args = append(args, *find.Status)
		}
	}
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, user_id, username, platform_handle, service, preferred_date, preferred_time, notes, status, created_at
		FROM appointment WHERE `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list appointments")
	}
	defer rows.Close()

	var appointments []*store.Appointment
	for rows.Next() {
		a, err := scanAppointmentRow(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func (d *DB) UpdateAppointmentStatus(ctx context.Context, id int64, status store.AppointmentStatus) (*store.Appointment, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE appointment SET status = ? WHERE id = ?
		RETURNING id, user_id, username, platform_handle, service, preferred_date, preferred_time, notes, status, created_at
	`, status, id)
	return scanAppointment(row)
}

func scanAppointment(row *sql.Row) (*store.Appointment, error) {
	var a store.Appointment
	if err := row.Scan(&a.ID, &a.UserID, &a.Username, &a.PlatformHandle, &a.Service, &a.PreferredDate, &a.PreferredTime, &a.Notes, &a.Status, &a.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to scan appointment")
	}
	return &a, nil
}

func scanAppointmentRow(rows *sql.Rows) (*store.Appointment, error) {
	var a store.Appointment
	if err := rows.Scan(&a.ID, &a.UserID, &a.Username, &a.PlatformHandle, &a.Service, &a.PreferredDate, &a.PreferredTime, &a.Notes, &a.Status, &a.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to scan appointment")
	}
	return &a, nil
}
