package sqlite

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/store"
)

func (d *DB) GetVacationMode(ctx context.Context) (*store.VacationMode, error) {
	row := d.db.QueryRowContext(ctx, `SELECT active, end_date, custom_message FROM vacation_mode WHERE id = 1`)
	var v store.VacationMode
	if err := row.Scan(&v.Active, &v.EndDate, &v.CustomMessage); err != nil {
		return nil, errors.Wrap(err, "failed to get vacation mode")
	}
	return &v, nil
}

func (d *DB) UpdateVacationMode(ctx context.Context, v *store.VacationMode) (*store.VacationMode, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE vacation_mode SET active = ?, end_date = ?, custom_message = ? WHERE id = 1
		RETURNING active, end_date, custom_message
	`, v.Active, v.EndDate, v.CustomMessage)
	var out store.VacationMode
	if err := row.Scan(&out.Active, &out.EndDate, &out.CustomMessage); err != nil {
		return nil, errors.Wrap(err, "failed to update vacation mode")
	}
	return &out, nil
}
