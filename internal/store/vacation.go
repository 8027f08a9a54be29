package store

import "context"

// VacationMode is the singleton vacation-mode row.
type VacationMode struct {
	Active        bool
	EndDate       *string
	CustomMessage *string
}

// VacationStore persists the singleton vacation-mode row.
type VacationStore interface {
	GetVacationMode(ctx context.Context) (*VacationMode, error)
	UpdateVacationMode(ctx context.Context, v *VacationMode) (*VacationMode, error)
}

func (s *Store) GetVacationMode(ctx context.Context) (*VacationMode, error) {
	return s.driver.GetVacationMode(ctx)
}

func (s *Store) UpdateVacationMode(ctx context.Context, v *VacationMode) (*VacationMode, error) {
	return s.driver.UpdateVacationMode(ctx, v)
}
