package store

import "context"

// BusinessHours is the weekly schedule for one day. DayOfWeek 0 = Sunday
// (business convention), unique per row.
type BusinessHours struct {
	DayOfWeek int
	OpenTime  *string // "HH:MM"
	CloseTime *string
	Closed    bool
}

// SpecialDay overrides the weekly schedule for one calendar date (a
// holiday closure, a one-off early close, ...).
type SpecialDay struct {
	ID        int64
	Date      string // "YYYY-MM-DD"
	Name      string
	OpenTime  *string
	CloseTime *string
	Closed    bool
	Notes     string
}

// FindSpecialDay is the find condition for SpecialDay.
type FindSpecialDay struct {
	From *string
	To   *string
}

// HoursStore persists the weekly schedule and special-day overrides.
type HoursStore interface {
	GetWeekHours(ctx context.Context) ([]*BusinessHours, error)
	UpsertHours(ctx context.Context, h *BusinessHours) (*BusinessHours, error)
	GetHoursForDay(ctx context.Context, dayOfWeek int) (*BusinessHours, error)

	CreateSpecialDay(ctx context.Context, d *SpecialDay) (*SpecialDay, error)
	UpdateSpecialDay(ctx context.Context, d *SpecialDay) (*SpecialDay, error)
	DeleteSpecialDay(ctx context.Context, id int64) error
	GetSpecialDay(ctx context.Context, date string) (*SpecialDay, error)
	ListSpecialDays(ctx context.Context, find *FindSpecialDay) ([]*SpecialDay, error)
}

func (s *Store) GetWeekHours(ctx context.Context) ([]*BusinessHours, error) {
	return s.driver.GetWeekHours(ctx)
}

func (s *Store) UpsertHours(ctx context.Context, h *BusinessHours) (*BusinessHours, error) {
	return s.driver.UpsertHours(ctx, h)
}

func (s *Store) GetHoursForDay(ctx context.Context, dayOfWeek int) (*BusinessHours, error) {
	return s.driver.GetHoursForDay(ctx, dayOfWeek)
}

func (s *Store) CreateSpecialDay(ctx context.Context, d *SpecialDay) (*SpecialDay, error) {
	return s.driver.CreateSpecialDay(ctx, d)
}

func (s *Store) UpdateSpecialDay(ctx context.Context, d *SpecialDay) (*SpecialDay, error) {
	return s.driver.UpdateSpecialDay(ctx, d)
}

func (s *Store) DeleteSpecialDay(ctx context.Context, id int64) error {
	return s.driver.DeleteSpecialDay(ctx, id)
}

func (s *Store) GetSpecialDay(ctx context.Context, date string) (*SpecialDay, error) {
	return s.driver.GetSpecialDay(ctx, date)
}

func (s *Store) ListSpecialDays(ctx context.Context, find *FindSpecialDay) ([]*SpecialDay, error) {
	return s.driver.ListSpecialDays(ctx, find)
}
