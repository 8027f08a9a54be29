package store

import "context"

// AppointmentStatus is the lifecycle state of a booking.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is a booking captured verbatim through the booking state
// machine: service/date/time are free text, never parsed.
type Appointment struct {
	ID             int64
	UserID         string
	Username       string
	PlatformHandle string
	Service        string
	PreferredDate  string
	PreferredTime  string
	Notes          string
	Status         AppointmentStatus
	CreatedAt      int64
}

// FindAppointment is the find condition for Appointment.
type FindAppointment struct {
	UserID *string
	Status *AppointmentStatus
}

// AppointmentStore persists bookings.
type AppointmentStore interface {
	CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error)
	GetAppointment(ctx context.Context, id int64) (*Appointment, error)
	ListAppointments(ctx context.Context, find *FindAppointment) ([]*Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id int64, status AppointmentStatus) (*Appointment, error)
}

func (s *Store) CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error) {
	return s.driver.CreateAppointment(ctx, a)
}

func (s *Store) GetAppointment(ctx context.Context, id int64) (*Appointment, error) {
	return s.driver.GetAppointment(ctx, id)
}

func (s *Store) ListAppointments(ctx context.Context, find *FindAppointment) ([]*Appointment, error) {
	return s.driver.ListAppointments(ctx, find)
}

func (s *Store) UpdateAppointmentStatus(ctx context.Context, id int64, status AppointmentStatus) (*Appointment, error) {
	return s.driver.UpdateAppointmentStatus(ctx, id, status)
}
