package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/nadlanit/concierge/internal/store"
)

const servicesQuery = "what services do you offer"

// startBooking enters ASK_SERVICE. Per the booking state machine's entry
// rule, it first consults RAG to list services; a handoff result there
// cancels the booking instead of starting it.
func (s *Service) startBooking(ctx context.Context, ev Event) *Reply {
	chunks, err := s.ragManager.Retrieve(ctx, servicesQuery, s.ragTopK)
	if err != nil || len(chunks) == 0 {
		return s.handoffReply(ctx, ev, "no services found in knowledge base")
	}

	s.bookings.start(ev.UserID)
	return &Reply{Text: "What service would you like to book?", Kind: ReplyPlain}
}

func (s *Service) advanceBooking(ctx context.Context, ev Event, session *bookingSession) (*Reply, error) {
	text := strings.TrimSpace(ev.Text)

	switch session.Step {
	case StepAskService:
		session.Service = text
		session.Step = StepAskDate
		return &Reply{Text: "What date would you like to come in?", Kind: ReplyPlain}, nil

	case StepAskDate:
		session.Date = text
		session.Step = StepAskTime
		return &Reply{Text: "What time works best?", Kind: ReplyPlain}, nil

	case StepAskTime:
		session.Time = text
		session.Step = StepConfirm
		summary := fmt.Sprintf("To confirm: %s on %s at %s. Shall I book it? (yes/no)", session.Service, session.Date, session.Time)
		return &Reply{Text: summary, Kind: ReplyPlain}, nil

	case StepConfirm:
		s.bookings.clear(ev.UserID)
		if !isAffirmative(text) {
			return &Reply{Text: "No problem, the booking is cancelled.", Kind: ReplyPlain}, nil
		}
		appt, err := s.store.CreateAppointment(ctx, &store.Appointment{
			UserID: ev.UserID, Username: ev.DisplayName, PlatformHandle: ev.PlatformHandle,
			Service: session.Service, PreferredDate: session.Date, PreferredTime: session.Time,
			Status: store.AppointmentPending,
		})
		if err != nil {
			return s.fallbackReply(), nil
		}
		s.notifyOwner(ctx, fmt.Sprintf("New booking request from %s: %s on %s at %s.", ev.DisplayName, appt.Service, appt.PreferredDate, appt.PreferredTime))
		return &Reply{Text: "Thanks! Your appointment request has been sent — we'll confirm shortly.", Kind: ReplyPlain}, nil

	default:
		s.bookings.clear(ev.UserID)
		return s.fallbackReply(), nil
	}
}

func isAffirmative(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == "yes" || t == "y" || t == "כן"
}
