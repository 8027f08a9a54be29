package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nadlanit/concierge/internal/store"
)

func TestAppointmentStatusMessage(t *testing.T) {
	appt := &store.Appointment{
		Service:       "Haircut",
		PreferredDate: "2026-08-05",
		PreferredTime: "14:00",
	}

	t.Run("confirmed includes details and owner note", func(t *testing.T) {
		appt.Status = store.AppointmentConfirmed
		msg := appointmentStatusMessage("Our Business", appt, "bring your own towel")
		assert.Contains(t, msg, "confirmed")
		assert.Contains(t, msg, "Haircut")
		assert.Contains(t, msg, "2026-08-05")
		assert.Contains(t, msg, "bring your own towel")
	})

	t.Run("cancelled omits owner note section when blank", func(t *testing.T) {
		appt.Status = store.AppointmentCancelled
		msg := appointmentStatusMessage("Our Business", appt, "")
		assert.Contains(t, msg, "cancelled")
		assert.NotContains(t, msg, "\n\n\n")
	})

	t.Run("pending has no template", func(t *testing.T) {
		appt.Status = store.AppointmentPending
		assert.Empty(t, appointmentStatusMessage("Our Business", appt, ""))
	})
}
