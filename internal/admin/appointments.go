package admin

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nadlanit/concierge/internal/store"
)

func (s *Server) handleAppointmentsList(c echo.Context) error {
	ctx := c.Request().Context()
	appts, err := s.store.ListAppointments(ctx, nil)
	if err != nil {
		return err
	}

	var rows strings.Builder
	for _, a := range appts {
		ts := time.Unix(a.CreatedAt, 0).Format(time.RFC3339)
		actions := ""
		if a.Status == store.AppointmentPending {
			actions = fmt.Sprintf(`
<form method="post" action="/appointments/%d/update" style="display:inline">
  <input type="hidden" name="csrf_token" value="%s">
  <input type="hidden" name="status" value="confirmed">
  <input type="text" name="message" placeholder="optional note to customer">
  <button type="submit">confirm</button></form>
<form method="post" action="/appointments/%d/update" style="display:inline">
  <input type="hidden" name="csrf_token" value="%s">
  <input type="hidden" name="status" value="cancelled">
  <input type="text" name="message" placeholder="optional note to customer">
  <button type="submit">cancel</button></form>`, a.ID, esc(s.csrfToken(c)), a.ID, esc(s.csrfToken(c)))
		}
		fmt.Fprintf(&rows, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			esc(ts), esc(a.Username), esc(a.Service), esc(a.PreferredDate), esc(a.PreferredTime), esc(string(a.Status)), actions)
	}

	body := fmt.Sprintf(`<table border="1"><tr><th>Time</th><th>User</th><th>Service</th><th>Date</th><th>Time</th><th>Status</th><th></th></tr>%s</table>`, rows.String())
	return c.HTML(http.StatusOK, renderPage("Appointments", body))
}

// appointmentStatusMessage builds the customer-facing notification sent
// when the owner transitions an appointment to a terminal status. pending
// has no template — it's the starting state, not a transition worth
// announcing.
func appointmentStatusMessage(businessName string, appt *store.Appointment, ownerMessage string) string {
	var lines []string
	switch appt.Status {
	case store.AppointmentConfirmed:
		lines = []string{
			fmt.Sprintf("Your appointment at %s is confirmed! ✅", businessName),
			"",
			fmt.Sprintf("Service: %s", appt.Service),
			fmt.Sprintf("Date: %s", appt.PreferredDate),
			fmt.Sprintf("Time: %s", appt.PreferredTime),
		}
		if ownerMessage != "" {
			lines = append(lines, "", ownerMessage)
		}
		lines = append(lines, "", "See you then!")
	case store.AppointmentCancelled:
		lines = []string{
			fmt.Sprintf("Your appointment at %s was cancelled.", businessName),
			"",
			fmt.Sprintf("Service: %s", appt.Service),
			fmt.Sprintf("Date: %s", appt.PreferredDate),
			fmt.Sprintf("Time: %s", appt.PreferredTime),
		}
		if ownerMessage != "" {
			lines = append(lines, "", ownerMessage)
		}
		lines = append(lines, "", "To book a new time, just ask.")
	default:
		return ""
	}
	return strings.Join(lines, "\n")
}

// handleAppointmentUpdate transitions an appointment's status. Confirming
// an appointment also completes any pending referral attributed to that
// user and sends them their own shareable code, since a confirmed booking
// is the qualifying action the referral program pays out on. Both
// confirming and cancelling notify the customer on their chat channel, so
// nobody has to refresh the bot to learn the owner acted on their request.
func (s *Server) handleAppointmentUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	status := store.AppointmentStatus(c.FormValue("status"))
	if status != store.AppointmentConfirmed && status != store.AppointmentCancelled {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	ownerMessage := strings.TrimSpace(c.FormValue("message"))

	appt, err := s.store.UpdateAppointmentStatus(ctx, id, status)
	if err != nil {
		return err
	}

	if appt != nil {
		if status == store.AppointmentConfirmed {
			if _, err := s.referrals.Complete(ctx, appt.UserID); err != nil {
				return err
			}
			if err := s.referrals.SendCode(ctx, appt.UserID); err != nil {
				return err
			}
		}
		if text := appointmentStatusMessage(s.cfg.BusinessName, appt, ownerMessage); text != "" {
			if err := s.liveChat.Send(ctx, appt.UserID, text); err != nil {
				return err
			}
		}
	}

	return c.Redirect(http.StatusFound, "/appointments")
}
