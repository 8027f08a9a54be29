package admin

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nadlanit/concierge/internal/store"
)

func (s *Server) handleVacationForm(c echo.Context) error {
	v, err := s.store.GetVacationMode(c.Request().Context())
	if err != nil {
		return err
	}
	active, endDate, msg := false, "", ""
	if v != nil {
		active = v.Active
		if v.EndDate != nil {
			endDate = *v.EndDate
		}
		if v.CustomMessage != nil {
			msg = *v.CustomMessage
		}
	}
	checked := ""
	if active {
		checked = "checked"
	}

	body := fmt.Sprintf(`
<form method="post" action="/vacation-mode">
  <input type="hidden" name="csrf_token" value="%s">
  <label>Active <input type="checkbox" name="active" %s></label><br>
  <label>End date <input type="date" name="end_date" value="%s"></label><br>
  <label>Custom message<br><textarea name="message" rows="4" cols="50">%s</textarea></label><br>
  <button type="submit">Save</button>
</form>`, esc(s.csrfToken(c)), checked, esc(endDate), esc(msg))
	return c.HTML(http.StatusOK, renderPage("Vacation Mode", body))
}

func (s *Server) handleVacationUpdate(c echo.Context) error {
	active := c.FormValue("active") != ""
	endDate := c.FormValue("end_date")
	msg := c.FormValue("message")

	v := &store.VacationMode{Active: active}
	if endDate != "" {
		v.EndDate = &endDate
	}
	if msg != "" {
		v.CustomMessage = &msg
	}
	if _, err := s.store.UpdateVacationMode(c.Request().Context(), v); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/vacation-mode")
}
