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

func (s *Server) handleRequestsList(c echo.Context) error {
	ctx := c.Request().Context()
	requests, err := s.store.ListAgentRequests(ctx, nil)
	if err != nil {
		return err
	}

	var rows strings.Builder
	for _, r := range requests {
		ts := time.Unix(r.CreatedAt, 0).Format(time.RFC3339)
		action := ""
		if r.Status == store.AgentRequestPending {
			action = fmt.Sprintf(`
<form method="post" action="/requests/%d/handle" style="display:inline">
  <input type="hidden" name="csrf_token" value="%s">
  <input type="hidden" name="status" value="handled">
  <button type="submit">handle</button></form>
<form method="post" action="/requests/%d/handle" style="display:inline">
  <input type="hidden" name="csrf_token" value="%s">
  <input type="hidden" name="status" value="dismissed">
  <button type="submit">dismiss</button></form>`, r.ID, esc(s.csrfToken(c)), r.ID, esc(s.csrfToken(c)))
		}
		fmt.Fprintf(&rows, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			esc(ts), esc(r.Username), esc(r.Reason), esc(string(r.Status)), action)
	}

	body := fmt.Sprintf(`<table border="1"><tr><th>Time</th><th>User</th><th>Reason</th><th>Status</th><th></th></tr>%s</table>`, rows.String())
	return c.HTML(http.StatusOK, renderPage("Agent Requests", body))
}

func (s *Server) handleRequestHandle(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	status := store.AgentRequestStatus(c.FormValue("status"))
	if status != store.AgentRequestHandled && status != store.AgentRequestDismissed {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if _, err := s.store.UpdateAgentRequestStatus(c.Request().Context(), id, status); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/requests")
}
