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

func (s *Server) handleKnowledgeGapsList(c echo.Context) error {
	ctx := c.Request().Context()
	gaps, err := s.store.ListUnansweredQuestions(ctx, nil)
	if err != nil {
		return err
	}

	var rows strings.Builder
	for _, g := range gaps {
		ts := time.Unix(g.CreatedAt, 0).Format(time.RFC3339)
		action := ""
		if g.Status == store.UnansweredOpen {
			action = fmt.Sprintf(`
<form method="post" action="/knowledge-gaps/%d/resolve" style="display:inline">
  <input type="hidden" name="csrf_token" value="%s">
  <button type="submit">resolve</button></form>`, g.ID, esc(s.csrfToken(c)))
		}
		fmt.Fprintf(&rows, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			esc(ts), esc(g.Username), esc(g.Question), esc(string(g.Status)), action)
	}

	body := fmt.Sprintf(`<table border="1"><tr><th>Time</th><th>User</th><th>Question</th><th>Status</th><th></th></tr>%s</table>`, rows.String())
	return c.HTML(http.StatusOK, renderPage("Knowledge Gaps", body))
}

func (s *Server) handleKnowledgeGapResolve(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if _, err := s.store.ResolveUnansweredQuestion(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/knowledge-gaps")
}
