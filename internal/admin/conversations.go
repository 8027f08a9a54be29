package admin

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nadlanit/concierge/internal/store"
)

func (s *Server) handleConversationsList(c echo.Context) error {
	ctx := c.Request().Context()
	userIDs, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return err
	}

	var rows strings.Builder
	for _, uid := range userIDs {
		fmt.Fprintf(&rows, `<tr><td>%s</td><td><a href="/conversations/%s">view</a></td>
<td><a href="/live-chat/%s">live chat</a></td></tr>`, esc(uid), esc(uid), esc(uid))
	}

	body := fmt.Sprintf(`<table border="1"><tr><th>User</th><th></th><th></th></tr>%s</table>`, rows.String())
	return c.HTML(http.StatusOK, renderPage("Conversations", body))
}

func (s *Server) handleConversationHistory(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("user_id")

	messages, err := s.store.ListMessages(ctx, &store.FindMessage{UserID: &userID})
	if err != nil {
		return err
	}

	var rows strings.Builder
	for _, m := range messages {
		ts := time.Unix(m.CreatedAt, 0).Format(time.RFC3339)
		fmt.Fprintf(&rows, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			esc(ts), esc(string(m.Role)), esc(m.Text), esc(m.Sources))
	}

	body := fmt.Sprintf(`<h2>%s</h2><table border="1"><tr><th>Time</th><th>Role</th><th>Text</th><th>Sources</th></tr>%s</table>`,
		esc(userID), rows.String())
	return c.HTML(http.StatusOK, renderPage("Conversation History", body))
}
