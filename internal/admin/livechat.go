package admin

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleLiveChatView(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("user_id")

	active, err := s.liveChat.IsActive(ctx, userID)
	if err != nil {
		return err
	}

	messages, err := s.store.ListRecentMessages(ctx, userID, 50)
	if err != nil {
		return err
	}

	var rows strings.Builder
	for _, m := range messages {
		ts := time.Unix(m.CreatedAt, 0).Format(time.RFC3339)
		fmt.Fprintf(&rows, `<div><b>%s</b> [%s]: %s</div>`, esc(string(m.Role)), esc(ts), esc(m.Text))
	}

	toggle := fmt.Sprintf(`<form method="post" action="/live-chat/%s/start">
  <input type="hidden" name="csrf_token" value="%s"><button type="submit">Start takeover</button></form>`,
		esc(userID), esc(s.csrfToken(c)))
	if active {
		toggle = fmt.Sprintf(`<form method="post" action="/live-chat/%s/end">
  <input type="hidden" name="csrf_token" value="%s"><button type="submit">End takeover</button></form>`,
			esc(userID), esc(s.csrfToken(c)))
	}

	body := fmt.Sprintf(`
<h2>%s</h2>
%s
<div id="history">%s</div>
<form method="post" action="/live-chat/%s/send">
  <input type="hidden" name="csrf_token" value="%s">
  <input type="text" name="text" placeholder="Message">
  <button type="submit">Send</button>
</form>`, esc(userID), toggle, rows.String(), esc(userID), esc(s.csrfToken(c)))
	return c.HTML(http.StatusOK, renderPage("Live Chat", body))
}

func (s *Server) handleLiveChatStart(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("user_id")
	if _, err := s.liveChat.Start(ctx, userID, userID); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/live-chat/"+userID)
}

func (s *Server) handleLiveChatEnd(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("user_id")
	if _, err := s.liveChat.End(ctx, userID); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/live-chat/"+userID)
}

func (s *Server) handleLiveChatSend(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("user_id")
	if err := s.liveChat.Send(ctx, userID, c.FormValue("text")); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/live-chat/"+userID)
}

// handleLiveChatMessagesJSON is the only JSON endpoint in the admin
// surface not named in the stats route: polled by the live-chat view to
// refresh without a full page reload.
func (s *Server) handleLiveChatMessagesJSON(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("user_id")
	messages, err := s.store.ListRecentMessages(ctx, userID, 50)
	if err != nil {
		return err
	}
	type jsonMessage struct {
		Role      string `json:"role"`
		Text      string `json:"text"`
		CreatedAt int64  `json:"created_at"`
	}
	out := make([]jsonMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, jsonMessage{Role: string(m.Role), Text: m.Text, CreatedAt: m.CreatedAt})
	}
	return c.JSON(http.StatusOK, out)
}
