package admin

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleBroadcastForm(c echo.Context) error {
	ctx := c.Request().Context()
	past, err := s.store.ListBroadcasts(ctx)
	if err != nil {
		return err
	}

	var rows strings.Builder
	for _, b := range past {
		ts := time.Unix(b.CreatedAt, 0).Format(time.RFC3339)
		fmt.Fprintf(&rows, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%d/%d sent, %d failed</td></tr>`,
			esc(ts), esc(b.Text), esc(string(b.Status)), b.SentCount, b.RecipientCount, b.FailedCount)
	}

	body := fmt.Sprintf(`
<form method="post" action="/broadcast">
  <input type="hidden" name="csrf_token" value="%s">
  <label>Message<br><textarea name="text" rows="4" cols="50"></textarea></label><br>
  <button type="submit">Send to all subscribers</button>
</form>
<h2>Past Broadcasts</h2>
<table border="1"><tr><th>Time</th><th>Text</th><th>Status</th><th>Progress</th></tr>%s</table>`,
		esc(s.csrfToken(c)), rows.String())
	return c.HTML(http.StatusOK, renderPage("Broadcast", body))
}

// handleBroadcastCreate enqueues the broadcast, then runs the fan-out
// worker in its own goroutine so the admin's request doesn't block on
// every recipient's send.
func (s *Server) handleBroadcastCreate(c echo.Context) error {
	ctx := c.Request().Context()
	text := c.FormValue("text")
	if text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message text must not be empty")
	}

	b, err := s.broadcast.Enqueue(ctx, text)
	if err != nil {
		return err
	}

	go func() {
		_ = s.broadcast.Run(context.Background(), b.ID)
	}()

	return c.Redirect(http.StatusFound, "/broadcast")
}
