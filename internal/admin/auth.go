package admin

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nadlanit/concierge/internal/store"
)

func (s *Server) handleLoginForm(c echo.Context) error {
	token := s.csrfToken(c)
	body := fmt.Sprintf(`
<form method="post" action="/login">
  <input type="hidden" name="csrf_token" value="%s">
  <label>Username <input type="text" name="username"></label><br>
  <label>Password <input type="password" name="password"></label><br>
  <button type="submit">Log in</button>
</form>`, esc(token))
	return c.HTML(http.StatusOK, renderPage("Log in", body))
}

func (s *Server) handleLoginSubmit(c echo.Context) error {
	cookie, err := c.Cookie(csrfCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != c.FormValue("csrf_token") {
		return echo.NewHTTPError(http.StatusForbidden, "invalid csrf token")
	}

	username := c.FormValue("username")
	password := c.FormValue("password")
	if !s.verifyCredentials(username, password) {
		return c.HTML(http.StatusUnauthorized, renderPage("Log in", "<p>Invalid credentials.</p>"))
	}
	if err := s.issueSession(c, username); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

func (s *Server) handleLogout(c echo.Context) error {
	s.clearSession(c)
	return c.Redirect(http.StatusFound, "/login")
}

func (s *Server) handleDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	subs, _ := s.store.CountSubscribed(ctx)
	activeSessions, _ := s.store.ListActiveLiveChatSessions(ctx)
	pendingStatus, openStatus := store.AgentRequestPending, store.UnansweredOpen
	pending, _ := s.store.ListAgentRequests(ctx, &store.FindAgentRequest{Status: &pendingStatus})
	gaps, _ := s.store.ListUnansweredQuestions(ctx, &store.FindUnansweredQuestion{Status: &openStatus})

	body := fmt.Sprintf(`
<ul>
  <li>Subscribed users: %d</li>
  <li>Active live-chat sessions: %d</li>
  <li>Open agent requests: %d</li>
  <li>Open knowledge gaps: %d</li>
</ul>`, subs, len(activeSessions), len(pending), len(gaps))
	return c.HTML(http.StatusOK, renderPage("Dashboard", body))
}
