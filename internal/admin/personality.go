package admin

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nadlanit/concierge/internal/config"
	"github.com/nadlanit/concierge/internal/store"
)

func (s *Server) handleBotPersonalityForm(c echo.Context) error {
	settings, err := s.store.GetBotSettings(c.Request().Context())
	if err != nil {
		return err
	}
	tone, phrases, followUp := string(config.ToneFriendly), "", true
	if settings != nil {
		tone = settings.Tone
		phrases = settings.CustomPhrases
		followUp = settings.FollowUpEnabled
	}

	checked := ""
	if followUp {
		checked = "checked"
	}

	body := fmt.Sprintf(`
<form method="post" action="/bot-personality">
  <input type="hidden" name="csrf_token" value="%s">
  <label>Tone
    <select name="tone">
      <option value="friendly" %s>friendly</option>
      <option value="formal" %s>formal</option>
      <option value="sales" %s>sales</option>
      <option value="luxury" %s>luxury</option>
    </select>
  </label><br>
  <label>Custom phrases<br><textarea name="phrases" rows="4" cols="50">%s</textarea></label><br>
  <label>Follow-up questions enabled <input type="checkbox" name="follow_up_enabled" %s></label><br>
  <button type="submit">Save</button>
</form>`, esc(s.csrfToken(c)),
		selectedAttr(tone, "friendly"), selectedAttr(tone, "formal"), selectedAttr(tone, "sales"), selectedAttr(tone, "luxury"),
		esc(phrases), checked)
	return c.HTML(http.StatusOK, renderPage("Bot Personality", body))
}

func selectedAttr(current, value string) string {
	if current == value {
		return "selected"
	}
	return ""
}

func (s *Server) handleBotPersonalityUpdate(c echo.Context) error {
	tone := string(config.ParseTone(c.FormValue("tone")))
	settings := &store.BotSettings{
		Tone:            tone,
		CustomPhrases:   c.FormValue("phrases"),
		FollowUpEnabled: c.FormValue("follow_up_enabled") != "",
	}
	if _, err := s.store.UpdateBotSettings(c.Request().Context(), settings); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/bot-personality")
}
