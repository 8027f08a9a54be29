package admin

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const topReferrersLimit = 20

func (s *Server) handleReferralsList(c echo.Context) error {
	ctx := c.Request().Context()
	referrals, err := s.store.ListReferrals(ctx)
	if err != nil {
		return err
	}
	top, err := s.store.TopReferrers(ctx, topReferrersLimit)
	if err != nil {
		return err
	}

	var rows strings.Builder
	for _, r := range referrals {
		ts := time.Unix(r.CreatedAt, 0).Format(time.RFC3339)
		referred := "-"
		if r.ReferredID != nil {
			referred = *r.ReferredID
		}
		fmt.Fprintf(&rows, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			esc(ts), esc(r.ReferrerID), esc(referred), esc(r.Code), esc(string(r.Status)))
	}

	var leaderRows strings.Builder
	for _, t := range top {
		fmt.Fprintf(&leaderRows, `<tr><td>%s</td><td>%d</td><td>%d</td></tr>`, esc(t.ReferrerID), t.CompletedCount, t.PendingCount)
	}

	body := fmt.Sprintf(`
<h2>Top Referrers</h2>
<table border="1"><tr><th>Referrer</th><th>Completed</th><th>Pending</th></tr>%s</table>
<h2>All Referrals</h2>
<table border="1"><tr><th>Time</th><th>Referrer</th><th>Referred</th><th>Code</th><th>Status</th></tr>%s</table>`,
		leaderRows.String(), rows.String())
	return c.HTML(http.StatusOK, renderPage("Referrals", body))
}
