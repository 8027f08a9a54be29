package admin

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nadlanit/concierge/internal/store"
)

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func (s *Server) handleBusinessHoursForm(c echo.Context) error {
	ctx := c.Request().Context()
	week, err := s.store.GetWeekHours(ctx)
	if err != nil {
		return err
	}
	byDay := make(map[int]*store.BusinessHours, len(week))
	for _, h := range week {
		byDay[h.DayOfWeek] = h
	}

	var rows strings.Builder
	for day := 0; day < 7; day++ {
		h := byDay[day]
		open, closeT, closed := "", "", false
		if h != nil {
			closed = h.Closed
			if h.OpenTime != nil {
				open = *h.OpenTime
			}
			if h.CloseTime != nil {
				closeT = *h.CloseTime
			}
		}
		checked := ""
		if closed {
			checked = "checked"
		}
		fmt.Fprintf(&rows, `<tr><td>%s</td>
<td><input type="time" name="open_%d" value="%s"></td>
<td><input type="time" name="close_%d" value="%s"></td>
<td><input type="checkbox" name="closed_%d" %s></td></tr>`,
			dayNames[day], day, esc(open), day, esc(closeT), day, checked)
	}

	special, err := s.store.ListSpecialDays(ctx, nil)
	if err != nil {
		return err
	}
	var specialRows strings.Builder
	for _, sd := range special {
		fmt.Fprintf(&specialRows, `<tr><td>%s</td><td>%s</td><td>%s</td>
<td><form method="post" action="/business-hours/special-days/delete/%d" style="display:inline">
  <input type="hidden" name="csrf_token" value="%s"><button type="submit">delete</button></form></td></tr>`,
			esc(sd.Date), esc(sd.Name), esc(sd.Notes), sd.ID, esc(s.csrfToken(c)))
	}

	body := fmt.Sprintf(`
<form method="post" action="/business-hours">
  <input type="hidden" name="csrf_token" value="%s">
  <table border="1"><tr><th>Day</th><th>Open</th><th>Close</th><th>Closed</th></tr>%s</table>
  <button type="submit">Save hours</button>
</form>
<h2>Special Days</h2>
<table border="1"><tr><th>Date</th><th>Name</th><th>Notes</th><th></th></tr>%s</table>
<form method="post" action="/business-hours/special-days/add">
  <input type="hidden" name="csrf_token" value="%s">
  <label>Date <input type="date" name="date"></label>
  <label>Name <input type="text" name="name"></label>
  <label>Notes <input type="text" name="notes"></label>
  <label>Closed <input type="checkbox" name="closed" checked></label>
  <button type="submit">Add special day</button>
</form>`, esc(s.csrfToken(c)), rows.String(), specialRows.String(), esc(s.csrfToken(c)))
	return c.HTML(http.StatusOK, renderPage("Business Hours", body))
}

func (s *Server) handleBusinessHoursUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	for day := 0; day < 7; day++ {
		open := c.FormValue(fmt.Sprintf("open_%d", day))
		closeT := c.FormValue(fmt.Sprintf("close_%d", day))
		closed := c.FormValue(fmt.Sprintf("closed_%d", day)) != ""

		h := &store.BusinessHours{DayOfWeek: day, Closed: closed}
		if open != "" {
			h.OpenTime = &open
		}
		if closeT != "" {
			h.CloseTime = &closeT
		}
		if _, err := s.store.UpsertHours(ctx, h); err != nil {
			return err
		}
	}
	return c.Redirect(http.StatusFound, "/business-hours")
}

func (s *Server) handleSpecialDayAdd(c echo.Context) error {
	ctx := c.Request().Context()
	closed := c.FormValue("closed") != ""
	d := &store.SpecialDay{
		Date:   c.FormValue("date"),
		Name:   c.FormValue("name"),
		Notes:  c.FormValue("notes"),
		Closed: closed,
	}
	if _, err := s.store.CreateSpecialDay(ctx, d); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/business-hours")
}

func (s *Server) handleSpecialDayDelete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := s.store.DeleteSpecialDay(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/business-hours")
}
