package admin

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nadlanit/concierge/internal/store"
)

func (s *Server) handleKBList(c echo.Context) error {
	ctx := c.Request().Context()
	entries, err := s.store.ListKBEntries(ctx, nil)
	if err != nil {
		return err
	}

	var rows strings.Builder
	for _, e := range entries {
		status := "active"
		if !e.Active {
			status = "inactive"
		}
		fmt.Fprintf(&rows, `<tr>
  <td>%s</td><td>%s</td><td>%s</td>
  <td><a href="/kb/edit/%d">edit</a></td>
  <td><form method="post" action="/kb/delete/%d" style="display:inline">
    <input type="hidden" name="csrf_token" value="%s">
    <button type="submit">delete</button></form></td>
</tr>`, esc(e.Category), esc(e.Title), status, e.ID, e.ID, esc(s.csrfToken(c)))
	}

	body := fmt.Sprintf(`
<p><a href="/kb/add">Add entry</a> |
<form method="post" action="/kb/rebuild" style="display:inline">
  <input type="hidden" name="csrf_token" value="%s">
  <button type="submit">Rebuild index</button>
</form></p>
<table border="1"><tr><th>Category</th><th>Title</th><th>Status</th><th></th><th></th></tr>
%s
</table>`, esc(s.csrfToken(c)), rows.String())
	return c.HTML(http.StatusOK, renderPage("Knowledge Base", body))
}

func (s *Server) kbForm(c echo.Context, action, category, title, content string) string {
	return fmt.Sprintf(`
<form method="post" action="%s">
  <input type="hidden" name="csrf_token" value="%s">
  <label>Category <input type="text" name="category" value="%s"></label><br>
  <label>Title <input type="text" name="title" value="%s"></label><br>
  <label>Content<br><textarea name="content" rows="10" cols="60">%s</textarea></label><br>
  <button type="submit">Save</button>
</form>`, action, esc(s.csrfToken(c)), esc(category), esc(title), esc(content))
}

func (s *Server) handleKBAddForm(c echo.Context) error {
	return c.HTML(http.StatusOK, renderPage("Add Knowledge Base Entry", s.kbForm(c, "/kb/add", "", "", "")))
}

func (s *Server) handleKBAdd(c echo.Context) error {
	ctx := c.Request().Context()
	_, err := s.store.CreateKBEntry(ctx, &store.KBEntry{
		Category: c.FormValue("category"),
		Title:    c.FormValue("title"),
		Content:  c.FormValue("content"),
		Active:   true,
	})
	if err != nil {
		return err
	}
	if err := s.ragMgr.MarkStale(ctx); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/kb")
}

func (s *Server) handleKBEditForm(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	entry, err := s.store.GetKBEntry(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if entry == nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return c.HTML(http.StatusOK, renderPage("Edit Knowledge Base Entry",
		s.kbForm(c, fmt.Sprintf("/kb/edit/%d", id), entry.Category, entry.Title, entry.Content)))
}

func (s *Server) handleKBEdit(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	category, title, content := c.FormValue("category"), c.FormValue("title"), c.FormValue("content")
	_, err = s.store.UpdateKBEntry(ctx, &store.UpdateKBEntry{ID: id, Category: &category, Title: &title, Content: &content})
	if err != nil {
		return err
	}
	if err := s.ragMgr.MarkStale(ctx); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/kb")
}

func (s *Server) handleKBDelete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := s.store.DeleteKBEntry(ctx, id); err != nil {
		return err
	}
	if err := s.ragMgr.MarkStale(ctx); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/kb")
}

func (s *Server) handleKBRebuild(c echo.Context) error {
	if err := s.ragMgr.Rebuild(c.Request().Context()); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/kb")
}
