package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEsc(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;", esc("<script>"))
	assert.Equal(t, "a &amp; b", esc("a & b"))
	assert.Equal(t, "plain text", esc("plain text"))
}

func TestRenderPage(t *testing.T) {
	html := renderPage("Dashboard", "<p>hello</p>")
	assert.Contains(t, html, "Dashboard — Concierge Admin")
	assert.Contains(t, html, "<p>hello</p>")
	assert.Contains(t, html, `<a href="/kb">Knowledge Base</a>`)
}

func TestSelectedAttr(t *testing.T) {
	assert.Equal(t, "selected", selectedAttr("formal", "formal"))
	assert.Equal(t, "", selectedAttr("formal", "friendly"))
}
