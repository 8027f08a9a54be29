package admin

import (
	"html"
	"html/template"
	"strings"
)

// esc escapes a value interpolated into a hand-built HTML fragment string;
// every piece of user/store-originated text must pass through this before
// reaching render.
func esc(s string) string {
	return html.EscapeString(s)
}

// page wraps every rendered fragment in a minimal shared layout. The
// teacher's frontend is a bundled SPA; this admin surface is plain
// server-rendered HTML per spec, so the layout stays intentionally small.
const layoutTemplate = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Title}} — Concierge Admin</title></head>
<body>
<nav>
  <a href="/">Dashboard</a> |
  <a href="/kb">Knowledge Base</a> |
  <a href="/conversations">Conversations</a> |
  <a href="/requests">Agent Requests</a> |
  <a href="/appointments">Appointments</a> |
  <a href="/knowledge-gaps">Knowledge Gaps</a> |
  <a href="/business-hours">Hours</a> |
  <a href="/vacation-mode">Vacation</a> |
  <a href="/bot-personality">Bot Personality</a> |
  <a href="/referrals">Referrals</a> |
  <a href="/qr-code">QR Code</a> |
  <a href="/broadcast">Broadcast</a> |
  <a href="/logout">Logout</a>
</nav>
<hr>
<h1>{{.Title}}</h1>
{{.Body}}
</body>
</html>`

var layout = template.Must(template.New("layout").Parse(layoutTemplate))

type page struct {
	Title string
	Body  template.HTML
}

// renderPage executes the shared layout around a hand-built body fragment.
// bodyHTML is trusted template.HTML — callers must esc() any interpolated
// user- or store-originated text before building it.
func renderPage(title, bodyHTML string) string {
	var buf strings.Builder
	_ = layout.Execute(&buf, page{Title: title, Body: template.HTML(bodyHTML)})
	return buf.String()
}
