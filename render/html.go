package render

import (
	"html/template"
	"io"
	"strings"
	"time"

	"curie/backend"
	"curie/model"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML replaces the five HTML-significant characters.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Linkify escapes s and turns every download path into an anchor. Escaping
// runs first so agent text can never inject markup.
func Linkify(s string) string {
	return backend.DownloadPathPattern.ReplaceAllString(EscapeHTML(s), `<a href="${0}" target="_blank">${0}</a>`)
}

// TraceRow formats one trace row as plain text.
func TraceRow(ev model.ToolCallEvent) string {
	if ev.Kind == model.ToolCallKindCall {
		return "-> " + ev.Tool + "(" + ev.Arguments + ")"
	}
	return "<- " + ev.Output
}

// RoleLabel is the speaker label shown in front of a message.
func RoleLabel(r model.Role) string {
	if r == model.RoleUser {
		return "you"
	}
	return "assistant"
}

type htmlRow struct {
	Class string
	Body  template.HTML
}

type htmlEntry struct {
	Trace bool
	Role  string
	Body  template.HTML
	Rows  []htmlRow
}

type htmlPage struct {
	Title     string
	SessionID string
	Generated string
	Entries   []htmlEntry
}

var pageTemplate = template.Must(template.New("transcript").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 50rem; margin: 2rem auto; }
.msg { margin: .5rem 0; }
.msg.you .bubble { background: #e8f5e9; }
.msg.assistant .bubble { background: #e3f2fd; }
.bubble { padding: .5rem .75rem; border-radius: .5rem; white-space: pre-wrap; }
.panel { border: 1px solid #ccc; border-radius: .5rem; padding: .5rem .75rem; }
.trace-title { font-weight: bold; }
.trace-row { font-family: monospace; white-space: pre-wrap; }
.trace-row.out { color: #555; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Session {{.SessionID}} exported {{.Generated}}</p>
<div id="messages">
{{- range .Entries}}
{{- if .Trace}}
<div class="tool-trace panel"><div class="trace-title">Tool calls</div>
{{- range .Rows}}
<div class="{{.Class}}">{{.Body}}</div>
{{- end}}
</div>
{{- else}}
<div class="msg {{.Role}}"><div class="bubble"><strong>{{.Role}}:</strong> {{.Body}}</div></div>
{{- end}}
{{- end}}
</div>
</body>
</html>
`))

// ExportHTML writes the transcript as a standalone HTML page. All agent and
// user text passes through Linkify; call rows are escaped only.
func ExportHTML(w io.Writer, sessionID string, entries []model.Entry, now time.Time) error {
	page := htmlPage{
		Title:     "Curie transcript",
		SessionID: sessionID,
		Generated: now.Format(time.RFC3339),
	}

	for _, e := range entries {
		if e.Kind == model.EntryTrace {
			he := htmlEntry{Trace: true}
			for _, ev := range e.Trace {
				row := htmlRow{Class: "trace-row", Body: template.HTML(EscapeHTML(TraceRow(ev)))}
				if ev.Kind == model.ToolCallKindOutput {
					row = htmlRow{Class: "trace-row out", Body: template.HTML(Linkify(TraceRow(ev)))}
				}
				he.Rows = append(he.Rows, row)
			}
			page.Entries = append(page.Entries, he)
			continue
		}
		page.Entries = append(page.Entries, htmlEntry{
			Role: RoleLabel(e.Message.Role),
			Body: template.HTML(Linkify(e.Message.Text)),
		})
	}

	return pageTemplate.Execute(w, page)
}
