package ui

import (
	"fmt"
	"strings"

	appmodel "curie/model"
	"curie/render"
)

// refresh re-renders the transcript plus the open panel into the viewport.
func (a *AppView) refresh(gotoBottom bool) {
	width := a.viewport.Width
	if width <= 0 {
		return
	}
	if width != a.renderedWidth {
		a.rendered = nil
		a.renderedWidth = width
	}

	entries := a.dataModel.Transcript.Entries()
	for i := len(a.rendered); i < len(entries); i++ {
		a.rendered = append(a.rendered, a.renderEntry(entries[i], width))
	}

	var content strings.Builder
	content.WriteString(strings.Join(a.rendered, "\n"))

	if panel := renderPanel(a.dataModel.Panels.Current(), a.form, a.dataModel.Busy, a.cfg.KeyBindings, width); panel != "" {
		content.WriteString("\n")
		content.WriteString(panel)
		content.WriteString("\n")
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a AppView) renderEntry(e appmodel.Entry, width int) string {
	if e.Kind == appmodel.EntryTrace {
		return a.renderTrace(e.Trace, width)
	}

	msg := e.Message
	timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

	if msg.Role == appmodel.RoleUser {
		body := wordWrap(render.Sanitize(msg.Text), width-4)
		return formatUserMessage(timestamp, UserStyle.Render(render.RoleLabel(msg.Role)), a.linker.Linkify(body))
	}

	body := a.linker.Linkify(render.Markdown(msg.Text, width-4))
	return fmt.Sprintf("%s %s\n%s\n", timestamp, AssistantStyle.Render(render.RoleLabel(msg.Role)), body)
}

func (a AppView) renderTrace(trace []appmodel.ToolCallEvent, width int) string {
	boxWidth := width - 4
	if boxWidth > 100 {
		boxWidth = 100
	}

	lines := a.linker.TraceLines(trace)
	rows := make([]string, 0, len(lines)+1)
	rows = append(rows, TitleStyle.Render("Tool calls"))
	for i, line := range lines {
		if trace[i].Kind == appmodel.ToolCallKindCall {
			line = DimStyle.Render(line)
		}
		rows = append(rows, line)
	}

	return TraceStyle.Width(boxWidth).Render(strings.Join(rows, "\n")) + "\n"
}

func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	return result.String()
}
