package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"curie/config"
	"curie/model"
	"curie/render"
)

type slashCommand struct {
	Name string
	Args string
	Help string
}

var slashCommands = []slashCommand{
	{Name: "merge", Help: "Open the merge documents panel"},
	{Name: "resume", Help: "Open the resume match panel"},
	{Name: "attach", Args: "[paths…]", Help: "Upload files to send with your next message"},
	{Name: "close", Help: "Close the open panel"},
	{Name: "export", Args: "<path>", Help: "Save the transcript as HTML"},
	{Name: "copy", Help: "Copy the latest download link"},
	{Name: "help", Help: "Show keys and commands"},
	{Name: "quit", Help: "Exit"},
}

type commandSource []slashCommand

func (s commandSource) String(i int) string { return s[i].Name }
func (s commandSource) Len() int            { return len(s) }

// parseCommand splits composer input into a command name and arguments.
// Input like "/api/files/x" is a message, not a command.
func parseCommand(input string) (string, []string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", nil, false
	}
	fields := strings.Fields(input[1:])
	if len(fields) == 0 {
		return "", nil, true
	}
	if strings.Contains(fields[0], "/") {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// resolveCommand finds the command an abbreviation or typo most likely means.
func resolveCommand(typed string) (slashCommand, bool) {
	if typed == "" {
		return slashCommand{}, false
	}
	for _, c := range slashCommands {
		if c.Name == typed {
			return c, true
		}
	}
	matches := fuzzy.FindFrom(typed, commandSource(slashCommands))
	if len(matches) == 0 {
		return slashCommand{}, false
	}
	return slashCommands[matches[0].Index], true
}

func commandList() string {
	names := make([]string, len(slashCommands))
	for i, c := range slashCommands {
		names[i] = "/" + c.Name
	}
	return strings.Join(names, " ")
}

type exportDoneMsg struct {
	Path string
	Err  error
}

// exportTranscript writes the transcript as HTML. A path without an
// extension gets ".html".
func exportTranscript(path, sessionID string, entries []model.Entry) tea.Cmd {
	return func() tea.Msg {
		path = config.ExpandPath(path)
		if filepath.Ext(path) == "" {
			path += ".html"
		}

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return exportDoneMsg{Path: path, Err: fmt.Errorf("failed to create export file: %w", err)}
		}
		if err := render.ExportHTML(f, sessionID, entries, time.Now()); err != nil {
			f.Close()
			return exportDoneMsg{Path: path, Err: fmt.Errorf("failed to write transcript: %w", err)}
		}
		if err := f.Close(); err != nil {
			return exportDoneMsg{Path: path, Err: err}
		}
		return exportDoneMsg{Path: path}
	}
}
