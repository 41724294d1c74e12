package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"curie/config"
)

// pickerTarget is where the picker's selections go.
type pickerTarget int

const (
	targetNone pickerTarget = iota
	targetDocuments
	targetTemplate
	targetJDFile
	targetResumes
	targetAttach
)

type FilePickerConfig struct {
	Title          string
	AllowedTypes   []string
	Multiple       bool
	StartDirectory string
	ShowHidden     bool
}

// FilePickerState wraps the bubbles file picker as a modal. Multi-select
// pickers stay open and collect paths until Esc.
type FilePickerState struct {
	Active   bool
	Picker   filepicker.Model
	Config   FilePickerConfig
	Target   pickerTarget
	Selected []string
	Err      string
}

func NewFilePickerState() FilePickerState {
	return FilePickerState{Picker: newPicker(FilePickerConfig{})}
}

func newPicker(cfg FilePickerConfig) filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = cfg.AllowedTypes
	fp.Height = 10
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.ShowHidden = cfg.ShowHidden

	startDir := cfg.StartDirectory
	if startDir == "" {
		startDir = config.GetHomeDir()
	}
	fp.CurrentDirectory = startDir

	fp.Styles.Directory = lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true)
	fp.Styles.File = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15"))
	fp.Styles.Selected = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true)
	fp.Styles.Cursor = lipgloss.NewStyle().
		Foreground(successColor)
	return fp
}

// Activate opens the picker for target. The returned command reads the
// starting directory.
func (fps *FilePickerState) Activate(target pickerTarget, cfg FilePickerConfig) tea.Cmd {
	if cfg.StartDirectory == "" && fps.Picker.CurrentDirectory != "" {
		// reopen where the user last was
		cfg.StartDirectory = fps.Picker.CurrentDirectory
	}
	fps.Active = true
	fps.Config = cfg
	fps.Target = target
	fps.Selected = nil
	fps.Err = ""
	fps.Picker = newPicker(cfg)
	return fps.Picker.Init()
}

func (fps *FilePickerState) Reset() {
	fps.Active = false
	fps.Target = targetNone
	fps.Selected = nil
	fps.Err = ""
}

// Update forwards msg to the picker and reports a chosen file, if any.
func (fps *FilePickerState) Update(msg tea.Msg) (string, tea.Cmd) {
	var cmd tea.Cmd
	fps.Picker, cmd = fps.Picker.Update(msg)

	if ok, path := fps.Picker.DidSelectFile(msg); ok {
		fps.Err = ""
		if fps.Config.Multiple {
			fps.Selected = append(fps.Selected, path)
		}
		return path, cmd
	}
	if ok, path := fps.Picker.DidSelectDisabledFile(msg); ok {
		fps.Err = fmt.Sprintf("%s is not a %s file", filepath.Base(path), strings.Join(fps.Config.AllowedTypes, "/"))
	}
	return "", cmd
}

func RenderFilePickerModal(state FilePickerState, width, height int) string {
	if width < 20 || height < 10 {
		return "Terminal too small"
	}

	modalWidth := width - 10
	if modalWidth > 80 {
		modalWidth = 80
	}

	contentStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Left)

	var messageLines []string
	for _, line := range strings.Split(state.Picker.View(), "\n") {
		messageLines = append(messageLines, contentStyle.Render("  "+strings.TrimRight(line, " ")))
	}

	if state.Config.Multiple {
		names := make([]string, len(state.Selected))
		for i, p := range state.Selected {
			names[i] = filepath.Base(p)
		}
		chosen := "Nothing chosen yet"
		if len(names) > 0 {
			chosen = "Chosen: " + truncateName(strings.Join(names, ", "), modalWidth-12)
		}
		messageLines = append(messageLines, "", contentStyle.Render("  "+DimStyle.Render(chosen)))
	}
	if state.Err != "" {
		messageLines = append(messageLines, "", contentStyle.Render("  "+ErrorStyle.Render(state.Err)))
	}

	footer := FormatFooter("j/k", "Navigate", "h/l", "Back/Open", "Enter", "Choose", "Esc", "Cancel")
	if state.Config.Multiple {
		footer = FormatFooter("j/k", "Navigate", "h/l", "Back/Open", "Enter", "Add", "Esc", "Done")
	}

	return RenderThreeSectionModal(
		state.Config.Title,
		messageLines,
		footer,
		ModalTypeInfo,
		modalWidth,
		width,
		height,
	)
}
