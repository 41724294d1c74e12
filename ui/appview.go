package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"curie/config"
	appmodel "curie/model"
	"curie/render"
)

// Title (1) + separator (1) + composer (3) + status bar (1)
const chromeHeight = 6

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model
	cfg       *config.Config
	linker    render.Linker

	// UI Components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	picker   FilePickerState
	form     panelForm

	// Window state
	width  int
	height int
	ready  bool

	showHelp  bool
	status    string
	statusErr bool

	// Rendered transcript entries; the transcript only grows so the cache
	// only grows, until the width changes.
	rendered      []string
	renderedWidth int
}

func NewAppView(cfg *config.Config, dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Type a message… (/help for commands)"
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Enter sends; Alt+Enter inserts a newline
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	return AppView{
		dataModel: dataModel,
		cfg:       cfg,
		linker:    render.NewLinker(cfg.ServerURL),
		viewport:  viewport.New(0, 0),
		textarea:  ta,
		spinner:   sp,
		picker:    NewFilePickerState(),
		form:      newPanelForm(nil),
	}
}

func (a AppView) Init() tea.Cmd {
	return textarea.Blink
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading Curie..."
	}

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	if a.picker.Active {
		return RenderFilePickerModal(a.picker, a.width, a.height)
	}

	title := AssistantStyle.Bold(true).Render("Curie") + DimStyle.Render(" - "+a.cfg.ServerURL)
	if a.dataModel.Busy {
		title += " " + a.spinner.View() + DimStyle.Render(" waiting for the agent…")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		a.viewport.View(),
		a.textarea.View(),
		a.renderStatusBar(),
	)
}

func (a AppView) renderStatusBar() string {
	if a.status != "" {
		if a.statusErr {
			return ErrorStyle.Render(a.status)
		}
		return StatusStyle.Render(a.status)
	}

	kb := a.cfg.KeyBindings
	bar := FormatFooter(
		kb.DisplayActionKey("quit"), "Quit",
		kb.DisplayActionKey("help"), "Help",
		kb.DisplayActionKey("open_merge"), "Merge",
		kb.DisplayActionKey("open_resume"), "Resume",
		kb.DisplayActionKey("copy_link"), "Copy link",
		"Enter", "Send",
	)
	if a.dataModel.Stager.Len() > 0 {
		bar = UserStyle.Render("Attached: "+truncateName(a.dataModel.Stager.Describe(), 40)) + "  " + bar
	}
	return StatusStyle.Render(bar)
}

// SessionID exposes the session for the exit summary.
func (a AppView) SessionID() string {
	return a.dataModel.SessionID()
}
