package ui

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"curie/config"
	appmodel "curie/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// The picker needs every message except keys (directory reads)
	if a.picker.Active {
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			_, cmd = a.picker.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		a.viewport.Width = a.width
		a.viewport.Height = a.height - chromeHeight
		if a.viewport.Height < 1 {
			a.viewport.Height = 1
		}
		a.textarea.SetWidth(a.width)

		a.ready = true
		a.refresh(true)
		return a, tea.Batch(cmds...)

	case spinner.TickMsg:
		// the spinner stops ticking once nothing is outstanding
		if a.dataModel.Busy {
			a.spinner, cmd = a.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case appmodel.TurnCompletedMsg:
		a.dataModel.HandleTurnCompleted(msg)
		a.syncPanel()
		a.refresh(true)
		return a, tea.Batch(cmds...)

	case appmodel.AttachmentsUploadedMsg:
		a.dataModel.HandleAttachmentsUploaded(msg)
		if msg.Err == nil {
			a.setStatus(fmt.Sprintf("Attached %s. It will be sent with your next message.", appmodel.DescribeFiles(uploadedNames(msg))), false)
		}
		a.syncPanel()
		a.refresh(true)
		return a, tea.Batch(cmds...)

	case exportDoneMsg:
		if msg.Err != nil {
			a.setStatus("Export failed: "+msg.Err.Error(), true)
		} else {
			a.setStatus("Transcript saved to "+msg.Path, false)
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		return a.handleKey(msg, cmds)
	}

	// Cursor blink and other component messages
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	if a.form.kind == appmodel.PanelResume {
		a.form.jdInput, cmd = a.form.jdInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a AppView) handleKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	kb := a.cfg.KeyBindings
	k := msg.String()

	if k == "ctrl+c" || kb.Matches("quit", k) {
		config.DebugLog.Debug("quit requested")
		a.dataModel.Quitting = true
		return a, tea.Quit
	}

	if a.showHelp {
		if k == "esc" || k == "enter" || kb.Matches("help", k) {
			a.showHelp = false
		}
		return a, tea.Batch(cmds...)
	}

	if a.picker.Active {
		return a.handlePickerKey(msg, cmds)
	}

	a.status = ""

	switch {
	case kb.Matches("help", k):
		a.showHelp = true

	case kb.Matches("open_merge", k):
		a.openPanel(appmodel.PanelMerge)

	case kb.Matches("open_resume", k):
		a.openPanel(appmodel.PanelResume)

	case kb.Matches("close_panel", k):
		if a.form.open() {
			a.dataModel.ClosePanel()
			a.syncPanel()
			a.refresh(false)
		}

	case kb.Matches("copy_link", k):
		a.copyLink()

	case kb.Matches("scroll_down", k):
		a.viewport.SetYOffset(a.viewport.YOffset + 1)

	case kb.Matches("scroll_up", k):
		a.viewport.SetYOffset(a.viewport.YOffset - 1)

	case kb.Matches("page_down", k):
		a.viewport.PageDown()

	case kb.Matches("page_up", k):
		a.viewport.PageUp()

	case kb.Matches("focus_next", k) && a.form.open():
		a.form.cycle(1)
		a.applyFocus()
		a.refresh(true)

	case kb.Matches("focus_prev", k) && a.form.open():
		a.form.cycle(-1)
		a.applyFocus()
		a.refresh(true)

	case kb.Matches("run_panel", k) && a.form.open():
		cmds = append(cmds, a.runPanel())

	case kb.Matches("clear_slot", k):
		if a.panelLocked() {
			break
		}
		if field, ok := a.form.focused(); ok {
			if slot := slotFor(a.dataModel.Panels.Current(), field); slot != nil {
				slot.Clear()
				a.refresh(false)
			}
		}

	default:
		if field, ok := a.form.focused(); ok {
			cmds = append(cmds, a.handleFieldKey(field, msg))
			break
		}
		if k == "enter" {
			cmds = append(cmds, a.submit())
			break
		}
		var cmd tea.Cmd
		a.textarea, cmd = a.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

func (a *AppView) handleFieldKey(field panelField, msg tea.KeyMsg) tea.Cmd {
	switch field {
	case fieldJDText:
		if a.panelLocked() {
			return nil
		}
		var cmd tea.Cmd
		a.form.jdInput, cmd = a.form.jdInput.Update(msg)
		if p := a.dataModel.Panels.Resume(); p != nil {
			p.JDText = a.form.jdInput.Value()
		}
		a.refresh(true)
		return cmd

	case fieldRun:
		if msg.String() == "enter" {
			return a.runPanel()
		}

	default:
		if msg.String() != "enter" || a.panelLocked() {
			return nil
		}
		slot := slotFor(a.dataModel.Panels.Current(), field)
		if slot == nil {
			return nil
		}
		return a.picker.Activate(targetFor(field), pickerConfigFor(slot))
	}
	return nil
}

func (a AppView) handlePickerKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		target, selected := a.picker.Target, a.picker.Selected
		a.picker.Reset()
		if target == targetAttach && len(selected) > 0 {
			cmds = append(cmds, a.attach(selected))
		}
		a.refresh(false)
		return a, tea.Batch(cmds...)
	}

	path, cmd := a.picker.Update(msg)
	cmds = append(cmds, cmd)
	if path == "" || a.picker.Target == targetAttach {
		return a, tea.Batch(cmds...)
	}

	slot := slotFor(a.dataModel.Panels.Current(), fieldFor(a.picker.Target))
	if slot == nil || a.panelLocked() {
		a.picker.Reset()
		return a, tea.Batch(cmds...)
	}
	if err := slot.Add(path); err != nil {
		a.picker.Err = err.Error()
		return a, tea.Batch(cmds...)
	}
	if !slot.Multiple {
		a.picker.Reset()
	}
	a.refresh(false)
	return a, tea.Batch(cmds...)
}

// submit sends the composer text, or runs it as a slash command.
func (a *AppView) submit() tea.Cmd {
	text := a.textarea.Value()
	if name, args, ok := parseCommand(text); ok {
		a.textarea.Reset()
		return a.runCommand(name, args)
	}

	cmd, err := a.dataModel.SubmitMessage(text)
	if errors.Is(err, appmodel.ErrTurnInFlight) {
		a.setStatus("Still waiting for the previous reply.", true)
		return nil
	}
	if cmd == nil {
		return nil
	}
	a.textarea.Reset()
	a.syncPanel()
	a.refresh(true)
	return tea.Batch(cmd, a.spinner.Tick)
}

func (a *AppView) runCommand(name string, args []string) tea.Cmd {
	c, ok := resolveCommand(name)
	if !ok {
		a.setStatus("Commands: "+commandList(), name != "")
		return nil
	}
	config.DebugLog.Debug("slash command", zap.String("command", c.Name), zap.Strings("args", args))

	switch c.Name {
	case "merge":
		a.openPanel(appmodel.PanelMerge)
	case "resume":
		a.openPanel(appmodel.PanelResume)
	case "close":
		a.dataModel.ClosePanel()
		a.syncPanel()
		a.refresh(false)
	case "attach":
		if len(args) == 0 {
			return a.picker.Activate(targetAttach, FilePickerConfig{Title: "Attach files", Multiple: true})
		}
		paths := make([]string, len(args))
		for i, arg := range args {
			paths[i] = config.ExpandPath(arg)
		}
		return a.attach(paths)
	case "export":
		if len(args) != 1 {
			a.setStatus("Usage: /export <path>", true)
			return nil
		}
		return exportTranscript(args[0], a.dataModel.SessionID(), a.dataModel.Transcript.Entries())
	case "copy":
		a.copyLink()
	case "help":
		a.showHelp = true
	case "quit":
		a.dataModel.Quitting = true
		return tea.Quit
	}
	return nil
}

func (a *AppView) attach(paths []string) tea.Cmd {
	cmd, err := a.dataModel.AttachFiles(paths)
	if errors.Is(err, appmodel.ErrTurnInFlight) {
		a.setStatus("Still waiting for the previous reply.", true)
		return nil
	}
	if cmd == nil {
		return nil
	}
	a.setStatus("Uploading "+appmodel.DescribeFiles(baseNames(paths))+"…", false)
	return tea.Batch(cmd, a.spinner.Tick)
}

func (a *AppView) runPanel() tea.Cmd {
	if p := a.dataModel.Panels.Resume(); p != nil && !a.dataModel.Busy {
		p.JDText = a.form.jdInput.Value()
	}

	cmd, err := a.dataModel.RunPanel()
	var verr *appmodel.ValidationError
	switch {
	case errors.As(err, &verr):
		// the model already posted the message
		a.syncPanel()
		a.refresh(true)
		return nil
	case errors.Is(err, appmodel.ErrTurnInFlight):
		a.setStatus("Still waiting for the previous reply.", true)
		return nil
	case err != nil:
		a.setStatus(err.Error(), true)
		return nil
	}

	a.refresh(true)
	return tea.Batch(cmd, a.spinner.Tick)
}

func (a *AppView) openPanel(k appmodel.PanelKind) {
	a.dataModel.OpenPanel(k)
	a.syncPanel()
	if len(a.form.fields) > 0 {
		a.form.focusField(a.form.fields[0])
	}
	a.applyFocus()
	a.refresh(true)
}

// syncPanel rebuilds the form when the model's panel changed underneath it.
func (a *AppView) syncPanel() {
	cur := a.dataModel.Panels.Current()
	switch {
	case cur == nil && a.form.open():
		a.form = newPanelForm(nil)
	case cur != nil && cur.Seq() != a.form.seq:
		a.form = newPanelForm(cur)
	default:
		return
	}
	if a.picker.Active && a.picker.Target != targetAttach {
		a.picker.Reset()
	}
	a.applyFocus()
}

func (a *AppView) applyFocus() {
	if _, ok := a.form.focused(); ok {
		a.textarea.Blur()
		return
	}
	a.textarea.Focus()
}

func (a *AppView) copyLink() {
	url := a.dataModel.LastDownloadURL(a.cfg.ServerURL)
	if url == "" {
		a.setStatus("No download link yet.", false)
		return
	}
	if err := clipboard.WriteAll(url); err != nil {
		config.DebugLog.Debug("clipboard write failed", zap.Error(err))
		a.setStatus("Could not copy: "+err.Error(), true)
		return
	}
	a.setStatus("Copied "+url, false)
}

// panelLocked reports whether the panel form is frozen by an outstanding run.
func (a *AppView) panelLocked() bool {
	if !a.dataModel.Busy {
		return false
	}
	a.setStatus("Still waiting for the previous reply.", true)
	return true
}

func (a *AppView) setStatus(s string, isErr bool) {
	a.status = s
	a.statusErr = isErr
}

func uploadedNames(msg appmodel.AttachmentsUploadedMsg) []string {
	names := make([]string, len(msg.Files))
	for i, f := range msg.Files {
		names[i] = f.Filename
	}
	return names
}

func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}
