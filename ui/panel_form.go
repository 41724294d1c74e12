package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/lipgloss"

	"curie/config"
	"curie/model"
)

type panelField int

const (
	fieldDocuments panelField = iota
	fieldTemplate
	fieldJDText
	fieldJDFile
	fieldResumes
	fieldRun
)

const composerFocus = -1

// panelForm is the view state of the open panel. The selections themselves
// live on the model's Panel.
type panelForm struct {
	seq     int
	kind    model.PanelKind
	fields  []panelField
	focus   int
	jdInput textarea.Model
}

func newPanelForm(p model.Panel) panelForm {
	f := panelForm{focus: composerFocus}
	if p == nil {
		return f
	}
	f.seq = p.Seq()
	f.kind = p.Kind()

	switch p.Kind() {
	case model.PanelMerge:
		f.fields = []panelField{fieldDocuments, fieldTemplate, fieldRun}
	case model.PanelResume:
		f.fields = []panelField{fieldJDText, fieldJDFile, fieldResumes, fieldRun}
		ta := textarea.New()
		ta.Placeholder = "Paste Job Description text (or upload a JD file below)"
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.SetHeight(4)
		ta.SetWidth(60)
		f.jdInput = ta
	}
	return f
}

func (f *panelForm) open() bool {
	return f.kind != model.PanelNone
}

// focused returns the field with focus; ok is false while the composer has it.
func (f *panelForm) focused() (panelField, bool) {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return 0, false
	}
	return f.fields[f.focus], true
}

// cycle moves focus by delta through composer → fields → composer.
func (f *panelForm) cycle(delta int) {
	if !f.open() {
		f.focus = composerFocus
		return
	}
	n := len(f.fields) + 1
	pos := (f.focus + 1 + delta + n) % n
	f.focus = pos - 1

	if field, ok := f.focused(); ok && field == fieldJDText {
		f.jdInput.Focus()
	} else {
		f.jdInput.Blur()
	}
}

func (f *panelForm) focusField(field panelField) {
	for i, fl := range f.fields {
		if fl == field {
			f.focus = i
			break
		}
	}
	if field == fieldJDText {
		f.jdInput.Focus()
	} else {
		f.jdInput.Blur()
	}
}

// slotFor returns the file slot a field edits, or nil.
func slotFor(p model.Panel, field panelField) *model.FileSlot {
	switch pp := p.(type) {
	case *model.MergePanel:
		switch field {
		case fieldDocuments:
			return &pp.Documents
		case fieldTemplate:
			return &pp.Template
		}
	case *model.ResumePanel:
		switch field {
		case fieldJDFile:
			return &pp.JDFile
		case fieldResumes:
			return &pp.Resumes
		}
	}
	return nil
}

func targetFor(field panelField) pickerTarget {
	switch field {
	case fieldDocuments:
		return targetDocuments
	case fieldTemplate:
		return targetTemplate
	case fieldJDFile:
		return targetJDFile
	case fieldResumes:
		return targetResumes
	default:
		return targetNone
	}
}

func fieldFor(target pickerTarget) panelField {
	switch target {
	case targetTemplate:
		return fieldTemplate
	case targetJDFile:
		return fieldJDFile
	case targetResumes:
		return fieldResumes
	default:
		return fieldDocuments
	}
}

func pickerConfigFor(slot *model.FileSlot) FilePickerConfig {
	return FilePickerConfig{
		Title:        strings.TrimSuffix(slot.Label, "…"),
		AllowedTypes: slot.Allowed,
		Multiple:     slot.Multiple,
	}
}

func panelHint(k model.PanelKind) string {
	if k == model.PanelMerge {
		return "Pick ≥ 2 docs to merge. Optional: a .docx template for layout."
	}
	return "Provide JD text or a JD file, plus one or more resumes."
}

// renderPanel draws the panel card shown under the transcript.
func renderPanel(p model.Panel, form panelForm, busy bool, kb *config.KeyBindingsConfig, width int) string {
	if p == nil {
		return ""
	}
	cardWidth := width - 4
	if cardWidth > 90 {
		cardWidth = 90
	}
	if cardWidth < 30 {
		cardWidth = 30
	}
	inner := cardWidth - 4

	var rows []string
	rows = append(rows, PanelTitleStyle.Render(p.Title()), "")

	for i, field := range form.fields {
		marker := "  "
		if i == form.focus {
			marker = SelectedStyle.Render("› ")
		}

		switch field {
		case fieldJDText:
			form.jdInput.SetWidth(inner - 2)
			for j, line := range strings.Split(form.jdInput.View(), "\n") {
				if j == 0 {
					rows = append(rows, marker+line)
				} else {
					rows = append(rows, "  "+line)
				}
			}
		case fieldRun:
			label := "Attach & Run"
			if busy {
				label = "Running…"
			}
			rows = append(rows, "", marker+ButtonStyle.Render(label)+"  "+DimStyle.Render(panelHint(p.Kind())))
		default:
			slot := slotFor(p, field)
			if slot == nil {
				continue
			}
			button := SecondaryButtonStyle.Render("[" + slot.Label + "]")
			desc := slot.Describe()
			style := DimStyle
			if slot.Len() > 0 {
				style = lipgloss.NewStyle()
			}
			room := inner - 2 - lipgloss.Width(button) - 1
			rows = append(rows, marker+button+" "+style.Render(truncateName(desc, room)))
		}
	}

	footer := FormatFooter(
		kb.DisplayActionKey("focus_next"), "Next field",
		"Enter", "Choose",
		kb.DisplayActionKey("clear_slot"), "Clear",
		kb.DisplayActionKey("run_panel"), "Run",
		kb.DisplayActionKey("close_panel"), "Close",
	)
	rows = append(rows, "", DimStyle.Render(footer))

	return PanelStyle.Width(cardWidth).Render(strings.Join(rows, "\n"))
}
