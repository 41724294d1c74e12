package model

import (
	"fmt"
	"strings"

	"curie/backend"
	"curie/intent"
)

type PanelKind int

const (
	PanelNone PanelKind = iota
	PanelMerge
	PanelResume
)

func (k PanelKind) String() string {
	switch k {
	case PanelMerge:
		return "merge"
	case PanelResume:
		return "resume"
	default:
		return "none"
	}
}

// PanelKindFor maps a classifier target to the panel it asks for.
func PanelKindFor(t intent.Target) PanelKind {
	switch t {
	case intent.TargetMerge:
		return PanelMerge
	case intent.TargetResume:
		return PanelResume
	default:
		return PanelNone
	}
}

// Panel is the open contextual form. Concrete types are *MergePanel and
// *ResumePanel; "closed" is a nil Panel.
type Panel interface {
	Kind() PanelKind
	Title() string
	Seq() int

	// Validate checks the form before anything touches the network.
	Validate() error
	// UploadPaths lists local files in upload order.
	UploadPaths() []string
	// ComposeMessage builds the chat text from the upload response.
	ComposeMessage(uploaded []backend.UploadedFile) string

	// snapshot copies the form so a run is unaffected by later edits.
	snapshot() Panel
}

type panelBase struct {
	seq int
}

func (p panelBase) Seq() int { return p.seq }

// MergePanel collects two or more documents and an optional layout template.
type MergePanel struct {
	panelBase
	Documents FileSlot
	Template  FileSlot
}

func newMergePanel(seq int) *MergePanel {
	return &MergePanel{
		panelBase: panelBase{seq: seq},
		Documents: FileSlot{
			Label:     "Choose documents…",
			EmptyText: "No files chosen — Documents (.pdf, .docx)",
			Multiple:  true,
			Allowed:   []string{".pdf", ".docx"},
		},
		Template: FileSlot{
			Label:     "Choose template…",
			EmptyText: "No file chosen — Template (.docx, optional)",
			Allowed:   []string{".docx"},
		},
	}
}

func (p *MergePanel) Kind() PanelKind { return PanelMerge }
func (p *MergePanel) Title() string   { return "Merge Documents" }

func (p *MergePanel) snapshot() Panel {
	c := *p
	c.Documents = p.Documents.clone()
	c.Template = p.Template.clone()
	return &c
}

func (p *MergePanel) Validate() error {
	if p.Documents.Len() < 2 {
		return &ValidationError{Message: "Please choose at least two documents to merge."}
	}
	return nil
}

func (p *MergePanel) UploadPaths() []string {
	paths := p.Documents.Paths()
	if p.Template.Len() == 1 {
		paths = append(paths, p.Template.Paths()[0])
	}
	return paths
}

// TemplateID finds the template's server id: the template is uploaded last,
// so it is the final item, provided that item really is a .docx.
func (p *MergePanel) TemplateID(uploaded []backend.UploadedFile) string {
	if p.Template.Len() != 1 || len(uploaded) == 0 {
		return ""
	}
	last := uploaded[len(uploaded)-1]
	if strings.HasSuffix(strings.ToLower(last.Filename), ".docx") {
		return last.ID
	}
	return ""
}

func (p *MergePanel) ComposeMessage(uploaded []backend.UploadedFile) string {
	if id := p.TemplateID(uploaded); id != "" {
		return fmt.Sprintf("Please merge the documents I just uploaded using this template (template_id: %s).", id)
	}
	return "Please merge the documents I just uploaded."
}

// ResumePanel collects a job description (pasted text or file) and resumes.
type ResumePanel struct {
	panelBase
	JDText  string
	JDFile  FileSlot
	Resumes FileSlot
}

func newResumePanel(seq int) *ResumePanel {
	return &ResumePanel{
		panelBase: panelBase{seq: seq},
		JDFile: FileSlot{
			Label:     "Choose JD file…",
			EmptyText: "No file chosen — Job Description (.pdf, .docx, .txt)",
			Allowed:   []string{".pdf", ".docx", ".txt"},
		},
		Resumes: FileSlot{
			Label:     "Choose resumes…",
			EmptyText: "No files chosen — Resumes (.pdf, .docx, .txt)",
			Multiple:  true,
			Allowed:   []string{".pdf", ".docx", ".txt"},
		},
	}
}

func (p *ResumePanel) Kind() PanelKind { return PanelResume }
func (p *ResumePanel) Title() string   { return "Resume Match" }

func (p *ResumePanel) snapshot() Panel {
	c := *p
	c.JDFile = p.JDFile.clone()
	c.Resumes = p.Resumes.clone()
	return &c
}

func (p *ResumePanel) jdText() string {
	return strings.TrimSpace(p.JDText)
}

func (p *ResumePanel) Validate() error {
	if (p.jdText() == "" && p.JDFile.Len() == 0) || p.Resumes.Len() == 0 {
		return &ValidationError{Message: "Please provide a JD (text or file) and at least one resume."}
	}
	return nil
}

func (p *ResumePanel) UploadPaths() []string {
	paths := p.Resumes.Paths()
	if p.JDFile.Len() == 1 {
		paths = append(paths, p.JDFile.Paths()[0])
	}
	return paths
}

// JDFileID is the id of the last uploaded item when a JD file was chosen.
func (p *ResumePanel) JDFileID(uploaded []backend.UploadedFile) string {
	if p.JDFile.Len() != 1 || len(uploaded) == 0 {
		return ""
	}
	return uploaded[len(uploaded)-1].ID
}

func (p *ResumePanel) ComposeMessage(uploaded []backend.UploadedFile) string {
	msg := "Please run resume matching on the resumes I just uploaded."
	if jd := p.jdText(); jd != "" {
		msg += " JD Text:\n" + jd
	}
	if id := p.JDFileID(uploaded); id != "" {
		msg += fmt.Sprintf(" Also use the uploaded JD file (template_id: %s).", id)
	}
	return msg
}

// PanelController owns the single panel slot. Opening a panel always removes
// whatever was there first, so at most one panel exists at any time.
type PanelController struct {
	current Panel
	nextSeq int
}

func NewPanelController() *PanelController {
	return &PanelController{}
}

// Open shows a panel of kind k. Re-opening the kind that is already showing
// is a no-op and keeps its selections; the return value reports whether a
// fresh panel was created.
func (c *PanelController) Open(k PanelKind) bool {
	if k == PanelNone {
		return false
	}
	if c.current != nil && c.current.Kind() == k {
		return false
	}

	c.current = nil
	c.nextSeq++
	switch k {
	case PanelMerge:
		c.current = newMergePanel(c.nextSeq)
	case PanelResume:
		c.current = newResumePanel(c.nextSeq)
	}
	return true
}

func (c *PanelController) Close() {
	c.current = nil
}

// CloseIfCurrent closes the panel only if it is still the one identified by
// seq, so a finished run never removes a panel opened after it started.
func (c *PanelController) CloseIfCurrent(seq int) {
	if c.current != nil && c.current.Seq() == seq {
		c.current = nil
	}
}

func (c *PanelController) Current() Panel {
	return c.current
}

func (c *PanelController) State() PanelKind {
	if c.current == nil {
		return PanelNone
	}
	return c.current.Kind()
}

func (c *PanelController) Merge() *MergePanel {
	p, _ := c.current.(*MergePanel)
	return p
}

func (c *PanelController) Resume() *ResumePanel {
	p, _ := c.current.(*ResumePanel)
	return p
}
