package model

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"curie/backend"
	"curie/config"
	"curie/intent"
)

// Model holds the conversation state and every rule about it. The ui
// package only renders it and forwards input.
type Model struct {
	Session    *ChatSession
	Backend    Backend
	Classifier intent.Classifier
	Transcript *Transcript
	Panels     *PanelController
	Stager     *Stager

	// Busy is set while a turn or attachment upload is outstanding.
	Busy     bool
	Quitting bool

	ctx context.Context
}

// NewModel creates the model and posts the welcome message. The welcome is
// the only assistant message that is never classified.
func NewModel(sessionID string, b Backend, classifier intent.Classifier, welcome string) *Model {
	if classifier == nil {
		classifier = intent.NewPatternClassifier()
	}
	m := &Model{
		Session:    NewChatSession(b, sessionID),
		Backend:    b,
		Classifier: classifier,
		Transcript: NewTranscript(),
		Panels:     NewPanelController(),
		Stager:     NewStager(),
		ctx:        context.Background(),
	}
	if welcome != "" {
		m.Transcript.AppendMessage(RoleAssistant, welcome)
	}
	return m
}

func (m *Model) SessionID() string {
	return m.Session.ID()
}

// SetContext replaces the context outstanding requests run under.
func (m *Model) SetContext(ctx context.Context) {
	m.ctx = ctx
}

// AddAssistantMessage appends an assistant message and lets its text open a
// panel.
func (m *Model) AddAssistantMessage(text string) {
	m.Transcript.AppendMessage(RoleAssistant, text)
	m.applyTarget(intent.EvaluatePanelTriggers(m.Classifier, intent.Turn{
		Source: intent.SourceAssistant,
		Text:   text,
	}))
}

// addReply renders a reply: the trace block first, then the final text. Both
// feed the panel triggers, the trace ahead of the text.
func (m *Model) addReply(res *TurnResult) {
	m.Transcript.AppendTrace(res.ToolCalls)
	m.Transcript.AppendMessage(RoleAssistant, res.Final)

	m.applyTarget(intent.EvaluatePanelTriggers(m.Classifier, intent.Turn{
		Source:      intent.SourceAssistant,
		Text:        res.Final,
		ToolOutputs: ToolOutputs(res.ToolCalls),
	}))
}

func (m *Model) applyTarget(t intent.Target) {
	if k := PanelKindFor(t); k != PanelNone {
		if m.Panels.Open(k) {
			config.DebugLog.Debug("panel opened", zap.Stringer("kind", k))
		}
	}
}

func (m *Model) OpenPanel(k PanelKind) bool {
	return m.Panels.Open(k)
}

func (m *Model) ClosePanel() {
	m.Panels.Close()
}

// SubmitMessage sends composer text. Blank input is ignored. Attachments
// staged with /attach ride along and are cleared whatever the outcome.
func (m *Model) SubmitMessage(text string) (tea.Cmd, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if m.Busy {
		return nil, ErrTurnInFlight
	}

	m.Transcript.AppendMessage(RoleUser, text)
	m.applyTarget(intent.EvaluatePanelTriggers(m.Classifier, intent.Turn{
		Source: intent.SourceUser,
		Text:   text,
	}))

	ids := m.Stager.Take()
	m.Busy = true

	session, ctx := m.Session, m.ctx
	return func() tea.Msg {
		res, err := session.SendTurn(ctx, text, ids)
		return TurnCompletedMsg{Origin: OriginComposer, Result: res, Err: err}
	}, nil
}

// RunPanel validates the open panel, then uploads its files and sends the
// composed message as one turn. A validation failure is reported in the
// transcript and makes no request.
func (m *Model) RunPanel() (tea.Cmd, error) {
	if m.Busy {
		return nil, ErrTurnInFlight
	}
	p := m.Panels.Current()
	if p == nil {
		return nil, ErrNoPanel
	}

	if err := p.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			m.AddAssistantMessage(verr.Message)
		}
		return nil, err
	}

	origin := OriginMerge
	if p.Kind() == PanelResume {
		origin = OriginResume
	}
	run := p.snapshot()
	paths := run.UploadPaths()
	m.Busy = true

	session, ctx, seq := m.Session, m.ctx, p.Seq()
	return func() tea.Msg {
		res, err := session.UploadAndSend(ctx, paths, run.ComposeMessage)
		return TurnCompletedMsg{Origin: origin, PanelSeq: seq, Result: res, Err: err}
	}, nil
}

// HandleTurnCompleted applies a finished turn. A panel run closes the panel
// it came from before the reply is rendered, so the reply may open a new one.
func (m *Model) HandleTurnCompleted(msg TurnCompletedMsg) {
	m.Busy = false
	if msg.Origin != OriginComposer {
		m.Panels.CloseIfCurrent(msg.PanelSeq)
	}

	if msg.Err != nil {
		config.DebugLog.Debug("turn failed", zap.Error(msg.Err))
		m.AddAssistantMessage(msg.Origin.errorPrefix() + msg.Err.Error())
		return
	}
	if msg.Result != nil {
		m.addReply(msg.Result)
	}
}

// AttachFiles uploads composer attachments right away; their ids are sent
// with the next message.
func (m *Model) AttachFiles(paths []string) (tea.Cmd, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if m.Busy {
		return nil, ErrTurnInFlight
	}
	m.Busy = true

	b, ctx := m.Backend, m.ctx
	paths = append([]string(nil), paths...)
	return func() tea.Msg {
		files, err := b.UploadFiles(ctx, paths)
		return AttachmentsUploadedMsg{Paths: paths, Files: files, Err: err}
	}, nil
}

func (m *Model) HandleAttachmentsUploaded(msg AttachmentsUploadedMsg) {
	m.Busy = false
	if msg.Err != nil {
		m.AddAssistantMessage("Upload error: " + msg.Err.Error())
		return
	}
	m.Stager.Stage(msg.Paths, msg.Files)
}

// LastDownloadURL resolves the latest download link against the server.
func (m *Model) LastDownloadURL(baseURL string) string {
	p := m.Transcript.LastDownloadPath()
	if p == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + p
}

var _ Backend = (*backend.Client)(nil)
