package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curie/backend"
	"curie/backend/testutil"
	"curie/config"
	appmodel "curie/model"
)

func newTestView(t *testing.T) (AppView, *testutil.MockBackend) {
	t.Helper()
	cfg := &config.Config{
		ServerURL:   "http://localhost:8000",
		KeyBindings: config.DefaultKeybindings(),
	}
	mock := testutil.NewMockBackend()
	m := appmodel.NewModel("sess-ui", mock, nil, config.DefaultWelcomeMessage)

	v := NewAppView(cfg, m)
	next, _ := v.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	return next.(AppView), mock
}

func send(t *testing.T, v AppView, msg tea.Msg) (AppView, tea.Cmd) {
	t.Helper()
	next, cmd := v.Update(msg)
	return next.(AppView), cmd
}

// drain runs cmd and any batch it expands to, feeding results the model
// cares about back into the view.
func drain(t *testing.T, v AppView, cmd tea.Cmd) AppView {
	t.Helper()
	if cmd == nil {
		return v
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			v = drain(t, v, c)
		}
	case appmodel.TurnCompletedMsg, appmodel.AttachmentsUploadedMsg, exportDoneMsg:
		v, _ = send(t, v, msg)
	}
	return v
}

func typeAndEnter(t *testing.T, v AppView, text string) (AppView, tea.Cmd) {
	t.Helper()
	v.textarea.SetValue(text)
	return send(t, v, tea.KeyMsg{Type: tea.KeyEnter})
}

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func TestSubmitOpensPanelAndShowsReply(t *testing.T) {
	v, mock := newTestView(t)

	v, cmd := typeAndEnter(t, v, "Can you merge these documents?")
	require.NotNil(t, cmd)
	assert.Equal(t, appmodel.PanelMerge, v.dataModel.Panels.State())
	assert.Equal(t, appmodel.PanelMerge, v.form.kind)
	assert.True(t, v.dataModel.Busy)
	assert.Equal(t, "", v.textarea.Value())

	v = drain(t, v, cmd)
	assert.False(t, v.dataModel.Busy)
	require.Len(t, mock.Chats(), 1)

	view := v.View()
	assert.Contains(t, view, "Mock response")
	assert.Contains(t, view, "Merge Documents")
	assert.Contains(t, view, "No files chosen — Documents (.pdf, .docx)")
}

func TestSecondSubmitWhileBusy(t *testing.T) {
	v, mock := newTestView(t)

	v, cmd := typeAndEnter(t, v, "first")
	require.NotNil(t, cmd)

	v, second := typeAndEnter(t, v, "second")
	assert.Nil(t, second)
	assert.Equal(t, "second", v.textarea.Value())
	assert.Contains(t, v.status, "Still waiting")

	drain(t, v, cmd)
	assert.Len(t, mock.Chats(), 1)
}

func TestPanelKeys(t *testing.T) {
	v, _ := newTestView(t)

	v, _ = send(t, v, altKey('m'))
	require.Equal(t, appmodel.PanelMerge, v.dataModel.Panels.State())
	field, ok := v.form.focused()
	require.True(t, ok)
	assert.Equal(t, fieldDocuments, field)
	assert.False(t, v.textarea.Focused())

	v, _ = send(t, v, tea.KeyMsg{Type: tea.KeyTab})
	field, _ = v.form.focused()
	assert.Equal(t, fieldTemplate, field)

	// resume replaces merge
	v, _ = send(t, v, altKey('r'))
	assert.Equal(t, appmodel.PanelResume, v.dataModel.Panels.State())
	field, _ = v.form.focused()
	assert.Equal(t, fieldJDText, field)

	v, _ = send(t, v, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, appmodel.PanelNone, v.dataModel.Panels.State())
	assert.False(t, v.form.open())
	assert.True(t, v.textarea.Focused())
}

func TestFocusCyclesThroughComposer(t *testing.T) {
	v, _ := newTestView(t)
	v, _ = send(t, v, altKey('m'))

	// documents → template → run → composer → documents
	for _, want := range []int{1, 2, composerFocus, 0} {
		v, _ = send(t, v, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, want, v.form.focus)
	}
	v, _ = send(t, v, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, composerFocus, v.form.focus)
	assert.True(t, v.textarea.Focused())
}

func TestRunPanelValidation(t *testing.T) {
	v, mock := newTestView(t)
	v, _ = send(t, v, altKey('m'))

	v, cmd := send(t, v, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, mock.Requests())
	assert.Contains(t, v.View(), "Please choose at least two documents to merge.")
	assert.Equal(t, appmodel.PanelMerge, v.dataModel.Panels.State())
}

func TestRunPanelUploadsAndCloses(t *testing.T) {
	v, mock := newTestView(t)
	v, _ = send(t, v, altKey('r'))

	for _, r := range "Go dev" {
		v, _ = send(t, v, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, "Go dev", v.dataModel.Panels.Resume().JDText)
	require.NoError(t, v.dataModel.Panels.Resume().Resumes.Add("/tmp/cv.pdf"))

	v, cmd := send(t, v, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	v = drain(t, v, cmd)

	require.Len(t, mock.Chats(), 1)
	assert.Equal(t, "Please run resume matching on the resumes I just uploaded. JD Text:\nGo dev", mock.Chats()[0].Message)
	assert.Equal(t, appmodel.PanelNone, v.dataModel.Panels.State())
	assert.True(t, v.textarea.Focused())
}

func TestPanelFrozenWhileRunInFlight(t *testing.T) {
	v, mock := newTestView(t)
	v, _ = send(t, v, altKey('r'))
	for _, r := range "Go dev" {
		v, _ = send(t, v, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	require.NoError(t, v.dataModel.Panels.Resume().Resumes.Add("/tmp/cv.pdf"))

	v, cmd := send(t, v, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	require.True(t, v.dataModel.Busy)

	v, _ = send(t, v, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'!'}})
	assert.Equal(t, "Go dev", v.dataModel.Panels.Resume().JDText)
	assert.Equal(t, "Go dev", v.form.jdInput.Value())
	assert.True(t, v.statusErr)

	// Resumes field: neither the picker nor clear_slot may touch it
	v.form.focusField(fieldResumes)
	v, pickCmd := send(t, v, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, pickCmd)
	assert.False(t, v.picker.Active)
	v, _ = send(t, v, altKey('x'))
	assert.Equal(t, 1, v.dataModel.Panels.Resume().Resumes.Len())

	v = drain(t, v, cmd)
	require.Len(t, mock.Chats(), 1)
	assert.Equal(t, "Please run resume matching on the resumes I just uploaded. JD Text:\nGo dev", mock.Chats()[0].Message)
}

func TestSlashCommandsInComposer(t *testing.T) {
	v, mock := newTestView(t)

	v, _ = typeAndEnter(t, v, "/mrg")
	assert.Equal(t, appmodel.PanelMerge, v.dataModel.Panels.State())

	v, _ = typeAndEnter(t, v, "/close")
	assert.Equal(t, appmodel.PanelNone, v.dataModel.Panels.State())

	v, _ = typeAndEnter(t, v, "/zzz")
	assert.True(t, v.statusErr)
	assert.Contains(t, v.status, "/merge")

	v, cmd := typeAndEnter(t, v, "/api/files/ab/download is broken")
	require.NotNil(t, cmd)
	drain(t, v, cmd)
	require.Len(t, mock.Chats(), 1)
	assert.Equal(t, "/api/files/ab/download is broken", mock.Chats()[0].Message)
}

func TestExportCommand(t *testing.T) {
	v, _ := newTestView(t)
	dir := t.TempDir()

	v, cmd := typeAndEnter(t, v, "/export "+filepath.Join(dir, "chat"))
	require.NotNil(t, cmd)
	v = drain(t, v, cmd)

	path := filepath.Join(dir, "chat.html")
	assert.Equal(t, "Transcript saved to "+path, v.status)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<strong>assistant:</strong> Hi! I can merge documents")
}

func TestAttachCommandStagesFiles(t *testing.T) {
	v, mock := newTestView(t)

	v, cmd := typeAndEnter(t, v, "/attach /tmp/a.pdf /tmp/b.pdf")
	require.NotNil(t, cmd)
	v = drain(t, v, cmd)
	assert.Equal(t, 2, v.dataModel.Stager.Len())
	assert.Contains(t, v.renderStatusBar(), "a.pdf + 1 more")

	v, cmd = typeAndEnter(t, v, "here you go")
	drain(t, v, cmd)
	require.Len(t, mock.Chats(), 1)
	assert.Equal(t, []string{"a1", "b2"}, mock.Chats()[0].AttachmentIDs)
}

func TestTraceRendersBeforeReply(t *testing.T) {
	v, mock := newTestView(t)
	mock.ChatFunc = func(_ context.Context, _ backend.ChatRequest) (*backend.ChatResponse, error) {
		return &backend.ChatResponse{Final: "All merged.", ToolCalls: testutil.DownloadTrace()}, nil
	}

	v, cmd := typeAndEnter(t, v, "go")
	v = drain(t, v, cmd)

	view := v.View()
	trace := strings.Index(view, "Tool calls")
	require.GreaterOrEqual(t, trace, 0)
	assert.Less(t, trace, strings.Index(view, "All merged."))
	assert.Contains(t, view, "-> merge_documents(")
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in       string
		wantName string
		wantArgs []string
		wantOK   bool
	}{
		{"hello", "", nil, false},
		{"/merge", "merge", []string{}, true},
		{"  /Export out.html ", "export", []string{"out.html"}, true},
		{"/attach a.pdf b.pdf", "attach", []string{"a.pdf", "b.pdf"}, true},
		{"/", "", nil, true},
		{"/api/files/ab/download", "", nil, false},
	}

	for _, tt := range tests {
		name, args, ok := parseCommand(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.wantName, name, tt.in)
		assert.Equal(t, tt.wantArgs, args, tt.in)
	}
}

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		typed string
		want  string
		ok    bool
	}{
		{"merge", "merge", true},
		{"mrg", "merge", true},
		{"exp", "export", true},
		{"res", "resume", true},
		{"xyz", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		c, ok := resolveCommand(tt.typed)
		assert.Equal(t, tt.ok, ok, tt.typed)
		assert.Equal(t, tt.want, c.Name, tt.typed)
	}
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short.pdf", truncateName("short.pdf", 20))
	got := truncateName("a-very-long-file-name.docx", 12)
	assert.True(t, strings.HasSuffix(got, "….docx"), got)
	assert.LessOrEqual(t, len([]rune(got)), 12)
}
