package model

import (
	"time"

	"curie/backend"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one immutable transcript line.
type Message struct {
	Role      Role
	Text      string
	Timestamp time.Time
}

type ToolCallKind string

const (
	ToolCallKindCall   ToolCallKind = "call"
	ToolCallKindOutput ToolCallKind = "output"
)

// ToolCallEvent is one row of an agent turn's tool trace.
type ToolCallEvent struct {
	Kind      ToolCallKind
	Tool      string
	Arguments string
	Output    string
}

// ConvertToolCalls maps wire rows to trace events, dropping unknown types.
func ConvertToolCalls(calls []backend.ToolCall) []ToolCallEvent {
	events := make([]ToolCallEvent, 0, len(calls))
	for _, tc := range calls {
		switch tc.Type {
		case backend.ToolCallTypeCall:
			events = append(events, ToolCallEvent{Kind: ToolCallKindCall, Tool: tc.Tool, Arguments: tc.Arguments})
		case backend.ToolCallTypeOutput:
			events = append(events, ToolCallEvent{Kind: ToolCallKindOutput, Output: tc.Output})
		}
	}
	return events
}

// ToolOutputs returns the text of every output row, in order.
func ToolOutputs(trace []ToolCallEvent) []string {
	var outputs []string
	for _, ev := range trace {
		if ev.Kind == ToolCallKindOutput {
			outputs = append(outputs, ev.Output)
		}
	}
	return outputs
}

type EntryKind int

const (
	EntryMessage EntryKind = iota
	EntryTrace
)

type Entry struct {
	Kind    EntryKind
	Message Message
	Trace   []ToolCallEvent
}

// Transcript is append-only. Nothing is ever edited or removed once added.
type Transcript struct {
	entries []Entry
	now     func() time.Time
}

func NewTranscript() *Transcript {
	return &Transcript{now: time.Now}
}

func (t *Transcript) AppendMessage(role Role, text string) Message {
	msg := Message{Role: role, Text: text, Timestamp: t.now()}
	t.entries = append(t.entries, Entry{Kind: EntryMessage, Message: msg})
	return msg
}

// AppendTrace adds one trace block. Empty traces are not rendered.
func (t *Transcript) AppendTrace(trace []ToolCallEvent) bool {
	if len(trace) == 0 {
		return false
	}
	rows := make([]ToolCallEvent, len(trace))
	copy(rows, trace)
	t.entries = append(t.entries, Entry{Kind: EntryTrace, Trace: rows})
	return true
}

// Entries returns a copy safe for the caller to range over.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Transcript) Len() int {
	return len(t.entries)
}

// LastDownloadPath returns the most recent download link mentioned by the
// agent, in either a message or a trace row.
func (t *Transcript) LastDownloadPath() string {
	for i := len(t.entries) - 1; i >= 0; i-- {
		e := t.entries[i]
		var texts []string
		if e.Kind == EntryMessage {
			if e.Message.Role != RoleAssistant {
				continue
			}
			texts = []string{e.Message.Text}
		} else {
			texts = ToolOutputs(e.Trace)
		}
		for j := len(texts) - 1; j >= 0; j-- {
			if found := backend.DownloadPathPattern.FindAllString(texts[j], -1); len(found) > 0 {
				return found[len(found)-1]
			}
		}
	}
	return ""
}
