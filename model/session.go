package model

import (
	"context"

	"curie/backend"
	"curie/config"

	"go.uber.org/zap"
)

// Backend is the part of the agent service the client drives.
type Backend interface {
	UploadFiles(ctx context.Context, paths []string) ([]backend.UploadedFile, error)
	Chat(ctx context.Context, req backend.ChatRequest) (*backend.ChatResponse, error)
}

// TurnResult is one agent reply: the final text and the trace that led to it.
type TurnResult struct {
	Final     string
	ToolCalls []ToolCallEvent
}

// ChatSession binds every chat turn to one conversation id.
type ChatSession struct {
	backend   Backend
	sessionID string
}

func NewChatSession(b Backend, sessionID string) *ChatSession {
	return &ChatSession{backend: b, sessionID: sessionID}
}

func (s *ChatSession) ID() string {
	return s.sessionID
}

// SendTurn posts one message. ids are attachment ids already returned by an
// upload; nil sends the message alone.
func (s *ChatSession) SendTurn(ctx context.Context, message string, ids []string) (*TurnResult, error) {
	config.DebugLog.Debug("chat turn",
		zap.String("session", s.sessionID),
		zap.Int("attachments", len(ids)))

	resp, err := s.backend.Chat(ctx, backend.ChatRequest{
		Message:       message,
		SessionID:     s.sessionID,
		AttachmentIDs: ids,
	})
	if err != nil {
		config.DebugLog.Debug("chat turn failed", zap.Error(err))
		return nil, err
	}
	return &TurnResult{Final: resp.Final, ToolCalls: ConvertToolCalls(resp.ToolCalls)}, nil
}

// UploadAndSend uploads paths, lets compose turn the upload response into the
// message text, and sends it with every returned id attached.
func (s *ChatSession) UploadAndSend(ctx context.Context, paths []string, compose func([]backend.UploadedFile) string) (*TurnResult, error) {
	uploaded, err := s.backend.UploadFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(uploaded))
	for i, f := range uploaded {
		ids[i] = f.ID
	}
	return s.SendTurn(ctx, compose(uploaded), ids)
}
