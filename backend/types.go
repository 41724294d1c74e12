package backend

import "regexp"

// UploadedFile is one entry of the upload response, in submission order.
type UploadedFile struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
}

type uploadResponse struct {
	Files []UploadedFile `json:"files"`
}

type ChatRequest struct {
	Message       string   `json:"message"`
	SessionID     string   `json:"session_id"`
	AttachmentIDs []string `json:"attachment_ids,omitempty"`
}

// ToolCall is one row of the agent's tool trace. Type is "call" or "output".
type ToolCall struct {
	Type      string `json:"type"`
	Tool      string `json:"tool,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	Output    string `json:"output,omitempty"`
}

type ChatResponse struct {
	Final     string     `json:"final"`
	ToolCalls []ToolCall `json:"tool_calls"`
}

const (
	ToolCallTypeCall   = "call"
	ToolCallTypeOutput = "output"
)

// DownloadPathPattern matches server download links embedded in agent text.
var DownloadPathPattern = regexp.MustCompile(`/api/files/[a-f0-9]+/download`)
