package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"curie/backend"
)

// MockBackend stands in for the agent service. Every call is recorded.
type MockBackend struct {
	UploadFunc func(ctx context.Context, paths []string) ([]backend.UploadedFile, error)
	ChatFunc   func(ctx context.Context, req backend.ChatRequest) (*backend.ChatResponse, error)

	mu      sync.Mutex
	uploads [][]string
	chats   []backend.ChatRequest
}

// NewMockBackend creates a mock that uploads successfully with ids a1, b2, ...
// and answers every chat with a fixed reply and no trace.
func NewMockBackend() *MockBackend {
	mock := &MockBackend{}
	mock.UploadFunc = mock.defaultUpload
	mock.ChatFunc = mock.defaultChat
	return mock
}

func (m *MockBackend) defaultUpload(ctx context.Context, paths []string) ([]backend.UploadedFile, error) {
	return UploadedFor(paths...), nil
}

func (m *MockBackend) defaultChat(ctx context.Context, req backend.ChatRequest) (*backend.ChatResponse, error) {
	return &backend.ChatResponse{Final: "Mock response"}, nil
}

func (m *MockBackend) UploadFiles(ctx context.Context, paths []string) ([]backend.UploadedFile, error) {
	m.mu.Lock()
	m.uploads = append(m.uploads, append([]string(nil), paths...))
	m.mu.Unlock()
	return m.UploadFunc(ctx, paths)
}

func (m *MockBackend) Chat(ctx context.Context, req backend.ChatRequest) (*backend.ChatResponse, error) {
	m.mu.Lock()
	m.chats = append(m.chats, req)
	m.mu.Unlock()
	return m.ChatFunc(ctx, req)
}

// Uploads returns the path lists of every upload call, in order.
func (m *MockBackend) Uploads() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.uploads...)
}

// Chats returns every chat request, in order.
func (m *MockBackend) Chats() []backend.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]backend.ChatRequest(nil), m.chats...)
}

// Requests is the total number of network calls made.
func (m *MockBackend) Requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads) + len(m.chats)
}

// UploadedFor builds an upload response for paths with ids a1, b2, c3, ...
func UploadedFor(paths ...string) []backend.UploadedFile {
	files := make([]backend.UploadedFile, len(paths))
	for i, p := range paths {
		files[i] = backend.UploadedFile{
			ID:       fmt.Sprintf("%c%d", 'a'+i, i+1),
			Filename: filepath.Base(p),
		}
	}
	return files
}
