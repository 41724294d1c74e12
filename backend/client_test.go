package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	c, err := NewClient(srv.URL, 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		c.CloseIdleConnections()
		srv.Close()
	})
	return c
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0600))
	return p
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
		want    string
	}{
		{"default", "", false, "http://localhost:8000"},
		{"trailing slash", "http://agent:8000/", false, "http://agent:8000"},
		{"https", "https://agent.example.com", false, "https://agent.example.com"},
		{"bad scheme", "ftp://agent", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.url, 0)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.BaseURL())
			c.CloseIdleConnections()
		})
	}
}

func TestUploadFiles(t *testing.T) {
	a := writeTemp(t, "a.pdf", "pdf-bytes")
	b := writeTemp(t, "template.docx", "docx-bytes")

	var gotNames []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/files/upload", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		for _, fh := range r.MultipartForm.File["files"] {
			gotNames = append(gotNames, fh.Filename)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"files": []map[string]string{
				{"id": "a1", "filename": "a.pdf"},
				{"id": "b2", "filename": "template.docx"},
			},
		})
	}))

	files, err := c.UploadFiles(context.Background(), []string{a, b})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.pdf", "template.docx"}, gotNames)
	want := []UploadedFile{{ID: "a1", Filename: "a.pdf"}, {ID: "b2", Filename: "template.docx"}}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("uploaded files mismatch (-want +got):\n%s", diff)
	}
}

func TestUploadMissingLocalFile(t *testing.T) {
	called := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := c.UploadFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.pdf")})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "upload", te.Op)
	assert.False(t, called, "no request should be sent when a file cannot be read")
}

func TestUploadStatusError(t *testing.T) {
	p := writeTemp(t, "a.pdf", "x")
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusRequestEntityTooLarge)
	}))

	_, err := c.UploadFiles(context.Background(), []string{p})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusRequestEntityTooLarge, te.StatusCode)
	assert.Equal(t, "upload failed 413", err.Error())
}

func TestChat(t *testing.T) {
	var got ChatRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		io.WriteString(w, `{
			"final": "Done. Download: /api/files/abc123/download",
			"tool_calls": [
				{"type": "call", "tool": "merge_documents", "arguments": "{\"file_ids\":[\"a1\",\"b2\"]}"},
				{"type": "output", "output": "Document generated successfully."}
			]
		}`)
	}))

	resp, err := c.Chat(context.Background(), ChatRequest{
		Message:       "merge please",
		SessionID:     "sess-1",
		AttachmentIDs: []string{"a1", "b2"},
	})
	require.NoError(t, err)

	assert.Equal(t, ChatRequest{Message: "merge please", SessionID: "sess-1", AttachmentIDs: []string{"a1", "b2"}}, got)
	assert.Equal(t, "Done. Download: /api/files/abc123/download", resp.Final)
	want := []ToolCall{
		{Type: ToolCallTypeCall, Tool: "merge_documents", Arguments: `{"file_ids":["a1","b2"]}`},
		{Type: ToolCallTypeOutput, Output: "Document generated successfully."},
	}
	if diff := cmp.Diff(want, resp.ToolCalls); diff != "" {
		t.Errorf("tool calls mismatch (-want +got):\n%s", diff)
	}
}

func TestChatOmitsEmptyAttachments(t *testing.T) {
	var raw map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		io.WriteString(w, `{"final":"hi","tool_calls":[]}`)
	}))

	_, err := c.Chat(context.Background(), ChatRequest{Message: "hello", SessionID: "s"})
	require.NoError(t, err)
	_, present := raw["attachment_ids"]
	assert.False(t, present)
	assert.Equal(t, "s", raw["session_id"])
}

func TestChatErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		_, err := c.Chat(context.Background(), ChatRequest{Message: "x", SessionID: "s"})
		assert.EqualError(t, err, "HTTP 502")
	})

	t.Run("bad body", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "<html>")
		}))
		_, err := c.Chat(context.Background(), ChatRequest{Message: "x", SessionID: "s"})
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Zero(t, te.StatusCode)
	})

	t.Run("encode", func(t *testing.T) {
		encodeErr := errors.New("unsupported value")
		orig := marshalJSON
		marshalJSON = func(any) ([]byte, error) { return nil, encodeErr }
		t.Cleanup(func() { marshalJSON = orig })

		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))
		_, err := c.Chat(context.Background(), ChatRequest{Message: "x", SessionID: "s"})
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "chat", te.Op)
		assert.ErrorIs(t, err, encodeErr)
	})

	t.Run("offline", func(t *testing.T) {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := l.Addr().String()
		l.Close()

		c, err := NewClient("http://"+addr, 0)
		require.NoError(t, err)
		defer c.CloseIdleConnections()

		_, err = c.Chat(context.Background(), ChatRequest{Message: "x", SessionID: "s"})
		var te *TransportError
		require.ErrorAs(t, err, &te)
		var opErr *net.OpError
		assert.True(t, errors.As(err, &opErr), "underlying network error should unwrap")
	})
}

func TestPing(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		io.WriteString(w, `{"status":"ok"}`)
	}))
	assert.NoError(t, c.Ping(context.Background()))
}
