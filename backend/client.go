package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"curie/config"
)

// marshalJSON encodes request bodies; tests replace it to force failures.
var marshalJSON = json.Marshal

// Client talks to the Curie agent server.
type Client struct {
	http    *http.Client
	baseURL *url.URL
}

// NewClient builds a client for baseURL. A zero timeout leaves request
// duration up to the transport.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = config.DefaultServerURL
	}

	parsedURL, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	return &Client{
		http:    &http.Client{Transport: transport, Timeout: timeout},
		baseURL: parsedURL,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// CloseIdleConnections releases pooled connections, e.g. on exit.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

// UploadFiles posts the local files as repeated "files" multipart fields.
// The response preserves submission order.
func (c *Client) UploadFiles(ctx context.Context, paths []string) ([]UploadedFile, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, p := range paths {
		if err := addFilePart(writer, p); err != nil {
			return nil, &TransportError{Op: "upload", Err: err}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &TransportError{Op: "upload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/files/upload"), body)
	if err != nil {
		return nil, &TransportError{Op: "upload", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	config.DebugLog.Debug("uploading files", zap.Strings("paths", paths))

	var out uploadResponse
	if err := c.do(req, "upload", &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

func addFilePart(w *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	part, err := w.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

// Chat runs one agent turn.
func (c *Client) Chat(ctx context.Context, chatReq ChatRequest) (*ChatResponse, error) {
	payload, err := marshalJSON(chatReq)
	if err != nil {
		return nil, &TransportError{Op: "chat", Err: fmt.Errorf("failed to marshal chat request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/chat"), bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: "chat", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	config.DebugLog.Debug("chat turn",
		zap.String("session_id", chatReq.SessionID),
		zap.Int("message_len", len(chatReq.Message)),
		zap.Strings("attachment_ids", chatReq.AttachmentIDs))

	var out ChatResponse
	if err := c.do(req, "chat", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping checks the server's health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/health"), nil)
	if err != nil {
		return &TransportError{Op: "health", Err: err}
	}
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(req, "health", &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("server reported status %q", out.Status)
	}
	return nil
}

func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		config.DebugLog.Warn("request failed", zap.String("op", op), zap.Error(err))
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		config.DebugLog.Warn("non-success status", zap.String("op", op), zap.Int("status", resp.StatusCode))
		return &TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("invalid response body: %w", err)}
	}
	return nil
}
