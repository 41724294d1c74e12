package backend

import "fmt"

// TransportError reports a failed upload or chat call: either the request
// never completed (Err set) or the server answered with a non-2xx status.
type TransportError struct {
	Op         string // "upload" or "chat"
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Op == "upload" {
			return fmt.Sprintf("upload failed %d", e.StatusCode)
		}
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
