package model

import "errors"

// ValidationError is a client-side precondition failure. It is shown in the
// transcript and no request is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrTurnInFlight rejects a second submit while a turn is outstanding.
var ErrTurnInFlight = errors.New("a request is already in progress")

// ErrNoPanel is returned when a run is requested with no panel open.
var ErrNoPanel = errors.New("no panel is open")
