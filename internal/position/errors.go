package position

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a mutating call arrives while another one is
	// in flight and the manager rejects concurrent calls.
	ErrBusy = errors.New("position: operation already in progress")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("position: manager closed")
)

// ValidationError reports a wrist-size bound violation that the manager was
// configured to enforce.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "position: validation: " + e.Message
}

// ResolveError wraps an image resolution failure.
type ResolveError struct {
	URLs []string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("position: resolve %d image(s): %v", len(e.URLs), e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }
