package multipla

import (
	"errors"
	"fmt"
)

// Registry errors.
var (
	// ErrAlreadyPlugged is returned by PlugIn when the implementation
	// identifier is already occupied.
	ErrAlreadyPlugged = errors.New("multipla: implementation already plugged")

	// ErrNotResolved is returned by Resolve when the extension point does
	// not exist or has no implementations and no default was supplied.
	ErrNotResolved = errors.New("multipla: nothing plugged in")
)

// AlreadyPluggedError reports a conflicting PlugIn call. Existing carries
// the implementation that stays registered. It unwraps to ErrAlreadyPlugged.
type AlreadyPluggedError struct {
	Label    string // extension point label
	ID       string // implementation identifier
	Existing any    // the implementation that was there first
}

func (e *AlreadyPluggedError) Error() string {
	return fmt.Sprintf("multipla: %s.%s already plugged", e.Label, e.ID)
}

func (e *AlreadyPluggedError) Unwrap() error { return ErrAlreadyPlugged }
