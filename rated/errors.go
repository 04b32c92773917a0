package rated

import (
	"errors"
	"fmt"
)

// Dict errors
var (
	// ErrNotFound indicates a lookup for a key that was never set.
	ErrNotFound = errors.New("rated: key not found")

	// ErrEmpty indicates HighestRated was called on an empty dict.
	ErrEmpty = errors.New("rated: dict is empty")

	// ErrOutOfRange indicates a Top request larger than the population.
	ErrOutOfRange = errors.New("rated: not enough entries")

	// ErrInvalidSource indicates Update or Rate was given something that is
	// neither a map nor an ordered slice of pairs.
	ErrInvalidSource = errors.New("rated: source is neither a map nor a pair slice")

	// ErrUnexpectedKey indicates a rating was supplied for a key that was
	// never inserted. Ratings can only be assigned to existing entries.
	ErrUnexpectedKey = errors.New("rated: rating for unknown key")
)

// UnexpectedKeyError reports which key made a Rate call fail.
// It unwraps to ErrUnexpectedKey.
type UnexpectedKeyError struct {
	Key string
}

func (e *UnexpectedKeyError) Error() string {
	return fmt.Sprintf("rated: rating for unknown key %q", e.Key)
}

func (e *UnexpectedKeyError) Unwrap() error { return ErrUnexpectedKey }
