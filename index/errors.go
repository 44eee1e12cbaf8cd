package index

import (
	"errors"
	"fmt"
)

var (
	// ErrSignatureMismatch is returned when terms or snapshots generated
	// with a different level triple meet an index.
	ErrSignatureMismatch = errors.New("index: signature mismatch")
	// ErrCorruptSnapshot is returned when a snapshot fails to decode.
	ErrCorruptSnapshot = errors.New("index: corrupt snapshot")
	// ErrNotFound is returned for unknown document keys.
	ErrNotFound = errors.New("index: document not found")
)

// SignatureError reports the two signatures that did not match.
type SignatureError struct {
	Want string
	Got  string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("index: signature mismatch: index uses %q, got %q", e.Want, e.Got)
}

// Unwrap returns ErrSignatureMismatch.
func (e *SignatureError) Unwrap() error { return ErrSignatureMismatch }
