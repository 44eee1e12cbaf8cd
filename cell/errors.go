package cell

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLevel is returned when a level is outside [0, MaxLevel] or
	// finer than the cell it is applied to.
	ErrInvalidLevel = errors.New("invalid cell level")

	// ErrInvalidToken is returned when a token cannot be decoded into a valid ID.
	ErrInvalidToken = errors.New("invalid cell token")
)

// ErrLevel describes a rejected level request.
type ErrLevel struct {
	Level     int // level of the cell
	Requested int
}

func (e *ErrLevel) Error() string {
	return fmt.Sprintf("invalid cell level: requested %d for cell at level %d", e.Requested, e.Level)
}

// Unwrap allows errors.Is(err, ErrInvalidLevel).
func (e *ErrLevel) Unwrap() error {
	return ErrInvalidLevel
}

// ErrToken describes a malformed token.
type ErrToken struct {
	Token string
}

func (e *ErrToken) Error() string {
	return fmt.Sprintf("invalid cell token %q", e.Token)
}

// Unwrap allows errors.Is(err, ErrInvalidToken).
func (e *ErrToken) Unwrap() error {
	return ErrInvalidToken
}
