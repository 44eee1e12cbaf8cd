package geoterm

import (
	"errors"
	"fmt"

	"github.com/hupe1980/geoterm/blobstore"
	"github.com/hupe1980/geoterm/index"
)

var (
	// ErrDegenerateRegion is returned for polygons that cannot be covered
	// meaningfully: zero area, or spanning five or more cube faces.
	ErrDegenerateRegion = errors.New("degenerate region")
	// ErrRegionTooLarge is returned for regions whose covering at MinLevel
	// would exceed the cell limit.
	ErrRegionTooLarge = errors.New("region too large")
	// ErrNoRegion is returned by Processor methods before a polygon was
	// accepted by AddWKT.
	ErrNoRegion = errors.New("no region loaded")
	// ErrNotFound is returned for unknown documents and missing snapshots.
	ErrNotFound = errors.New("not found")
	// ErrSignatureMismatch is returned when a snapshot was built with a
	// different level triple than the engine.
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrNoStore is returned by Save and Load on an engine without a blob store.
	ErrNoStore = errors.New("no blob store configured")
)

// ErrRejected reports why AddWKT refused a polygon.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrRejected struct {
	Reason RejectReason
	cause  error
}

func (e *ErrRejected) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("polygon rejected: %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("polygon rejected: %s", e.Reason)
}

func (e *ErrRejected) Unwrap() error { return e.cause }

// Is matches ErrDegenerateRegion for the sanity-check reasons and
// ErrRegionTooLarge for RejectTooLarge.
func (e *ErrRejected) Is(target error) bool {
	switch target {
	case ErrDegenerateRegion:
		return e.Reason == RejectZeroArea || e.Reason == RejectTooManyFaces
	case ErrRegionTooLarge:
		return e.Reason == RejectTooLarge
	}
	return false
}

// ErrMixedResolution is returned by SingleResolution when the covering holds
// cells finer than the requested level, which denormalization cannot coarsen.
type ErrMixedResolution struct {
	Level int
	// Finer lists the levels above Level found in the covering.
	Finer []int
}

func (e *ErrMixedResolution) Error() string {
	return fmt.Sprintf("covering is not single resolution at level %d: found finer levels %v", e.Level, e.Finer)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, index.ErrNotFound) || errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, index.ErrSignatureMismatch) {
		return fmt.Errorf("%w: %w", ErrSignatureMismatch, err)
	}

	return err
}
