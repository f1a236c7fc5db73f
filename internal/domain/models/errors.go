package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrObservationNotFound signals that no observation exists for the requested
// (animal, date) key. Edits require an existing observation.
var ErrObservationNotFound = errors.New("milking observation not found")

// ValidationError rejects malformed input before any store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DuplicateSessionError rejects a plain add targeting a session slot that is
// already populated for that animal and date. The stored value is untouched.
type DuplicateSessionError struct {
	TagNo   int64
	Date    time.Time
	Session Session
}

func (e *DuplicateSessionError) Error() string {
	return fmt.Sprintf("session %s already recorded for animal %d on %s",
		e.Session, e.TagNo, e.Date.Format(DateLayout))
}

// ReferenceDataUnavailableError wraps a failed group or membership fetch.
// Multi-group reports drop the affected group; single-group requests fail.
type ReferenceDataUnavailableError struct {
	GroupID string
	Err     error
}

func (e *ReferenceDataUnavailableError) Error() string {
	return fmt.Sprintf("reference data unavailable for group %s: %v", e.GroupID, e.Err)
}

func (e *ReferenceDataUnavailableError) Unwrap() error { return e.Err }

// ObservationFetchError wraps a failed per-group observation query, with the
// same partial-degrade policy as reference data failures.
type ObservationFetchError struct {
	GroupID string
	Err     error
}

func (e *ObservationFetchError) Error() string {
	return fmt.Sprintf("observation fetch failed for group %s: %v", e.GroupID, e.Err)
}

func (e *ObservationFetchError) Unwrap() error { return e.Err }
