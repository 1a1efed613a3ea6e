package domain

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidSessionID is returned when a session ID does not match the allowed charset.
var ErrInvalidSessionID = errors.New("invalid session id")

// ErrInvalidCoordinate is returned by the input boundary when a coordinate is malformed.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ErrCorruptSnapshot is returned when a stored snapshot cannot be rebuilt into a board.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateSessionID rejects IDs that are unsafe to use as store keys or URL segments.
func ValidateSessionID(id string) error {
	if !sessionIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return nil
}
