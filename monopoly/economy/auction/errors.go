package auction

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is returned when a property already has a live auction.
	ErrConflict = errors.New("auction conflict")

	// ErrNotFound is returned for unknown auction or property ids.
	ErrNotFound = errors.New("auction not found")
)

// Reason classifies why a bid or pass command was rejected.
type Reason string

const (
	ReasonNotActive        Reason = "auction-not-active"
	ReasonNotEligible      Reason = "not-eligible"
	ReasonAlreadyPassed    Reason = "already-passed"
	ReasonBidTooLow        Reason = "bid-too-low"
	ReasonLeaderCannotPass Reason = "leader-cannot-pass"
)

// ValidationError is returned synchronously to the command sender; it never
// mutates auction state and is not broadcast.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rejected: %s", e.Reason)
}

func rejected(reason Reason) error {
	return &ValidationError{Reason: reason}
}
