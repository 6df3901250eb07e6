package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCredentialsRejected  = errors.New("credentials rejected")
	ErrRegistrationRejected = errors.New("registration rejected")
	ErrSessionExpired       = errors.New("session expired")
	ErrInvalidSelection     = errors.New("selection outside allowed catalog")
	ErrRSVPSubmitFailed     = errors.New("rsvp submit failed")
	ErrFetchFailed          = errors.New("fetch failed")
)

// RejectedError wraps one of the sentinel errors above together with the
// reason string the remote API returned, so forms can display it inline.
type RejectedError struct {
	Kind   error
	Reason string
}

func (e RejectedError) Error() string {
	if e.Reason == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

func (e RejectedError) Unwrap() error { return e.Kind }
