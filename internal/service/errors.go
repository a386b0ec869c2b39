package service

import (
	"errors"
	"fmt"
)

// DefaultErrorMessage is used when the authority gives no message.
const DefaultErrorMessage = "An error occurred"

// ValidationError is a local, pre-network input failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RemoteError is any failure reported by or on the way to the remote authority.
type RemoteError struct {
	Op      string // e.g. "login", "list tasks"
	Status  int    // HTTP status; 0 for transport failures
	Message string // human-readable message from the authority, if any
	Err     error  // underlying cause, if any
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return DefaultErrorMessage
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRemote reports whether err is (or wraps) a *RemoteError.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
