package service

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	// ErrValidation marks input rejected locally, before any remote call.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable marks a transport failure: no usable response was obtained.
	ErrUnavailable = errors.New("remote store unavailable")

	// ErrNoSession is returned by a session token source while signed out.
	ErrNoSession = errors.New("not logged in")
)

// ValidationError is a local validation failure carrying the user-visible message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid returns a ValidationError with the given message.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// RemoteMessage returns the message the store attached to a rejection.
// ok is false when err is not a remote rejection.
func RemoteMessage(err error) (msg string, ok bool) {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return "", false
	}
	return apiErr.Message, true
}

// StatusCode returns the HTTP status of a remote rejection, or 0.
func StatusCode(err error) int {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return 0
	}
	return apiErr.Code
}

// IsUnauthorized reports whether the store rejected the bearer token.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsUnavailable reports whether err is a transport failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
