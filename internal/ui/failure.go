package ui

import "taskmaster/internal/service"

// NetworkErrorMessage is shown when no response was obtained.
const NetworkErrorMessage = "Network error. Please try again."

// FailureText picks the user-visible message for a failed remote call:
// the store's own message for a rejection, the connectivity message for a
// transport failure, and fallback otherwise.
func FailureText(err error, fallback string) string {
	if msg, ok := service.RemoteMessage(err); ok {
		if msg != "" {
			return msg
		}
		return fallback
	}
	if service.IsUnavailable(err) {
		return NetworkErrorMessage
	}
	return fallback
}
