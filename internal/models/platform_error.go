package models

import "fmt"

// PlatformError is a classified failure from an external advertising
// platform call. Timeouts and 5xx responses are retryable; everything the
// platform rejected outright is not.
type PlatformError struct {
	Platform   Platform
	StatusCode int
	Retryable  bool
	Message    string
}

func (e *PlatformError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s platform error (status %d): %s", e.Platform, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s platform error: %s", e.Platform, e.Message)
}
