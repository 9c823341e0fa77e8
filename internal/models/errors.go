package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a campaign, record or user does not exist or
// is not visible to the caller.
var ErrNotFound = errors.New("not found")

// ValidationError is returned when a local precondition is not met. It is
// always recoverable by the caller correcting input and is never retried
// automatically.
type ValidationError struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// NewValidationError builds a ValidationError from a list of messages
func NewValidationError(errs ...string) *ValidationError {
	return &ValidationError{Errors: errs}
}

// ConflictError is returned when campaign state changed concurrently
// (double submit, double approve). The caller must re-fetch current state.
type ConflictError struct {
	CampaignID string
	Message    string
}

func (e *ConflictError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("campaign %s was modified concurrently", e.CampaignID)
	}
	return e.Message
}

// InvalidStateError is returned when an operation is not legal from the
// campaign's current status.
type InvalidStateError struct {
	CampaignID string
	Current    CampaignStatus
	Operation  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s campaign %s in status %q", e.Operation, e.CampaignID, e.Current)
}

// ForbiddenError is returned on authorization failures (non-reviewer
// approving, non-owner submitting).
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	if e.Message == "" {
		return "forbidden"
	}
	return e.Message
}

// PartialFailureError is returned when one or more platform adapter calls
// failed during approve/activate. Local state has been rolled back to the
// pre-transition status; the per-platform outcomes tell the caller exactly
// which platforms succeeded so retries stay safe.
type PartialFailureError struct {
	CampaignID string
	Operation  string
	Results    []PlatformResult
}

func (e *PartialFailureError) Error() string {
	var failed, succeeded []string
	for _, r := range e.Results {
		if r.Success {
			succeeded = append(succeeded, string(r.Platform))
		} else {
			failed = append(failed, string(r.Platform))
		}
	}
	return fmt.Sprintf("%s of campaign %s partially failed: succeeded=[%s] failed=[%s]",
		e.Operation, e.CampaignID, strings.Join(succeeded, ","), strings.Join(failed, ","))
}
