package service

import (
	"errors"
	"fmt"
)

var (
	// Schedule Resolver rejections.
	ErrInvalidTime      = errors.New("schedule time is not a valid timestamp")
	ErrNotInFuture      = errors.New("schedule time is not in the future")
	ErrNoSchedulePolicy = errors.New("no fixed posting time configured for user")

	// Lifecycle guards.
	ErrEmptyBody          = errors.New("post body cannot be empty")
	ErrPostNotFound       = errors.New("post doesn't exist")
	ErrUserNotFound       = errors.New("user doesn't exist")
	ErrPublishedImmutable = errors.New("published posts cannot be modified")
	ErrNotScheduled       = errors.New("post is not scheduled")

	// Publisher failures.
	ErrAuthExpired = errors.New("platform credential is missing or expired")

	// Title batch workflow.
	ErrNoBatch       = errors.New("no title batch exists for user")
	ErrTitleNotFound = errors.New("title doesn't exist in current batch")
)

// PlatformError carries the platform's status and response body verbatim for
// diagnostics.
type PlatformError struct {
	StatusCode int
	Body       string
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform rejected request: status %d: %s", e.StatusCode, e.Body)
}
