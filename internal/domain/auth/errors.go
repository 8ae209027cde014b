package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCredentials          = errors.New("invalid email or password")
	ErrInvalidToken                = errors.New("invalid or expired token")
	ErrAvatarRequired              = errors.New("a profile picture is required")
	ErrAccountScheduledForDeletion = errors.New("this account has been scheduled for deletion")
)

// ScheduledDeletionError refuses sign-in for a removed employee and carries
// what the client shows them.
type ScheduledDeletionError struct {
	Date   time.Time
	Reason string
}

func (e *ScheduledDeletionError) Error() string {
	return fmt.Sprintf("account scheduled for deletion on %s: %s", e.Date.Format("2006-01-02"), e.Reason)
}

func (e *ScheduledDeletionError) Is(target error) bool {
	return target == ErrAccountScheduledForDeletion
}
