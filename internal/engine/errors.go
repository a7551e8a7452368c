package engine

import (
	"errors"
	"fmt"
)

// ErrAuthenticationFailed indicates login could not be established; the
// whole batch is aborted and nothing is scheduled.
var ErrAuthenticationFailed = errors.New("login failed, nothing was scheduled")

// InsufficientTimeSlotsError reports that the folder holds more images than
// the request has time slots.
type InsufficientTimeSlotsError struct {
	Media int
	Slots int
}

func (e *InsufficientTimeSlotsError) Error() string {
	return fmt.Sprintf("more images (%d) than time slots (%d), add more times", e.Media, e.Slots)
}
