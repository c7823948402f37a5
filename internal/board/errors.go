package board

import (
	"errors"
	"fmt"
)

var (
	ErrPersonNotFound     = errors.New("person not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrWeekOutOfRange     = errors.New("week outside availability horizon")
	ErrDescriptionMissing = errors.New("ticket description must not be empty")
	ErrInvalidRate        = errors.New("daily hour rate must be positive")
)

// InvalidAvailabilityError rejects negative weekly hours.
type InvalidAvailabilityError struct {
	Person string
	Week   int
	Hours  float64
}

func (e *InvalidAvailabilityError) Error() string {
	return fmt.Sprintf("invalid availability for %s week %d: %v hours", e.Person, e.Week+1, e.Hours)
}
