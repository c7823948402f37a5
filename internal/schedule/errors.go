package schedule

import (
	"errors"
	"fmt"
)

// ErrMissingStartDate is returned for tickets that have no start date to walk from.
var ErrMissingStartDate = errors.New("ticket has no start date")

// InvalidSizeError reports a size key that is not in the active size table.
type InvalidSizeError struct {
	Size string
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("invalid size %q", e.Size)
}

// TicketError ties a projection failure to the ticket that caused it.
type TicketError struct {
	TicketID int64
	Err      error
}

func (e *TicketError) Error() string {
	return fmt.Sprintf("ticket %d: %v", e.TicketID, e.Err)
}

func (e *TicketError) Unwrap() error { return e.Err }
