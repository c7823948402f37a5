package models

import "fmt"

// Status is the workflow state of a ticket.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusPaused     Status = "Paused"
	StatusDone       Status = "Done"
	StatusClosed     Status = "Closed"
)

// StatusCycle is the only order in which statuses may change.
var StatusCycle = []Status{StatusToDo, StatusInProgress, StatusPaused, StatusDone, StatusClosed}

// ParseStatus validates s against the known statuses.
func ParseStatus(s string) (Status, error) {
	for _, st := range StatusCycle {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Next returns the status that follows s in the cycle; Closed wraps to To Do.
func (s Status) Next() Status {
	for i, st := range StatusCycle {
		if st == s {
			return StatusCycle[(i+1)%len(StatusCycle)]
		}
	}
	return StatusToDo
}

// ConsumesCapacity reports whether tickets in this status take up hours.
func (s Status) ConsumesCapacity() bool {
	return s == StatusToDo || s == StatusInProgress
}

// Class is the CSS class the frontend uses for the status badge.
func (s Status) Class() string {
	switch s {
	case StatusInProgress:
		return "status-in-progress"
	case StatusPaused:
		return "status-paused"
	case StatusDone:
		return "status-done"
	case StatusClosed:
		return "status-closed"
	default:
		return "status-todo"
	}
}

// Priority ranks tickets from P1 (highest) to P5.
type Priority string

const (
	P1 Priority = "P1"
	P2 Priority = "P2"
	P3 Priority = "P3"
	P4 Priority = "P4"
	P5 Priority = "P5"
)

// DefaultPriority is used when a ticket is created without one.
const DefaultPriority = P2

// ParsePriority validates s; an empty string yields DefaultPriority.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case "":
		return DefaultPriority, nil
	case P1, P2, P3, P4, P5:
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}
