package models

import (
	"time"

	"scheduler/internal/calendar"
)

// HorizonWeeks is the rolling window tracked for availability and utilization.
const HorizonWeeks = 8

// DefaultWeeklyHours is the availability given to a new person for each week.
const DefaultWeeklyHours = 25.0

// Person is a member of the roster. Name is the primary key.
type Person struct {
	Name           string    `json:"name"`
	Availability   []float64 `json:"availability"`
	IsProjectReady bool      `json:"isProjectReady"`
}

// DefaultAvailability returns HorizonWeeks weeks of DefaultWeeklyHours.
func DefaultAvailability() []float64 {
	weeks := make([]float64, HorizonWeeks)
	for i := range weeks {
		weeks[i] = DefaultWeeklyHours
	}
	return weeks
}

// HoursForWeek returns the availability for week, 0 outside the recorded
// range and never negative.
func (p Person) HoursForWeek(week int) float64 {
	if week < 0 || week >= len(p.Availability) {
		return 0
	}
	if h := p.Availability[week]; h > 0 {
		return h
	}
	return 0
}

// Change is one entry of a ticket's append-only audit trail.
type Change struct {
	Timestamp time.Time `json:"timestamp"`
	OldValue  string    `json:"oldValue"`
	NewValue  string    `json:"newValue"`
	Reason    string    `json:"reason,omitempty"`
}

// PauseComment records why a ticket was paused.
type PauseComment struct {
	Timestamp      time.Time `json:"timestamp"`
	Comment        string    `json:"comment"`
	PreviousStatus Status    `json:"previousStatus"`
}

// Ticket is a unit of scheduled work.
type Ticket struct {
	ID          int64         `json:"id"`
	UUID        string        `json:"uuid,omitempty"`
	Description string        `json:"description"`
	Assigned    []string      `json:"assigned"`
	Status      Status        `json:"status"`
	Size        string        `json:"size"`
	Priority    Priority      `json:"priority"`
	Stakeholder string        `json:"stakeholder,omitempty"`
	Initiative  string        `json:"initiative,omitempty"`
	CreatedDate calendar.Date `json:"createdDate"`
	StartDate   calendar.Date `json:"startDate"`
	// IsFixedLength is nil for records written before the field existed;
	// those are treated as fixed-length.
	IsFixedLength *bool          `json:"isFixedLength,omitempty"`
	CustomEndDate *calendar.Date `json:"customEndDate"`
	CompletedDate *calendar.Date `json:"completedDate"`

	StartDateHistory []Change       `json:"startDateHistory,omitempty"`
	EndDateHistory   []Change       `json:"endDateHistory,omitempty"`
	SizeHistory      []Change       `json:"sizeHistory,omitempty"`
	PauseComments    []PauseComment `json:"pauseComments,omitempty"`
}

// FixedLength reports the duration policy of the ticket.
func (t Ticket) FixedLength() bool {
	return t.IsFixedLength == nil || *t.IsFixedLength
}

// IsAssignedTo reports whether name is among the assignees.
func (t Ticket) IsAssignedTo(name string) bool {
	for _, a := range t.Assigned {
		if a == name {
			return true
		}
	}
	return false
}

// Initiative groups tickets under a named effort.
type Initiative struct {
	Name        string        `json:"name"`
	StartDate   calendar.Date `json:"startDate"`
	Description string        `json:"description,omitempty"`
}

// Settings carries the configuration the user changed at runtime.
type Settings struct {
	Sizes         map[string]float64 `json:"sizes,omitempty"`
	DailyHourRate float64            `json:"dailyHourRate,omitempty"`
}

// Snapshot is the full persisted state of the scheduler.
type Snapshot struct {
	Tickets         []Ticket     `json:"tickets"`
	People          []Person     `json:"people"`
	CurrentTicketID int64        `json:"currentTicketId"`
	Stakeholders    []string     `json:"stakeholders,omitempty"`
	Initiatives     []Initiative `json:"initiatives,omitempty"`
	Settings        Settings     `json:"settings"`
}

// NewSnapshot returns an empty state whose first ticket gets id 1.
func NewSnapshot() Snapshot {
	return Snapshot{
		Tickets:         []Ticket{},
		People:          []Person{},
		CurrentTicketID: 1,
	}
}
