// Package schedule turns a ticket's size, assignees and duration policy into
// a concrete business-day schedule with per-assignee hour allocations.
package schedule

import (
	"math"

	"scheduler/internal/calendar"
	"scheduler/internal/models"
)

// Allocation is the hours one assignee spends on a ticket on one day.
type Allocation struct {
	Person string        `json:"person"`
	Date   calendar.Date `json:"date"`
	Hours  float64       `json:"hours"`
}

// Projection is the computed schedule of a single ticket.
type Projection struct {
	TicketID int64 `json:"ticketId"`
	// Unscheduled is set when the ticket has no assignees. Start, End and
	// EffectiveEnd are then zero and there are no allocations.
	Unscheduled          bool            `json:"unscheduled"`
	Start                calendar.Date   `json:"start"`
	End                  calendar.Date   `json:"end"`
	EffectiveEnd         calendar.Date   `json:"effectiveEnd"`
	DurationBusinessDays int             `json:"durationBusinessDays"`
	Days                 []calendar.Date `json:"days,omitempty"`
	Allocations          []Allocation    `json:"allocations,omitempty"`
	CountsTowardCapacity bool            `json:"countsTowardCapacity"`
}

// HoursFor sums the hours allocated to person.
func (p Projection) HoursFor(person string) float64 {
	var total float64
	for _, a := range p.Allocations {
		if a.Person == person {
			total += a.Hours
		}
	}
	return total
}

// EndLabel is the effective end date for display, "N/A" when unscheduled.
func (p Projection) EndLabel() string {
	if p.Unscheduled || p.EffectiveEnd.IsZero() {
		return "N/A"
	}
	return p.EffectiveEnd.String()
}

// Result is one entry of a batch projection.
type Result struct {
	Projection Projection `json:"projection"`
	Err        error      `json:"-"`
}

// ProjectTask computes the schedule of t under cfg.
func ProjectTask(t models.Ticket, cfg Config) (Projection, error) {
	sizeDays, err := cfg.sizes().Days(t.Size)
	if err != nil {
		return Projection{}, err
	}

	p := Projection{
		TicketID:             t.ID,
		CountsTowardCapacity: t.Status.ConsumesCapacity(),
	}

	assignees := uniqueAssignees(t.Assigned)
	if len(assignees) == 0 {
		p.Unscheduled = true
		return p, nil
	}
	if t.StartDate.IsZero() {
		return Projection{}, ErrMissingStartDate
	}

	p.DurationBusinessDays = Duration(sizeDays, len(assignees), t.FixedLength())
	rate := cfg.hourRate()

	p.Days = make([]calendar.Date, 0, p.DurationBusinessDays)
	p.Allocations = make([]Allocation, 0, p.DurationBusinessDays*len(assignees))
	day := calendar.NextBusinessDay(t.StartDate)
	for i := 0; i < p.DurationBusinessDays; i++ {
		if i > 0 {
			day = calendar.AddBusinessDays(day, 1)
		}
		p.Days = append(p.Days, day)
		for _, name := range assignees {
			p.Allocations = append(p.Allocations, Allocation{Person: name, Date: day, Hours: rate})
		}
	}

	p.Start = p.Days[0]
	p.End = p.Days[len(p.Days)-1]
	p.EffectiveEnd = p.End
	if t.CustomEndDate != nil && !t.CustomEndDate.IsZero() {
		p.EffectiveEnd = *t.CustomEndDate
	}
	return p, nil
}

// ProjectAll projects every ticket, keeping input order. Failures are
// reported per ticket and never stop the batch.
func ProjectAll(tickets []models.Ticket, cfg Config) []Result {
	results := make([]Result, len(tickets))
	for i, t := range tickets {
		p, err := ProjectTask(t, cfg)
		if err != nil {
			results[i] = Result{Projection: Projection{TicketID: t.ID}, Err: &TicketError{TicketID: t.ID, Err: err}}
			continue
		}
		results[i] = Result{Projection: p}
	}
	return results
}

// Duration is the calendar length in business days of a ticket of sizeDays.
// Fixed-length work keeps its span whatever the team size; flexible work is
// split evenly across assignees.
func Duration(sizeDays float64, assignees int, fixedLength bool) int {
	if assignees < 1 {
		return 0
	}
	days := sizeDays
	if !fixedLength {
		days = sizeDays / float64(assignees)
	}
	n := int(math.Ceil(days))
	if n < 1 {
		n = 1
	}
	return n
}

func uniqueAssignees(assigned []string) []string {
	out := make([]string, 0, len(assigned))
	seen := make(map[string]struct{}, len(assigned))
	for _, name := range assigned {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
