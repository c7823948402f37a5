package analysis

import (
	"scheduler/internal/calendar"
	"scheduler/internal/models"
	"scheduler/internal/schedule"
)

// InitiativeSpan is the calendar footprint of an initiative's tickets.
type InitiativeSpan struct {
	Name     string        `json:"name"`
	Start    calendar.Date `json:"start"`
	End      calendar.Date `json:"end"`
	Duration int           `json:"duration"`
	Tickets  int           `json:"tickets"`
}

// InitiativeTimeline spans each initiative from its earliest ticket start to
// its latest effective end. Duration counts business days inclusive of both
// ends; an initiative without schedulable tickets has duration 0 and keeps
// its own start date.
func InitiativeTimeline(initiatives []models.Initiative, tickets []models.Ticket, cfg schedule.Config) []InitiativeSpan {
	spans := make([]InitiativeSpan, 0, len(initiatives))
	for _, in := range initiatives {
		span := InitiativeSpan{Name: in.Name, Start: in.StartDate}
		var first, last calendar.Date
		for _, t := range tickets {
			if t.Initiative != in.Name {
				continue
			}
			span.Tickets++
			p, err := schedule.ProjectTask(t, cfg)
			if err != nil || p.Unscheduled {
				continue
			}
			if first.IsZero() || p.Start.Before(first) {
				first = p.Start
			}
			if last.IsZero() || p.EffectiveEnd.After(last) {
				last = p.EffectiveEnd
			}
		}
		if !first.IsZero() {
			span.Start, span.End = first, last
			span.Duration = calendar.BusinessDaysBetween(first, last) + 1
		}
		spans = append(spans, span)
	}
	return spans
}
