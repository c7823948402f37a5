// Package analysis derives retrospective views from the ticket history:
// how late completed work landed and how initiatives span the calendar.
package analysis

import (
	"scheduler/internal/calendar"
	"scheduler/internal/models"
	"scheduler/internal/schedule"
)

// Delay describes one completed ticket against its plan.
type Delay struct {
	TicketID         int64         `json:"ticketId"`
	Description      string        `json:"description"`
	PlannedEnd       calendar.Date `json:"plannedEnd"`
	CompletedDate    calendar.Date `json:"completedDate"`
	BusinessDaysLate int           `json:"businessDaysLate"`
	EndDateSlips     int           `json:"endDateSlips"`
	SlippedDays      int           `json:"slippedDays"`
}

// Late reports whether the ticket finished after its planned end.
func (d Delay) Late() bool {
	return d.BusinessDaysLate > 0
}

// DelaySummary aggregates a delay report.
type DelaySummary struct {
	Completed    int     `json:"completed"`
	OnTime       int     `json:"onTime"`
	Late         int     `json:"late"`
	AverageDelay float64 `json:"averageDelay"`
	Skipped      int     `json:"skipped"`
}

// DelayReport is the result of Delays.
type DelayReport struct {
	Delays  []Delay      `json:"delays"`
	Summary DelaySummary `json:"summary"`
}

// Delays compares each completed ticket's completion date with its
// effective end date. Tickets without a completion date are ignored;
// completed tickets whose plan cannot be projected are counted as skipped.
// AverageDelay is taken over late tickets only.
func Delays(tickets []models.Ticket, cfg schedule.Config) DelayReport {
	report := DelayReport{Delays: []Delay{}}
	var lateDays int
	for _, t := range tickets {
		if t.CompletedDate == nil || t.CompletedDate.IsZero() {
			continue
		}
		planned, ok := plannedEnd(t, cfg)
		if !ok {
			report.Summary.Skipped++
			continue
		}
		d := Delay{
			TicketID:         t.ID,
			Description:      t.Description,
			PlannedEnd:       planned,
			CompletedDate:    *t.CompletedDate,
			BusinessDaysLate: calendar.BusinessDaysBetween(planned, *t.CompletedDate),
		}
		d.EndDateSlips, d.SlippedDays = slips(t.EndDateHistory)

		report.Summary.Completed++
		if d.Late() {
			report.Summary.Late++
			lateDays += d.BusinessDaysLate
		} else {
			report.Summary.OnTime++
		}
		report.Delays = append(report.Delays, d)
	}
	if report.Summary.Late > 0 {
		report.Summary.AverageDelay = float64(lateDays) / float64(report.Summary.Late)
	}
	return report
}

func plannedEnd(t models.Ticket, cfg schedule.Config) (calendar.Date, bool) {
	if t.CustomEndDate != nil && !t.CustomEndDate.IsZero() {
		return *t.CustomEndDate, true
	}
	p, err := schedule.ProjectTask(t, cfg)
	if err != nil || p.Unscheduled {
		return calendar.Date{}, false
	}
	return p.EffectiveEnd, true
}

// slips counts end-date changes that pushed the date later and the
// business days they added up to.
func slips(history []models.Change) (count, days int) {
	for _, c := range history {
		from, err1 := calendar.Parse(c.OldValue)
		to, err2 := calendar.Parse(c.NewValue)
		if err1 != nil || err2 != nil || from.IsZero() || to.IsZero() || !to.After(from) {
			continue
		}
		count++
		days += calendar.BusinessDaysBetween(from, to)
	}
	return count, days
}
