// Package capacity aggregates ticket schedules into per-person weekly
// utilization and flags competing P1 work.
package capacity

import (
	"time"

	"scheduler/internal/calendar"
	"scheduler/internal/models"
	"scheduler/internal/schedule"
)

// Utilization levels used to color heat map cells.
const (
	LevelIdle      = "idle"
	LevelLight     = "light"
	LevelBalanced  = "balanced"
	LevelFull      = "full"
	LevelOver      = "over"
	LevelUnbounded = "unbounded"
)

// Bucket is one person-week cell of the heat map.
type Bucket struct {
	WeekStart          calendar.Date `json:"weekStart"`
	AssignedHours      float64       `json:"assignedHours"`
	AvailableHours     float64       `json:"availableHours"`
	UtilizationPercent float64       `json:"utilizationPercent"`
	// Unbounded marks hours booked against zero availability. The percent
	// is left at 0 so averages over buckets stay finite.
	Unbounded bool `json:"unbounded"`
}

func (b *Bucket) settle() {
	switch {
	case b.AvailableHours > 0:
		b.UtilizationPercent = b.AssignedHours / b.AvailableHours * 100
		b.Unbounded = false
	case b.AssignedHours > 0:
		b.UtilizationPercent = 0
		b.Unbounded = true
	default:
		b.UtilizationPercent = 0
		b.Unbounded = false
	}
}

// Overallocated reports whether more hours are booked than available.
func (b Bucket) Overallocated() bool {
	return b.Unbounded || b.UtilizationPercent > 100
}

// Level classifies the bucket for display.
func (b Bucket) Level() string {
	switch {
	case b.Unbounded:
		return LevelUnbounded
	case b.AssignedHours == 0:
		return LevelIdle
	case b.UtilizationPercent > 100:
		return LevelOver
	case b.UtilizationPercent >= 80:
		return LevelFull
	case b.UtilizationPercent >= 40:
		return LevelBalanced
	default:
		return LevelLight
	}
}

// Row is the heat map line of one person.
type Row struct {
	Person         string   `json:"person"`
	IsProjectReady bool     `json:"isProjectReady"`
	Weeks          []Bucket `json:"weeks"`
	// Beyond collects hours scheduled after the horizon, where no
	// availability is tracked.
	Beyond Bucket `json:"beyond"`
}

// HeatMap is the per-person, per-week utilization grid.
type HeatMap struct {
	Anchor calendar.Date `json:"anchor"`
	Rows   []Row         `json:"rows"`
	Errors []error       `json:"-"`
}

// Row returns the row for person.
func (h HeatMap) Row(person string) (Row, bool) {
	for _, r := range h.Rows {
		if r.Person == person {
			return r, true
		}
	}
	return Row{}, false
}

// ByPerson returns the rows keyed by person name.
func (h HeatMap) ByPerson() map[string][]Bucket {
	out := make(map[string][]Bucket, len(h.Rows))
	for _, r := range h.Rows {
		out[r.Person] = r.Weeks
	}
	return out
}

// Options tunes ComputeHeatMap.
type Options struct {
	// HorizonWeeks defaults to models.HorizonWeeks.
	HorizonWeeks int
	// Anchor is week 0. When zero it is the Monday of the earliest start
	// date among capacity-consuming tickets, or of Today without any.
	Anchor calendar.Date
	Today  calendar.Date
}

// ComputeHeatMap distributes the hours of every To Do and In Progress
// ticket over its assignees' weeks. Tickets that fail projection are
// skipped and returned in HeatMap.Errors.
func ComputeHeatMap(tickets []models.Ticket, people []models.Person, cfg schedule.Config, opts Options) HeatMap {
	horizon := opts.HorizonWeeks
	if horizon <= 0 {
		horizon = models.HorizonWeeks
	}

	var (
		projections []schedule.Projection
		errs        []error
		earliest    calendar.Date
	)
	for _, res := range schedule.ProjectAll(tickets, cfg) {
		if res.Err != nil {
			errs = append(errs, res.Err)
			continue
		}
		p := res.Projection
		if !p.CountsTowardCapacity || p.Unscheduled {
			continue
		}
		projections = append(projections, p)
		if earliest.IsZero() || p.Start.Before(earliest) {
			earliest = p.Start
		}
	}

	anchor := opts.Anchor
	if anchor.IsZero() {
		anchor = earliest
	}
	if anchor.IsZero() {
		anchor = opts.Today
	}
	if anchor.IsZero() {
		anchor = calendar.Today(time.Now)
	}
	anchor = calendar.MondayOfWeek(anchor)

	hm := HeatMap{Anchor: anchor, Rows: make([]Row, 0, len(people)), Errors: errs}
	index := make(map[string]int, len(people))
	for _, person := range people {
		if _, dup := index[person.Name]; dup {
			continue
		}
		row := Row{Person: person.Name, IsProjectReady: person.IsProjectReady, Weeks: make([]Bucket, horizon)}
		for w := range row.Weeks {
			row.Weeks[w] = Bucket{WeekStart: anchor.AddDays(7 * w), AvailableHours: person.HoursForWeek(w)}
		}
		row.Beyond.WeekStart = anchor.AddDays(7 * horizon)
		index[person.Name] = len(hm.Rows)
		hm.Rows = append(hm.Rows, row)
	}

	for _, p := range projections {
		for _, a := range p.Allocations {
			i, ok := index[a.Person]
			if !ok {
				continue
			}
			week := calendar.WeekBucketIndex(a.Date, anchor)
			switch {
			case week < 0:
				continue
			case week < horizon:
				hm.Rows[i].Weeks[week].AssignedHours += a.Hours
			default:
				hm.Rows[i].Beyond.AssignedHours += a.Hours
			}
		}
	}

	for i := range hm.Rows {
		for w := range hm.Rows[i].Weeks {
			hm.Rows[i].Weeks[w].settle()
		}
		hm.Rows[i].Beyond.settle()
	}
	return hm
}

// TeamTotals sums the weekly buckets of project-ready people.
func (h HeatMap) TeamTotals() []Bucket {
	if len(h.Rows) == 0 {
		return nil
	}
	totals := make([]Bucket, len(h.Rows[0].Weeks))
	for w := range totals {
		totals[w].WeekStart = h.Anchor.AddDays(7 * w)
	}
	for _, r := range h.Rows {
		if !r.IsProjectReady {
			continue
		}
		for w, b := range r.Weeks {
			totals[w].AssignedHours += b.AssignedHours
			totals[w].AvailableHours += b.AvailableHours
		}
	}
	for w := range totals {
		totals[w].settle()
	}
	return totals
}
