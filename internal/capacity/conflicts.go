package capacity

import (
	"sort"

	"scheduler/internal/models"
	"scheduler/internal/schedule"
)

// Conflict is a pair of overlapping P1 tickets sharing assignees.
type Conflict struct {
	First  int64    `json:"first"`
	Second int64    `json:"second"`
	People []string `json:"people"`
}

// FindP1Conflicts returns every pair of P1 tickets that share at least one
// assignee and whose [start, effective end] ranges overlap. Pairs are
// ordered by ids, lower id first.
func FindP1Conflicts(tickets []models.Ticket, cfg schedule.Config) []Conflict {
	type span struct {
		ticket models.Ticket
		proj   schedule.Projection
	}
	var p1 []span
	for _, t := range tickets {
		if t.Priority != models.P1 {
			continue
		}
		proj, err := schedule.ProjectTask(t, cfg)
		if err != nil || proj.Unscheduled {
			continue
		}
		p1 = append(p1, span{ticket: t, proj: proj})
	}
	sort.SliceStable(p1, func(i, j int) bool { return p1[i].ticket.ID < p1[j].ticket.ID })

	var conflicts []Conflict
	for i := 0; i < len(p1); i++ {
		for j := i + 1; j < len(p1); j++ {
			a, b := p1[i], p1[j]
			if a.proj.Start.After(b.proj.EffectiveEnd) || b.proj.Start.After(a.proj.EffectiveEnd) {
				continue
			}
			shared := sharedAssignees(a.ticket, b.ticket)
			if len(shared) == 0 {
				continue
			}
			conflicts = append(conflicts, Conflict{First: a.ticket.ID, Second: b.ticket.ID, People: shared})
		}
	}
	return conflicts
}

func sharedAssignees(a, b models.Ticket) []string {
	var shared []string
	seen := map[string]bool{}
	for _, name := range a.Assigned {
		if name != "" && !seen[name] && b.IsAssignedTo(name) {
			seen[name] = true
			shared = append(shared, name)
		}
	}
	return shared
}
