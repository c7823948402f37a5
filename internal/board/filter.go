package board

import (
	"strings"

	"scheduler/internal/models"
)

// TicketFilter narrows a ticket list. Empty fields match every ticket.
type TicketFilter struct {
	Person string
	Status models.Status
}

// Match reports whether t passes the filter.
func (f TicketFilter) Match(t models.Ticket) bool {
	if p := strings.TrimSpace(f.Person); p != "" && !t.IsAssignedTo(p) {
		return false
	}
	return f.Status == "" || t.Status == f.Status
}

// FilterTickets returns the tickets matching f, in their original order.
func FilterTickets(tickets []models.Ticket, f TicketFilter) []models.Ticket {
	out := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
