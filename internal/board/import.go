package board

import (
	"github.com/google/uuid"

	"scheduler/internal/calendar"
	"scheduler/internal/models"
)

// ImportResult counts what an import changed.
type ImportResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// ImportTickets merges tickets into the board. A ticket whose id matches an
// existing one is merged into it: audit histories, pause comments and the
// created date are kept, and size, start and custom end changes are
// recorded in the histories. Any other ticket is appended under a fresh id.
// Assignees that are not on the roster are kept so a later roster import
// can resolve them.
func (b *Board) ImportTickets(tickets []models.Ticket) ImportResult {
	var res ImportResult
	for _, t := range tickets {
		if t.Assigned == nil {
			t.Assigned = []string{}
		}
		if t.ID > 0 {
			if i := b.ticketIndex(t.ID); i >= 0 {
				b.snap.Tickets[i] = b.mergeImported(b.snap.Tickets[i], t)
				res.Updated++
				continue
			}
		}
		if t.UUID == "" {
			t.UUID = uuid.NewString()
		}
		if t.CreatedDate.IsZero() {
			t.CreatedDate = b.today()
		}
		t.ID = b.snap.CurrentTicketID
		b.snap.CurrentTicketID++
		b.snap.Tickets = append(b.snap.Tickets, t)
		res.Added++
	}
	return res
}

const importReason = "imported"

func (b *Board) mergeImported(cur, in models.Ticket) models.Ticket {
	out := cur
	if in.UUID != "" && cur.UUID == "" {
		out.UUID = in.UUID
	}
	if in.Description != "" {
		out.Description = in.Description
	}
	out.Assigned = in.Assigned
	if in.Status != "" {
		out.Status = in.Status
	}
	if in.Priority != "" {
		out.Priority = in.Priority
	}
	out.Stakeholder = in.Stakeholder
	out.Initiative = in.Initiative
	if in.IsFixedLength != nil && *in.IsFixedLength != cur.FixedLength() {
		fixed := *in.IsFixedLength
		out.IsFixedLength = &fixed
	}
	if in.Size != "" && in.Size != cur.Size {
		out.SizeHistory = appendChange(cur.SizeHistory, b.change(cur.Size, in.Size, importReason))
		out.Size = in.Size
	}
	if !in.StartDate.IsZero() && !in.StartDate.Equal(cur.StartDate) {
		out.StartDateHistory = appendChange(cur.StartDateHistory, b.change(cur.StartDate.String(), in.StartDate.String(), importReason))
		out.StartDate = in.StartDate
	}
	if oldEnd, newEnd := dateValue(cur.CustomEndDate), dateValue(in.CustomEndDate); oldEnd != newEnd {
		out.EndDateHistory = appendChange(cur.EndDateHistory, b.change(oldEnd, newEnd, importReason))
		out.CustomEndDate = in.CustomEndDate
	}
	if in.CompletedDate != nil {
		out.CompletedDate = in.CompletedDate
	}
	return out
}

func dateValue(d *calendar.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// ImportPeople merges a roster: known names get the imported availability
// and project-ready flag, new names are appended.
func (b *Board) ImportPeople(people []models.Person) ImportResult {
	var res ImportResult
	for _, p := range people {
		if p.Name == "" {
			continue
		}
		weeks := models.DefaultAvailability()
		copy(weeks, p.Availability)
		p.Availability = weeks
		if i := b.personIndex(p.Name); i >= 0 {
			b.snap.People[i] = p
			res.Updated++
			continue
		}
		b.snap.People = append(b.snap.People, p)
		res.Added++
	}
	return res
}
