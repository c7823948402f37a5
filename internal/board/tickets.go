package board

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"scheduler/internal/calendar"
	"scheduler/internal/models"
	"scheduler/internal/schedule"
)

// NewTicket holds the fields a caller may set when creating a ticket.
type NewTicket struct {
	Description string
	Size        string
	Priority    string
	Status      string
	Assigned    []string
	StartDate   calendar.Date
	FixedLength *bool
	Stakeholder string
	Initiative  string
}

// Details are optional free-form edits; nil fields are left unchanged.
type Details struct {
	Description *string
	Stakeholder *string
	Initiative  *string
}

// AddTicket creates a ticket with the next id. Unset fields default to
// size M, priority P2, status To Do and a start on the next Monday.
func (b *Board) AddTicket(in NewTicket) (models.Ticket, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return models.Ticket{}, ErrDescriptionMissing
	}

	size := strings.TrimSpace(in.Size)
	if size == "" {
		size = schedule.DefaultSize
	}
	if _, err := b.Config().Sizes.Days(size); err != nil {
		return models.Ticket{}, err
	}
	priority, err := models.ParsePriority(in.Priority)
	if err != nil {
		return models.Ticket{}, err
	}
	status := models.StatusToDo
	if in.Status != "" {
		if status, err = models.ParseStatus(in.Status); err != nil {
			return models.Ticket{}, err
		}
	}
	assigned, err := b.resolveAssignees(in.Assigned)
	if err != nil {
		return models.Ticket{}, err
	}
	if err := b.checkReferences(in.Stakeholder, in.Initiative); err != nil {
		return models.Ticket{}, err
	}

	start := in.StartDate
	if start.IsZero() {
		start = calendar.NextMonday(b.today())
	}
	fixed := true
	if in.FixedLength != nil {
		fixed = *in.FixedLength
	}

	t := models.Ticket{
		ID:            b.snap.CurrentTicketID,
		UUID:          uuid.NewString(),
		Description:   desc,
		Assigned:      assigned,
		Status:        status,
		Size:          size,
		Priority:      priority,
		Stakeholder:   in.Stakeholder,
		Initiative:    in.Initiative,
		CreatedDate:   b.today(),
		StartDate:     start,
		IsFixedLength: &fixed,
	}
	if status == models.StatusDone {
		t.CompletedDate = b.today().Ptr()
	}
	b.snap.CurrentTicketID++
	b.snap.Tickets = append(b.snap.Tickets, t)
	return t, nil
}

// Ticket looks up a ticket by id.
func (b *Board) Ticket(id int64) (models.Ticket, error) {
	i := b.ticketIndex(id)
	if i < 0 {
		return models.Ticket{}, ErrTicketNotFound
	}
	return b.snap.Tickets[i], nil
}

// RemoveTicket deletes the ticket. Unknown ids are a no-op.
func (b *Board) RemoveTicket(id int64) bool {
	i := b.ticketIndex(id)
	if i < 0 {
		return false
	}
	b.snap.Tickets = append(b.snap.Tickets[:i:i], b.snap.Tickets[i+1:]...)
	return true
}

// UpdateAssignment replaces the assignees. An empty list unassigns everyone.
func (b *Board) UpdateAssignment(id int64, names []string) (models.Ticket, error) {
	assigned, err := b.resolveAssignees(names)
	if err != nil {
		return models.Ticket{}, err
	}
	return b.update(id, func(t *models.Ticket) error {
		t.Assigned = assigned
		return nil
	})
}

// UpdateSize changes the size and records the change in the size history.
func (b *Board) UpdateSize(id int64, size, reason string) (models.Ticket, error) {
	if _, err := b.Config().Sizes.Days(size); err != nil {
		return models.Ticket{}, err
	}
	return b.update(id, func(t *models.Ticket) error {
		if t.Size == size {
			return nil
		}
		t.SizeHistory = appendChange(t.SizeHistory, b.change(t.Size, size, reason))
		t.Size = size
		return nil
	})
}

// UpdatePriority sets the priority.
func (b *Board) UpdatePriority(id int64, priority string) (models.Ticket, error) {
	p, err := models.ParsePriority(priority)
	if err != nil {
		return models.Ticket{}, err
	}
	return b.update(id, func(t *models.Ticket) error {
		t.Priority = p
		return nil
	})
}

// UpdateStartDate moves the start and records the move in the start history.
func (b *Board) UpdateStartDate(id int64, start calendar.Date, reason string) (models.Ticket, error) {
	if start.IsZero() {
		return models.Ticket{}, schedule.ErrMissingStartDate
	}
	return b.update(id, func(t *models.Ticket) error {
		if t.StartDate.Equal(start) {
			return nil
		}
		t.StartDateHistory = appendChange(t.StartDateHistory, b.change(t.StartDate.String(), start.String(), reason))
		t.StartDate = start
		return nil
	})
}

// SetCustomEndDate overrides the displayed end date; nil restores the
// computed one. The previous effective end is kept in the end history.
func (b *Board) SetCustomEndDate(id int64, end *calendar.Date, reason string) (models.Ticket, error) {
	cfg := b.Config()
	return b.update(id, func(t *models.Ticket) error {
		old := ""
		if p, err := schedule.ProjectTask(*t, cfg); err == nil && !p.Unscheduled {
			old = p.EffectiveEnd.String()
		} else if t.CustomEndDate != nil {
			old = t.CustomEndDate.String()
		}
		next := ""
		if end != nil && !end.IsZero() {
			next = end.String()
			t.CustomEndDate = end.Ptr()
		} else {
			t.CustomEndDate = nil
		}
		if old != next {
			t.EndDateHistory = appendChange(t.EndDateHistory, b.change(old, next, reason))
		}
		return nil
	})
}

// SetFixedLength selects the duration policy.
func (b *Board) SetFixedLength(id int64, fixed bool) (models.Ticket, error) {
	return b.update(id, func(t *models.Ticket) error {
		t.IsFixedLength = &fixed
		return nil
	})
}

// UpdateDetails edits description, stakeholder and initiative.
func (b *Board) UpdateDetails(id int64, d Details) (models.Ticket, error) {
	if d.Description != nil && strings.TrimSpace(*d.Description) == "" {
		return models.Ticket{}, ErrDescriptionMissing
	}
	stakeholder, initiative := "", ""
	if d.Stakeholder != nil {
		stakeholder = *d.Stakeholder
	}
	if d.Initiative != nil {
		initiative = *d.Initiative
	}
	if err := b.checkReferences(stakeholder, initiative); err != nil {
		return models.Ticket{}, err
	}
	return b.update(id, func(t *models.Ticket) error {
		if d.Description != nil {
			t.Description = strings.TrimSpace(*d.Description)
		}
		if d.Stakeholder != nil {
			t.Stakeholder = *d.Stakeholder
		}
		if d.Initiative != nil {
			t.Initiative = *d.Initiative
		}
		return nil
	})
}

func (b *Board) update(id int64, fn func(t *models.Ticket) error) (models.Ticket, error) {
	i := b.ticketIndex(id)
	if i < 0 {
		return models.Ticket{}, ErrTicketNotFound
	}
	t := b.snap.Tickets[i]
	if err := fn(&t); err != nil {
		return models.Ticket{}, err
	}
	b.snap.Tickets[i] = t
	return t, nil
}

func (b *Board) resolveAssignees(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		if b.personIndex(name) < 0 {
			return nil, fmt.Errorf("assign %q: %w", name, ErrPersonNotFound)
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

func (b *Board) ticketIndex(id int64) int {
	for i, t := range b.snap.Tickets {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) change(oldValue, newValue, reason string) models.Change {
	return models.Change{Timestamp: b.now(), OldValue: oldValue, NewValue: newValue, Reason: reason}
}

// appendChange never writes into history's backing array.
func appendChange(history []models.Change, c models.Change) []models.Change {
	out := make([]models.Change, len(history), len(history)+1)
	copy(out, history)
	return append(out, c)
}
