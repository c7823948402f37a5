package board

import (
	"errors"
	"strings"

	"scheduler/internal/calendar"
	"scheduler/internal/models"
)

var (
	ErrStakeholderNotFound = errors.New("stakeholder not found")
	ErrInitiativeNotFound  = errors.New("initiative not found")
)

// AddStakeholder declines empty and duplicate names.
func (b *Board) AddStakeholder(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || b.hasStakeholder(name) {
		return false
	}
	b.snap.Stakeholders = append(b.snap.Stakeholders, name)
	return true
}

// RemoveStakeholder deletes name and clears it from tickets.
func (b *Board) RemoveStakeholder(name string) bool {
	kept := make([]string, 0, len(b.snap.Stakeholders))
	for _, s := range b.snap.Stakeholders {
		if s != name {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(b.snap.Stakeholders) {
		return false
	}
	b.snap.Stakeholders = kept
	for i := range b.snap.Tickets {
		if b.snap.Tickets[i].Stakeholder == name {
			b.snap.Tickets[i].Stakeholder = ""
		}
	}
	return true
}

// AddInitiative declines empty and duplicate names. The start date is optional.
func (b *Board) AddInitiative(name string, start calendar.Date, description string) bool {
	name = strings.TrimSpace(name)
	if name == "" || b.hasInitiative(name) {
		return false
	}
	b.snap.Initiatives = append(b.snap.Initiatives, models.Initiative{
		Name:        name,
		StartDate:   start,
		Description: strings.TrimSpace(description),
	})
	return true
}

// RemoveInitiative deletes name and clears it from tickets.
func (b *Board) RemoveInitiative(name string) bool {
	kept := make([]models.Initiative, 0, len(b.snap.Initiatives))
	for _, in := range b.snap.Initiatives {
		if in.Name != name {
			kept = append(kept, in)
		}
	}
	if len(kept) == len(b.snap.Initiatives) {
		return false
	}
	b.snap.Initiatives = kept
	for i := range b.snap.Tickets {
		if b.snap.Tickets[i].Initiative == name {
			b.snap.Tickets[i].Initiative = ""
		}
	}
	return true
}

func (b *Board) checkReferences(stakeholder, initiative string) error {
	if stakeholder != "" && !b.hasStakeholder(stakeholder) {
		return ErrStakeholderNotFound
	}
	if initiative != "" && !b.hasInitiative(initiative) {
		return ErrInitiativeNotFound
	}
	return nil
}

func (b *Board) hasStakeholder(name string) bool {
	for _, s := range b.snap.Stakeholders {
		if s == name {
			return true
		}
	}
	return false
}

func (b *Board) hasInitiative(name string) bool {
	for _, in := range b.snap.Initiatives {
		if in.Name == name {
			return true
		}
	}
	return false
}
