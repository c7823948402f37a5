package board

import (
	"strings"

	"scheduler/internal/models"
)

// AddPerson adds name to the roster with default availability. Empty and
// duplicate names are declined: the roster is left untouched and false is
// returned.
func (b *Board) AddPerson(name string) (models.Person, bool) {
	name = strings.TrimSpace(name)
	if name == "" || b.personIndex(name) >= 0 {
		return models.Person{}, false
	}
	p := models.Person{Name: name, Availability: models.DefaultAvailability()}
	b.snap.People = append(b.snap.People, p)
	return p, true
}

// Person looks up a roster member. Names are matched after trimming
// surrounding spaces, here and in the other roster operations.
func (b *Board) Person(name string) (models.Person, error) {
	i := b.personIndex(name)
	if i < 0 {
		return models.Person{}, ErrPersonNotFound
	}
	return b.snap.People[i], nil
}

// RemovePerson drops name from the roster and from every ticket's
// assignees. Unknown names are a no-op.
func (b *Board) RemovePerson(name string) bool {
	name = strings.TrimSpace(name)
	i := b.personIndex(name)
	if i < 0 {
		return false
	}
	b.snap.People = append(b.snap.People[:i:i], b.snap.People[i+1:]...)
	for j := range b.snap.Tickets {
		t := &b.snap.Tickets[j]
		if !t.IsAssignedTo(name) {
			continue
		}
		kept := make([]string, 0, len(t.Assigned))
		for _, a := range t.Assigned {
			if a != name {
				kept = append(kept, a)
			}
		}
		t.Assigned = kept
	}
	return true
}

// SetAvailability sets the hours name has in week (0-based).
func (b *Board) SetAvailability(name string, week int, hours float64) error {
	name = strings.TrimSpace(name)
	i := b.personIndex(name)
	if i < 0 {
		return ErrPersonNotFound
	}
	if week < 0 || week >= models.HorizonWeeks {
		return ErrWeekOutOfRange
	}
	if hours < 0 {
		return &InvalidAvailabilityError{Person: name, Week: week, Hours: hours}
	}
	weeks := models.DefaultAvailability()
	copy(weeks, b.snap.People[i].Availability)
	weeks[week] = hours
	b.snap.People[i].Availability = weeks
	return nil
}

// ToggleProjectReady flips the project-ready flag and returns its new value.
func (b *Board) ToggleProjectReady(name string) (bool, error) {
	i := b.personIndex(name)
	if i < 0 {
		return false, ErrPersonNotFound
	}
	b.snap.People[i].IsProjectReady = !b.snap.People[i].IsProjectReady
	return b.snap.People[i].IsProjectReady, nil
}

func (b *Board) personIndex(name string) int {
	name = strings.TrimSpace(name)
	for i, p := range b.snap.People {
		if p.Name == name {
			return i
		}
	}
	return -1
}
