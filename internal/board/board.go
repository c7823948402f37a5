// Package board applies roster and ticket changes to a scheduler snapshot,
// keeping assignee references consistent and recording audit history.
package board

import (
	"fmt"
	"time"

	"scheduler/internal/calendar"
	"scheduler/internal/models"
	"scheduler/internal/schedule"
)

// Board mutates a private copy of a snapshot. It is not safe for
// concurrent use.
type Board struct {
	snap  models.Snapshot
	clock func() time.Time
}

// New wraps snap. A nil clock uses time.Now.
func New(snap models.Snapshot, clock func() time.Time) *Board {
	if clock == nil {
		clock = time.Now
	}
	if snap.CurrentTicketID < 1 {
		snap.CurrentTicketID = 1
	}
	snap.Tickets = clone(snap.Tickets)
	snap.People = clone(snap.People)
	snap.Stakeholders = append([]string(nil), snap.Stakeholders...)
	snap.Initiatives = append([]models.Initiative(nil), snap.Initiatives...)
	for _, t := range snap.Tickets {
		if t.ID >= snap.CurrentTicketID {
			snap.CurrentTicketID = t.ID + 1
		}
	}
	return &Board{snap: snap, clock: clock}
}

// Snapshot returns the current state.
func (b *Board) Snapshot() models.Snapshot {
	return b.snap
}

// Config returns the projection configuration stored in the snapshot.
func (b *Board) Config() schedule.Config {
	return ConfigOf(b.snap.Settings)
}

// ConfigOf builds a projection config from persisted settings, falling back
// to the defaults for anything unset.
func ConfigOf(s models.Settings) schedule.Config {
	cfg := schedule.DefaultConfig()
	for key, days := range s.Sizes {
		if sizes, err := cfg.Sizes.With(key, days); err == nil {
			cfg.Sizes = sizes
		}
	}
	if s.DailyHourRate > 0 {
		cfg.DailyHourRate = s.DailyHourRate
	}
	return cfg
}

// RegisterSize adds or redefines a size in the snapshot's size table.
func (b *Board) RegisterSize(key string, days float64) error {
	if _, err := b.Config().Sizes.With(key, days); err != nil {
		return err
	}
	sizes := make(map[string]float64, len(b.snap.Settings.Sizes)+1)
	for k, v := range b.snap.Settings.Sizes {
		sizes[k] = v
	}
	sizes[key] = days
	b.snap.Settings.Sizes = sizes
	return nil
}

// SetDailyHourRate changes the hours booked per assignee per business day.
func (b *Board) SetDailyHourRate(rate float64) error {
	if !(rate > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}
	b.snap.Settings.DailyHourRate = rate
	return nil
}

func (b *Board) now() time.Time {
	return b.clock()
}

func (b *Board) today() calendar.Date {
	return calendar.Today(b.clock)
}

func clone[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
