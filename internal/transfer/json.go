// Package transfer moves scheduler data in and out as JSON snapshots and
// CSV sheets.
package transfer

import (
	"encoding/json"
	"fmt"
	"io"

	"scheduler/internal/models"
)

// EncodeSnapshot writes snap as indented JSON.
func EncodeSnapshot(w io.Writer, snap models.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Normalize(snap)); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a JSON snapshot and normalizes it.
func DecodeSnapshot(r io.Reader) (models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return Normalize(snap), nil
}

// Normalize repairs records written by older versions or by hand: missing
// collections become empty, availability is padded to the horizon with the
// default and negatives clamp to zero, statuses and priorities fall back to
// their defaults, and the ticket counter moves past the highest id.
// A ticket without isFixedLength stays nil and so reads as fixed-length.
func Normalize(snap models.Snapshot) models.Snapshot {
	out := snap
	out.Tickets = make([]models.Ticket, len(snap.Tickets))
	out.People = make([]models.Person, len(snap.People))

	for i, p := range snap.People {
		p.Availability = normalizeAvailability(p.Availability)
		out.People[i] = p
	}

	if out.CurrentTicketID < 1 {
		out.CurrentTicketID = 1
	}
	for i, t := range snap.Tickets {
		if _, err := models.ParseStatus(string(t.Status)); err != nil {
			t.Status = models.StatusToDo
		}
		if p, err := models.ParsePriority(string(t.Priority)); err == nil {
			t.Priority = p
		} else {
			t.Priority = models.DefaultPriority
		}
		if t.Assigned == nil {
			t.Assigned = []string{}
		}
		if t.ID >= out.CurrentTicketID {
			out.CurrentTicketID = t.ID + 1
		}
		out.Tickets[i] = t
	}
	return out
}

func normalizeAvailability(in []float64) []float64 {
	weeks := models.DefaultAvailability()
	for i := 0; i < len(in) && i < len(weeks); i++ {
		weeks[i] = in[i]
		if weeks[i] < 0 {
			weeks[i] = 0
		}
	}
	return weeks
}
