package board

import (
	"fmt"
	"strings"

	"scheduler/internal/models"
)

// AdvanceStatus moves the ticket one step along the status cycle
// (To Do, In Progress, Paused, Done, Closed, back to To Do).
func (b *Board) AdvanceStatus(id int64, comment string) (models.Ticket, error) {
	t, err := b.Ticket(id)
	if err != nil {
		return models.Ticket{}, err
	}
	return b.SetStatus(id, t.Status.Next(), comment)
}

// SetStatus changes the status to target, which must be the next status in
// the cycle. Setting the current status again is a no-op. Entering Paused
// records comment, entering Done stamps the completion date and going back
// to To Do clears it.
func (b *Board) SetStatus(id int64, target models.Status, comment string) (models.Ticket, error) {
	return b.update(id, func(t *models.Ticket) error {
		if t.Status == target {
			return nil
		}
		if t.Status.Next() != target {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, t.Status, target)
		}
		previous := t.Status
		t.Status = target

		switch target {
		case models.StatusPaused:
			pc := models.PauseComment{
				Timestamp:      b.now(),
				Comment:        strings.TrimSpace(comment),
				PreviousStatus: previous,
			}
			comments := make([]models.PauseComment, len(t.PauseComments), len(t.PauseComments)+1)
			copy(comments, t.PauseComments)
			t.PauseComments = append(comments, pc)
		case models.StatusDone:
			t.CompletedDate = b.today().Ptr()
		case models.StatusToDo:
			t.CompletedDate = nil
		}
		return nil
	})
}
