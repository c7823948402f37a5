package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"scheduler/internal/board"
	"scheduler/internal/models"
)

//go:generate mockgen -source=state.go -destination=mock_state_test.go -package=server

// StateStore persists the scheduler snapshot.
type StateStore interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Save(ctx context.Context, snap models.Snapshot) error
}

type storageError struct {
	op  string
	err error
}

func (e *storageError) Error() string {
	return fmt.Sprintf("%s state: %v", e.op, e.err)
}

func (e *storageError) Unwrap() error {
	return e.err
}

// snapshot loads the current state for read-only handlers.
func (s *Server) snapshot(ctx context.Context) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.store.Load(ctx)
	if err != nil {
		return models.Snapshot{}, &storageError{op: "load", err: err}
	}
	return snap, nil
}

// mutate runs fn against a board over the stored snapshot and saves the
// result when fn succeeds. Nothing is written when fn fails.
func (s *Server) mutate(ctx context.Context, fn func(b *board.Board) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return &storageError{op: "load", err: err}
	}
	b := board.New(snap, s.opts.Clock)
	if err := fn(b); err != nil {
		return err
	}
	if err := s.store.Save(ctx, b.Snapshot()); err != nil {
		return &storageError{op: "save", err: err}
	}
	return nil
}

// view responds with the result of fn over the stored snapshot.
func (s *Server) view(c *gin.Context, fn func(snap models.Snapshot) (any, error)) {
	snap, err := s.snapshot(c.Request.Context())
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	payload, err := fn(snap)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, payload)
}
