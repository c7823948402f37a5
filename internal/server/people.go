package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"scheduler/internal/board"
	"scheduler/internal/models"
)

type personRequest struct {
	Name string `json:"name"`
}

type availabilityRequest struct {
	Hours *float64 `json:"hours"`
}

// handleListPeople returns the roster.
func (s *Server) handleListPeople(c *gin.Context) {
	s.view(c, func(snap models.Snapshot) (any, error) {
		return gin.H{"people": snap.People}, nil
	})
}

// handleCreatePerson adds a person with default availability.
func (s *Server) handleCreatePerson(c *gin.Context) {
	var req personRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	var person models.Person
	err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		p, ok := b.AddPerson(req.Name)
		if !ok {
			return fmt.Errorf("person %q: %w", req.Name, errDeclined)
		}
		person = p
		return nil
	})
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"person": person})
}

// handleDeletePerson removes a person and their assignments. Unknown names
// succeed with removed=false.
func (s *Server) handleDeletePerson(c *gin.Context) {
	var removed bool
	err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		removed = b.RemovePerson(c.Param("name"))
		return nil
	})
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"removed": removed})
}

// handleSetAvailability sets the hours of one week, numbered from 1.
func (s *Server) handleSetAvailability(c *gin.Context) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("invalid week: %w", err))
		return
	}
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Hours == nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("hours is required"))
		return
	}

	name := c.Param("name")
	var person models.Person
	err = s.mutate(c.Request.Context(), func(b *board.Board) error {
		if err := b.SetAvailability(name, week-1, *req.Hours); err != nil {
			return err
		}
		p, err := b.Person(name)
		person = p
		return err
	})
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"person": person})
}

// handleToggleReady flips the project-ready flag.
func (s *Server) handleToggleReady(c *gin.Context) {
	var ready bool
	err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		var err error
		ready, err = b.ToggleProjectReady(c.Param("name"))
		return err
	})
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"isProjectReady": ready})
}
