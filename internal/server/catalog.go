package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"scheduler/internal/board"
	"scheduler/internal/calendar"
	"scheduler/internal/models"
)

type sizeRequest struct {
	Days float64 `json:"days"`
}

type rateRequest struct {
	Hours float64 `json:"hours"`
}

type catalogRequest struct {
	Name        string        `json:"name"`
	StartDate   calendar.Date `json:"startDate"`
	Description string        `json:"description"`
}

type sizeEntry struct {
	Key  string  `json:"key"`
	Days float64 `json:"days"`
}

// handleListSizes returns the size table, shortest first, and the hour rate.
func (s *Server) handleListSizes(c *gin.Context) {
	s.view(c, func(snap models.Snapshot) (any, error) {
		cfg := s.engineConfig(snap)
		sizes := make([]sizeEntry, 0, len(cfg.Sizes))
		for _, key := range cfg.Sizes.Keys() {
			sizes = append(sizes, sizeEntry{Key: key, Days: cfg.Sizes[key]})
		}
		return gin.H{"sizes": sizes, "dailyHourRate": cfg.DailyHourRate}, nil
	})
}

// handlePutSize registers or redefines a size.
func (s *Server) handlePutSize(c *gin.Context) {
	var req sizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	key := c.Param("key")
	if err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		return b.RegisterSize(key, req.Days)
	}); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, sizeEntry{Key: key, Days: req.Days})
}

// handlePutDailyHours changes the hours booked per assignee per day.
func (s *Server) handlePutDailyHours(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		return b.SetDailyHourRate(req.Hours)
	}); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"dailyHourRate": req.Hours})
}

func (s *Server) handleCreateStakeholder(c *gin.Context) {
	var req catalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		if !b.AddStakeholder(req.Name) {
			return fmt.Errorf("stakeholder %q: %w", req.Name, errDeclined)
		}
		return nil
	}); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"stakeholder": req.Name})
}

func (s *Server) handleDeleteStakeholder(c *gin.Context) {
	var removed bool
	if err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		removed = b.RemoveStakeholder(c.Param("name"))
		return nil
	}); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"removed": removed})
}

func (s *Server) handleCreateInitiative(c *gin.Context) {
	var req catalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		if !b.AddInitiative(req.Name, req.StartDate, req.Description) {
			return fmt.Errorf("initiative %q: %w", req.Name, errDeclined)
		}
		return nil
	}); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"initiative": req.Name})
}

func (s *Server) handleDeleteInitiative(c *gin.Context) {
	var removed bool
	if err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		removed = b.RemoveInitiative(c.Param("name"))
		return nil
	}); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"removed": removed})
}
