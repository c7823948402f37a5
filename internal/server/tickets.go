package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"scheduler/internal/board"
	"scheduler/internal/calendar"
	"scheduler/internal/models"
)

type ticketRequest struct {
	Description   string        `json:"description"`
	Size          string        `json:"size"`
	Priority      string        `json:"priority"`
	Status        string        `json:"status"`
	Assigned      []string      `json:"assigned"`
	StartDate     calendar.Date `json:"startDate"`
	IsFixedLength *bool         `json:"isFixedLength"`
	Stakeholder   string        `json:"stakeholder"`
	Initiative    string        `json:"initiative"`
}

type detailsRequest struct {
	Description *string `json:"description"`
	Stakeholder *string `json:"stakeholder"`
	Initiative  *string `json:"initiative"`
}

type changeRequest struct {
	Assigned      []string       `json:"assigned"`
	Size          string         `json:"size"`
	Priority      string         `json:"priority"`
	StartDate     calendar.Date  `json:"startDate"`
	EndDate       *calendar.Date `json:"endDate"`
	IsFixedLength *bool          `json:"isFixedLength"`
	Status        string         `json:"status"`
	Comment       string         `json:"comment"`
	Reason        string         `json:"reason"`
}

// handleListTickets returns the tickets, optionally narrowed by the person
// and status query parameters.
func (s *Server) handleListTickets(c *gin.Context) {
	filter := board.TicketFilter{Person: c.Query("person")}
	if raw := c.Query("status"); raw != "" {
		st, err := models.ParseStatus(raw)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		filter.Status = st
	}
	s.view(c, func(snap models.Snapshot) (any, error) {
		return gin.H{"tickets": board.FilterTickets(snap.Tickets, filter)}, nil
	})
}

// handleGetTicket returns one ticket.
func (s *Server) handleGetTicket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s.view(c, func(snap models.Snapshot) (any, error) {
		t, err := board.New(snap, s.opts.Clock).Ticket(id)
		if err != nil {
			return nil, err
		}
		return gin.H{"ticket": t}, nil
	})
}

// handleCreateTicket adds a ticket with the next id.
func (s *Server) handleCreateTicket(c *gin.Context) {
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	var ticket models.Ticket
	err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		t, err := b.AddTicket(board.NewTicket{
			Description: req.Description,
			Size:        req.Size,
			Priority:    req.Priority,
			Status:      req.Status,
			Assigned:    req.Assigned,
			StartDate:   req.StartDate,
			FixedLength: req.IsFixedLength,
			Stakeholder: req.Stakeholder,
			Initiative:  req.Initiative,
		})
		ticket = t
		return err
	})
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"ticket": ticket})
}

// handleUpdateTicket edits description, stakeholder and initiative.
func (s *Server) handleUpdateTicket(c *gin.Context) {
	var req detailsRequest
	s.updateTicket(c, &req, func(b *board.Board, id int64) (models.Ticket, error) {
		return b.UpdateDetails(id, board.Details{
			Description: req.Description,
			Stakeholder: req.Stakeholder,
			Initiative:  req.Initiative,
		})
	})
}

// handleDeleteTicket removes a ticket. Unknown ids succeed with removed=false.
func (s *Server) handleDeleteTicket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var removed bool
	err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		removed = b.RemoveTicket(id)
		return nil
	})
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"removed": removed})
}

func (s *Server) handleUpdateAssigned(c *gin.Context) {
	var req changeRequest
	s.updateTicket(c, &req, func(b *board.Board, id int64) (models.Ticket, error) {
		return b.UpdateAssignment(id, req.Assigned)
	})
}

func (s *Server) handleUpdateSize(c *gin.Context) {
	var req changeRequest
	s.updateTicket(c, &req, func(b *board.Board, id int64) (models.Ticket, error) {
		return b.UpdateSize(id, req.Size, req.Reason)
	})
}

func (s *Server) handleUpdatePriority(c *gin.Context) {
	var req changeRequest
	s.updateTicket(c, &req, func(b *board.Board, id int64) (models.Ticket, error) {
		return b.UpdatePriority(id, req.Priority)
	})
}

func (s *Server) handleUpdateStartDate(c *gin.Context) {
	var req changeRequest
	s.updateTicket(c, &req, func(b *board.Board, id int64) (models.Ticket, error) {
		return b.UpdateStartDate(id, req.StartDate, req.Reason)
	})
}

// handleUpdateEndDate sets or, with a null endDate, clears the custom end.
func (s *Server) handleUpdateEndDate(c *gin.Context) {
	var req changeRequest
	s.updateTicket(c, &req, func(b *board.Board, id int64) (models.Ticket, error) {
		return b.SetCustomEndDate(id, req.EndDate, req.Reason)
	})
}

func (s *Server) handleUpdateFixedLength(c *gin.Context) {
	var req changeRequest
	s.updateTicket(c, &req, func(b *board.Board, id int64) (models.Ticket, error) {
		if req.IsFixedLength == nil {
			return models.Ticket{}, fmt.Errorf("isFixedLength is required")
		}
		return b.SetFixedLength(id, *req.IsFixedLength)
	})
}

// handleAdvanceStatus moves the ticket to the next status, or to the
// requested one when it is the next.
func (s *Server) handleAdvanceStatus(c *gin.Context) {
	var req changeRequest
	s.updateTicket(c, &req, func(b *board.Board, id int64) (models.Ticket, error) {
		if req.Status == "" {
			return b.AdvanceStatus(id, req.Comment)
		}
		target, err := models.ParseStatus(req.Status)
		if err != nil {
			return models.Ticket{}, err
		}
		return b.SetStatus(id, target, req.Comment)
	})
}

// updateTicket binds the optional JSON body into req, then applies fn to
// the ticket named in the path.
func (s *Server) updateTicket(c *gin.Context, req any, fn func(b *board.Board, id int64) (models.Ticket, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(req); err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
	}

	var ticket models.Ticket
	err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		t, err := fn(b, id)
		ticket = t
		return err
	})
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"ticket": ticket})
}
