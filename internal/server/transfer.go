package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"scheduler/internal/board"
	"scheduler/internal/models"
	"scheduler/internal/transfer"
)

// maxUpload bounds imported files.
const maxUpload = 10 << 20

// handleGetState returns the whole snapshot.
func (s *Server) handleGetState(c *gin.Context) {
	s.view(c, func(snap models.Snapshot) (any, error) {
		return snap, nil
	})
}

// handlePutState replaces the whole snapshot with the request body.
func (s *Server) handlePutState(c *gin.Context) {
	snap, err := transfer.DecodeSnapshot(io.LimitReader(c.Request.Body, maxUpload))
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		*b = *board.New(snap, s.opts.Clock)
		return nil
	}); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tickets": len(snap.Tickets), "people": len(snap.People)})
}

// handleExportJSON downloads the snapshot as a backup file.
func (s *Server) handleExportJSON(c *gin.Context) {
	snap, err := s.snapshot(c.Request.Context())
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	var buf bytes.Buffer
	if err := transfer.EncodeSnapshot(&buf, snap); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="scheduler-backup.json"`)
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}

// handleExportCSV downloads tickets with their computed end dates.
func (s *Server) handleExportCSV(c *gin.Context) {
	snap, err := s.snapshot(c.Request.Context())
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	var buf bytes.Buffer
	if err := transfer.WriteTicketsCSV(&buf, snap.Tickets, s.engineConfig(snap)); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="tickets.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (s *Server) handleExportPeopleCSV(c *gin.Context) {
	snap, err := s.snapshot(c.Request.Context())
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	var buf bytes.Buffer
	if err := transfer.WritePeopleCSV(&buf, snap.People); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="people.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// handleImportTicketsCSV merges a ticket sheet into the board.
func (s *Server) handleImportTicketsCSV(c *gin.Context) {
	body, err := uploadBody(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	defer body.Close()

	tickets, err := transfer.ReadTicketsCSV(io.LimitReader(body, maxUpload))
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	var res board.ImportResult
	if err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		res = b.ImportTickets(tickets)
		return nil
	}); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, res)
}

// handleImportPeopleCSV merges a roster sheet into the board.
func (s *Server) handleImportPeopleCSV(c *gin.Context) {
	body, err := uploadBody(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	defer body.Close()

	people, err := transfer.ReadPeopleCSV(io.LimitReader(body, maxUpload))
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	var res board.ImportResult
	if err := s.mutate(c.Request.Context(), func(b *board.Board) error {
		res = b.ImportPeople(people)
		return nil
	}); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, res)
}

// uploadBody accepts either a multipart form with a "file" field or the
// raw CSV as the request body.
func uploadBody(c *gin.Context) (io.ReadCloser, error) {
	if c.ContentType() == "multipart/form-data" {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("file field: %w", err)
		}
		return header.Open()
	}
	return c.Request.Body, nil
}
