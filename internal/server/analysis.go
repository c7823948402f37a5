package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"scheduler/internal/analysis"
	"scheduler/internal/calendar"
	"scheduler/internal/capacity"
	"scheduler/internal/models"
	"scheduler/internal/report"
	"scheduler/internal/schedule"
)

type projectionEntry struct {
	schedule.Projection
	EndDate     string `json:"endDate"`
	StatusClass string `json:"statusClass"`
	Error       string `json:"error,omitempty"`
}

type heatMapResponse struct {
	capacity.HeatMap
	Team   []capacity.Bucket `json:"team"`
	Errors []string          `json:"errors,omitempty"`
}

// handleProjections returns the schedule of every ticket. Tickets that
// cannot be projected carry an error instead of dates.
func (s *Server) handleProjections(c *gin.Context) {
	s.view(c, func(snap models.Snapshot) (any, error) {
		results := schedule.ProjectAll(snap.Tickets, s.engineConfig(snap))
		out := make([]projectionEntry, 0, len(results))
		for i, r := range results {
			entry := projectionEntry{
				Projection:  r.Projection,
				EndDate:     r.Projection.EndLabel(),
				StatusClass: snap.Tickets[i].Status.Class(),
			}
			if r.Err != nil {
				entry.EndDate = ""
				entry.Error = r.Err.Error()
			}
			out = append(out, entry)
		}
		return gin.H{"projections": out}, nil
	})
}

// handleHeatMap returns weekly utilization. Query parameters: anchor
// (YYYY-MM-DD, snapped to its Monday) and weeks.
func (s *Server) handleHeatMap(c *gin.Context) {
	opts, err := s.heatMapOptions(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	s.view(c, func(snap models.Snapshot) (any, error) {
		hm := capacity.ComputeHeatMap(snap.Tickets, snap.People, s.engineConfig(snap), opts)
		resp := heatMapResponse{HeatMap: hm, Team: hm.TeamTotals()}
		for _, e := range hm.Errors {
			resp.Errors = append(resp.Errors, e.Error())
		}
		return resp, nil
	})
}

func (s *Server) heatMapOptions(c *gin.Context) (capacity.Options, error) {
	opts := capacity.Options{
		HorizonWeeks: s.opts.HorizonWeeks,
		Today:        calendar.Today(s.opts.Clock),
	}
	anchor, err := calendar.Parse(c.Query("anchor"))
	if err != nil {
		return capacity.Options{}, fmt.Errorf("anchor: %w", err)
	}
	opts.Anchor = anchor
	if raw := c.Query("weeks"); raw != "" {
		weeks, err := strconv.Atoi(raw)
		if err != nil || weeks < 1 {
			return capacity.Options{}, fmt.Errorf("weeks must be a positive integer, got %q", raw)
		}
		opts.HorizonWeeks = weeks
	}
	return opts, nil
}

// handleConflicts lists overlapping P1 tickets that share people.
func (s *Server) handleConflicts(c *gin.Context) {
	s.view(c, func(snap models.Snapshot) (any, error) {
		conflicts := capacity.FindP1Conflicts(snap.Tickets, s.engineConfig(snap))
		if conflicts == nil {
			conflicts = []capacity.Conflict{}
		}
		return gin.H{"conflicts": conflicts}, nil
	})
}

// handleDelays compares completion dates with planned ends.
func (s *Server) handleDelays(c *gin.Context) {
	s.view(c, func(snap models.Snapshot) (any, error) {
		return analysis.Delays(snap.Tickets, s.engineConfig(snap)), nil
	})
}

func (s *Server) handleInitiativeTimeline(c *gin.Context) {
	s.view(c, func(snap models.Snapshot) (any, error) {
		spans := analysis.InitiativeTimeline(snap.Initiatives, snap.Tickets, s.engineConfig(snap))
		return gin.H{"initiatives": spans}, nil
	})
}

// handleReportPDF renders the heat map, conflicts and delivery summary.
func (s *Server) handleReportPDF(c *gin.Context) {
	opts, err := s.heatMapOptions(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	snap, err := s.snapshot(c.Request.Context())
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}

	cfg := s.engineConfig(snap)
	delays := analysis.Delays(snap.Tickets, cfg)
	var buf bytes.Buffer
	err = report.WriteHeatMapPDF(&buf, report.PDFInput{
		HeatMap:   capacity.ComputeHeatMap(snap.Tickets, snap.People, cfg, opts),
		Conflicts: capacity.FindP1Conflicts(snap.Tickets, cfg),
		Delays:    &delays,
	})
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="capacity-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
