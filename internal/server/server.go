package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"scheduler/internal/board"
	"scheduler/internal/models"
	"scheduler/internal/schedule"
)

// Options configures a Server.
type Options struct {
	StaticDir string
	// HorizonWeeks is the default heat map width.
	HorizonWeeks int
	// DailyHours applies when the stored settings carry no hour rate.
	DailyHours float64
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Server provides HTTP handlers for the scheduler.
type Server struct {
	engine *gin.Engine
	store  StateStore
	logger *slog.Logger
	opts   Options

	// mu serializes load, mutate, save cycles.
	mu sync.Mutex
}

// New constructs the HTTP server with routes and middleware configured.
func New(store StateStore, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.HorizonWeeks <= 0 {
		opts.HorizonWeeks = models.HorizonWeeks
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api"))

	srv := &Server{
		engine: router,
		store:  store,
		logger: logger,
		opts:   opts,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		api.GET("/state", s.handleGetState)
		api.PUT("/state", s.handlePutState)
		api.GET("/export.json", s.handleExportJSON)
		api.GET("/export.csv", s.handleExportCSV)
		api.GET("/export/people.csv", s.handleExportPeopleCSV)
		api.POST("/import/csv", s.handleImportTicketsCSV)
		api.POST("/import/people.csv", s.handleImportPeopleCSV)

		people := api.Group("/people")
		{
			people.GET("", s.handleListPeople)
			people.POST("", s.handleCreatePerson)
			people.DELETE(":name", s.handleDeletePerson)
			people.PUT(":name/availability/:week", s.handleSetAvailability)
			people.POST(":name/ready", s.handleToggleReady)
		}

		tickets := api.Group("/tickets")
		{
			tickets.GET("", s.handleListTickets)
			tickets.POST("", s.handleCreateTicket)
			tickets.GET(":id", s.handleGetTicket)
			tickets.PUT(":id", s.handleUpdateTicket)
			tickets.DELETE(":id", s.handleDeleteTicket)
			tickets.PUT(":id/assigned", s.handleUpdateAssigned)
			tickets.PUT(":id/size", s.handleUpdateSize)
			tickets.PUT(":id/priority", s.handleUpdatePriority)
			tickets.PUT(":id/start-date", s.handleUpdateStartDate)
			tickets.PUT(":id/end-date", s.handleUpdateEndDate)
			tickets.PUT(":id/fixed-length", s.handleUpdateFixedLength)
			tickets.POST(":id/status", s.handleAdvanceStatus)
		}

		api.GET("/sizes", s.handleListSizes)
		api.PUT("/sizes/:key", s.handlePutSize)
		api.PUT("/settings/daily-hours", s.handlePutDailyHours)

		api.POST("/stakeholders", s.handleCreateStakeholder)
		api.DELETE("/stakeholders/:name", s.handleDeleteStakeholder)
		api.POST("/initiatives", s.handleCreateInitiative)
		api.DELETE("/initiatives/:name", s.handleDeleteInitiative)
		api.GET("/initiatives/timeline", s.handleInitiativeTimeline)

		api.GET("/projections", s.handleProjections)
		api.GET("/heatmap", s.handleHeatMap)
		api.GET("/conflicts", s.handleConflicts)
		api.GET("/delays", s.handleDelays)
		api.GET("/report.pdf", s.handleReportPDF)
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// errDeclined marks adds refused because the name is empty or taken.
var errDeclined = errors.New("already exists or empty name")

// statusFor maps board and engine errors onto HTTP statuses.
func statusFor(err error) int {
	var storageErr *storageError
	switch {
	case errors.As(err, &storageErr):
		return http.StatusInternalServerError
	case errors.Is(err, board.ErrTicketNotFound),
		errors.Is(err, board.ErrPersonNotFound),
		errors.Is(err, board.ErrStakeholderNotFound),
		errors.Is(err, board.ErrInitiativeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errDeclined):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if err != nil {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.Int("status", status), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

// engineConfig is the projection configuration for snap, with the server's
// default hour rate when none is stored.
func (s *Server) engineConfig(snap models.Snapshot) schedule.Config {
	cfg := board.ConfigOf(snap.Settings)
	if snap.Settings.DailyHourRate <= 0 && s.opts.DailyHours > 0 {
		cfg.DailyHourRate = s.opts.DailyHours
	}
	return cfg
}
