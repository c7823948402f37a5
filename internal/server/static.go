package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

var errNoEndpoint = errors.New("endpoint not found")

// mountStatic serves the board frontend from the configured directory.
// Without one the server runs API only and unknown /api paths get a JSON 404.
func (s *Server) mountStatic() {
	apiNotFound := func(c *gin.Context) bool {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": errNoEndpoint.Error()})
			return true
		}
		return false
	}
	s.engine.NoRoute(func(c *gin.Context) {
		if !apiNotFound(c) {
			c.Status(http.StatusNotFound)
		}
	})

	dir := s.opts.StaticDir
	if dir == "" {
		s.logger.Warn("static directory not configured; API only mode")
		return
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		s.logger.Warn("static directory missing", "path", dir, "error", err)
		return
	}

	indexPath := filepath.Join(dir, "index.html")
	if _, err := os.Stat(indexPath); err != nil {
		s.logger.Warn("index.html not found", "path", indexPath, "error", err)
	} else {
		s.engine.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})
		s.engine.NoRoute(func(c *gin.Context) {
			if apiNotFound(c) {
				return
			}
			c.File(indexPath)
		})
	}

	assetsDir := filepath.Join(dir, "assets")
	if _, err := os.Stat(assetsDir); err == nil {
		s.engine.StaticFS("/assets", gin.Dir(assetsDir, true))
	}

	for _, name := range []string{"favicon.ico", "styles.css", "app.js"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			s.engine.StaticFile("/"+name, path)
		}
	}
}
