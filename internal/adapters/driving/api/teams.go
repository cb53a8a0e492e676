package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// StatusResponse is the watcher status as served over HTTP.
type StatusResponse struct {
	Message        string     `json:"message,omitempty"`
	Running        bool       `json:"running"`
	LastSync       *time.Time `json:"lastSync"`
	FilesProcessed int64      `json:"filesProcessed"`
	DriveID        string     `json:"driveId"`
	PollInterval   int64      `json:"pollInterval"`
	CursorSet      bool       `json:"cursorSet"`
	LastError      string     `json:"lastError,omitempty"`
}

// ConnectionResponse reports the outcome of a connection test.
type ConnectionResponse struct {
	Connected bool   `json:"connected"`
	SiteID    string `json:"siteId,omitempty"`
	DriveID   string `json:"driveId,omitempty"`
	Name      string `json:"name,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SyncResponse reports the outcome of a manual sync.
type SyncResponse struct {
	Message        string     `json:"message"`
	Success        bool       `json:"success"`
	Error          string     `json:"error,omitempty"`
	LastSync       *time.Time `json:"lastSync"`
	FilesProcessed int        `json:"filesProcessed"`
	FilesSkipped   int        `json:"filesSkipped"`
	FilesFailed    int        `json:"filesFailed"`
}

func (s *Server) registerTeamsRoutes(g *echo.Group) {
	g.GET("/status", s.getStatus)
	g.POST("/test", s.testConnection)
	g.POST("/sync", s.sync)
	g.POST("/start", s.start)
	g.POST("/stop", s.stop)
}

// getStatus handles GET /api/teams/status.
func (s *Server) getStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, toStatusResponse(s.ports.Watcher.Status(), ""))
}

// testConnection handles POST /api/teams/test.
// A failed resolution is reported in the body, not as an HTTP error.
func (s *Server) testConnection(c echo.Context) error {
	identity, err := s.ports.Watcher.TestConnection(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusOK, ConnectionResponse{
			Connected: false,
			Error:     err.Error(),
		})
	}
	return c.JSON(http.StatusOK, ConnectionResponse{
		Connected: true,
		SiteID:    identity.SiteID,
		DriveID:   identity.DriveID,
		Name:      identity.Name,
		Message:   "Successfully connected to the remote drive",
	})
}

// sync handles POST /api/teams/sync.
// The poll outlives a disconnected client; closing the watcher still cancels it.
func (s *Server) sync(c echo.Context) error {
	ctx := context.WithoutCancel(c.Request().Context())
	result, err := s.ports.Watcher.TriggerManualSync(ctx)
	if err != nil {
		return errorJSON(c, err)
	}

	status := s.ports.Watcher.Status()
	return c.JSON(http.StatusOK, SyncResponse{
		Message:        "Sync completed",
		Success:        result.Success,
		Error:          result.Error,
		LastSync:       timePtr(status.LastSync),
		FilesProcessed: result.FilesProcessed,
		FilesSkipped:   result.FilesSkipped,
		FilesFailed:    result.FilesFailed,
	})
}

// start handles POST /api/teams/start.
func (s *Server) start(c echo.Context) error {
	if err := s.ports.Watcher.Start(c.Request().Context()); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, toStatusResponse(s.ports.Watcher.Status(), "Watcher started"))
}

// stop handles POST /api/teams/stop.
func (s *Server) stop(c echo.Context) error {
	s.ports.Watcher.Stop()
	return c.JSON(http.StatusOK, toStatusResponse(s.ports.Watcher.Status(), "Watcher stopped"))
}

func toStatusResponse(st domain.WatcherStatus, message string) StatusResponse {
	return StatusResponse{
		Message:        message,
		Running:        st.Running(),
		LastSync:       timePtr(st.LastSync),
		FilesProcessed: st.FilesProcessed,
		DriveID:        st.DriveID,
		PollInterval:   int64(st.PollInterval / time.Second),
		CursorSet:      st.CursorSet,
		LastError:      st.LastError,
	}
}

// timePtr returns nil for the zero time so it encodes as null.
func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
