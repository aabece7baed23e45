package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/SessionKeeper/internal/api/command"
	"github.com/GriffinCanCode/SessionKeeper/internal/domain/session"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/utils"
)

// Dispatcher executes commands
type Dispatcher interface {
	Dispatch(ctx context.Context, req command.Request) command.Response
}

// Handlers contains all HTTP handlers
type Handlers struct {
	dispatcher Dispatcher
	health     func() gin.H
	started    time.Time
}

// NewHandlers creates a new handler set. health may be nil.
func NewHandlers(dispatcher Dispatcher, health func() gin.H) *Handlers {
	return &Handlers{dispatcher: dispatcher, health: health, started: time.Now()}
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.POST("/command", h.Command)

	r.GET("/settings", h.GetSettings)
	r.PUT("/settings", h.SetSettings)

	r.GET("/sessions", h.ListSessions)
	r.POST("/sessions", h.SaveSession)
	r.GET("/sessions/export", h.ExportSessions)
	r.GET("/sessions/:id", h.GetSession)
	r.PUT("/sessions/:id", h.UpdateSession)
	r.DELETE("/sessions/:id", h.DeleteSession)
	r.POST("/sessions/:id/tabs", h.AddTabs)
	r.POST("/sessions/:id/restore", h.RestoreSession)

	r.POST("/events/:kind", h.Event)
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "session-keeper",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":         "healthy",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	}
	if h.health != nil {
		for k, v := range h.health() {
			body[k] = v
		}
	}
	c.JSON(http.StatusOK, body)
}

// Command executes a raw command envelope. Domain failures are reported
// inside the envelope with status 200; only undecodable bodies get 400.
func (h *Handlers) Command(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxCommandSize)

	var req command.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, command.Response{OK: false, Error: "invalid message"})
		return
	}
	if req.RequestID == "" {
		req.RequestID = c.GetHeader("X-Request-ID")
	}

	c.JSON(http.StatusOK, h.dispatcher.Dispatch(c.Request.Context(), req))
}

// GetSettings returns the current settings
func (h *Handlers) GetSettings(c *gin.Context) {
	h.run(c, command.Request{Type: command.TypeGetSettings})
}

// SetSettings applies a partial settings update
func (h *Handlers) SetSettings(c *gin.Context) {
	var patch types.SettingsPatch
	if !h.bind(c, &patch) {
		return
	}
	h.run(c, command.Request{Type: command.TypeSetSettings, Settings: &patch})
}

// ListSessions returns every session, newest first
func (h *Handlers) ListSessions(c *gin.Context) {
	h.run(c, command.Request{Type: command.TypeGetSessions})
}

// SaveSession captures the open windows into a new session
func (h *Handlers) SaveSession(c *gin.Context) {
	var body nameBody
	if !h.bindOptional(c, &body) {
		return
	}
	h.runStatus(c, http.StatusCreated, command.Request{Type: command.TypeSaveSession, Name: body.Name})
}

// GetSession returns one session
func (h *Handlers) GetSession(c *gin.Context) {
	h.run(c, command.Request{Type: command.TypeGetSession, SessionID: c.Param("id")})
}

// UpdateSession overwrites a session with the open windows
func (h *Handlers) UpdateSession(c *gin.Context) {
	var body nameBody
	if !h.bindOptional(c, &body) {
		return
	}
	h.run(c, command.Request{Type: command.TypeUpdateSession, SessionID: c.Param("id"), Name: body.Name})
}

// DeleteSession removes a session
func (h *Handlers) DeleteSession(c *gin.Context) {
	h.run(c, command.Request{Type: command.TypeDeleteSession, SessionID: c.Param("id")})
}

// AddTabs appends new open tabs to a session
func (h *Handlers) AddTabs(c *gin.Context) {
	h.run(c, command.Request{Type: command.TypeAddTabs, SessionID: c.Param("id")})
}

// RestoreSession reopens a session's windows
func (h *Handlers) RestoreSession(c *gin.Context) {
	h.run(c, command.Request{Type: command.TypeRestoreSession, SessionID: c.Param("id")})
}

// ExportSessions downloads every session as JSON or YAML
func (h *Handlers) ExportSessions(c *gin.Context) {
	resp := h.dispatcher.Dispatch(c.Request.Context(), command.Request{
		Type:      command.TypeExportSessions,
		RequestID: c.GetHeader("X-Request-ID"),
		Format:    c.DefaultQuery("format", session.FormatJSON),
	})
	if !resp.OK {
		c.JSON(statusFor(resp.Kind), resp)
		return
	}

	res := resp.Result.(session.ExportResult)
	c.Header("Content-Disposition", `attachment; filename="sessions.`+res.Format+`"`)
	c.Data(http.StatusOK, res.ContentType, []byte(res.Data))
}

// Event accepts a browser event notification
func (h *Handlers) Event(c *gin.Context) {
	var t string
	switch strings.ToLower(c.Param("kind")) {
	case "window_removed", "window-removed":
		t = command.TypeWindowRemoved
	case "suspend":
		t = command.TypeSuspend
	default:
		c.JSON(http.StatusNotFound, command.Response{OK: false, Error: "unknown event"})
		return
	}
	h.runStatus(c, http.StatusAccepted, command.Request{Type: t})
}

type nameBody struct {
	Name any `json:"name"`
}

func (h *Handlers) run(c *gin.Context, req command.Request) {
	h.runStatus(c, http.StatusOK, req)
}

func (h *Handlers) runStatus(c *gin.Context, okStatus int, req command.Request) {
	req.RequestID = c.GetHeader("X-Request-ID")
	resp := h.dispatcher.Dispatch(c.Request.Context(), req)
	if !resp.OK {
		c.JSON(statusFor(resp.Kind), resp)
		return
	}
	c.JSON(okStatus, resp)
}

func (h *Handlers) bind(c *gin.Context, v any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxCommandSize)
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, command.Response{OK: false, Error: "invalid request body"})
		return false
	}
	return true
}

// bindOptional accepts an empty body
func (h *Handlers) bindOptional(c *gin.Context, v any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return h.bind(c, v)
}

func statusFor(kind session.Kind) int {
	switch kind {
	case session.KindValidation:
		return http.StatusBadRequest
	case session.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
