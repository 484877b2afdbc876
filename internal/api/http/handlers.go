package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsview/internal/api/middleware"
	"github.com/GriffinCanCode/fsview/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsview/internal/providers/filesystem"
)

// Executor runs filesystem operations. *filesystem.Service satisfies it.
type Executor interface {
	Execute(ctx context.Context, caller filesystem.Caller, op filesystem.Operation) filesystem.Result
}

// StatsProvider exposes a metrics snapshot for the health endpoint.
type StatsProvider interface {
	Snapshot() monitoring.MetricsSnapshot
}

// Handlers contains all HTTP handlers
type Handlers struct {
	exec  Executor
	stats StatsProvider
	log   *zap.Logger
}

// NewHandlers creates a new handler set. stats may be nil.
func NewHandlers(exec Executor, stats StatsProvider, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{exec: exec, stats: stats, log: log}
}

// Register mounts the file API and health routes on router.
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/health", h.Health)

	fs := router.Group("/api/fs")
	fs.GET("/list", h.List)
	fs.GET("/stat", h.Stat)
	fs.POST("/mkdir", h.CreateDir)
	fs.POST("/delete", h.Delete)
	fs.POST("/rename", h.Rename)
	fs.POST("/upload", h.Upload)
}

// Health handles health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":     "healthy",
		"service":    "fsview",
		"operations": filesystem.Operations,
	}
	if h.stats != nil {
		body["stats"] = h.stats.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// run executes op for the request's caller and writes the envelope.
func (h *Handlers) run(c *gin.Context, op filesystem.Operation) {
	res := h.exec.Execute(c.Request.Context(), middleware.CallerFrom(c), op)
	h.respond(c, res)
}

func (h *Handlers) respond(c *gin.Context, res filesystem.Result) {
	body, err := filesystem.Encode(res)
	if err != nil {
		h.log.Error("Failed to encode result",
			zap.String("request_id", middleware.RequestIDFrom(c)),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"ok":    false,
			"error": "failed to encode result",
			"code":  filesystem.KindIO,
		})
		return
	}
	c.Data(StatusFor(res), "application/json; charset=utf-8", body)
}

// badRequest rejects input that never reached the service.
func (h *Handlers) badRequest(c *gin.Context, msg string) {
	h.respond(c, filesystem.Result{OK: false, Error: msg, Code: filesystem.KindInvalidPath})
}

// StatusFor maps a result onto an HTTP status code.
func StatusFor(res filesystem.Result) int {
	if res.OK {
		return http.StatusOK
	}
	switch res.Code {
	case filesystem.KindInvalidPath:
		return http.StatusBadRequest
	case filesystem.KindNotFound:
		return http.StatusNotFound
	case filesystem.KindAlreadyExists:
		return http.StatusConflict
	case filesystem.KindPermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
