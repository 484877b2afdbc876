package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/fsview/internal/api/http"
	"github.com/GriffinCanCode/fsview/internal/api/middleware"
	"github.com/GriffinCanCode/fsview/internal/infrastructure/config"
	"github.com/GriffinCanCode/fsview/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsview/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsview/internal/providers/filesystem"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	service    *filesystem.Service
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
	registry   *prometheus.Registry
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		File:        cfg.Logging.File,
		MaxSizeMB:   cfg.Logging.MaxSizeMB,
		MaxBackups:  cfg.Logging.MaxBackups,
		MaxAgeDays:  cfg.Logging.MaxAgeDays,
		Compress:    cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	logger.Info("Initializing fsview server",
		zap.String("port", cfg.Server.Port),
		zap.String("root", cfg.Storage.Root),
		zap.Strings("admin_only_ops", cfg.Storage.AdminOnlyOps),
	)

	// Initialize metrics on a private registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)
	logger.Info("Performance monitoring initialized")

	// Managed root
	if err := os.MkdirAll(cfg.Storage.Root, 0o755); err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	service, err := filesystem.NewService(filesystem.Options{
		Root:             cfg.Storage.Root,
		HiddenExtensions: cfg.Visibility.HiddenExtensions,
		AdminOnlyOps:     cfg.Storage.AdminOnlyOps,
		MaxUploadBytes:   cfg.Upload.MaxFileSize,
		MaxScanEntries:   cfg.Storage.MaxScanEntries,
		Logger:           logger.Logger,
		Recorder:         metrics,
	})
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to initialize filesystem service: %w", err)
	}
	logger.Info("Filesystem service ready", zap.String("root", service.Root()))

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = cfg.Upload.MaxMemory

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(logger.Logger))
	router.Use(middleware.Logger(logger.Named("http")))
	router.Use(monitoring.Middleware(metrics))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowOrigins
	}
	if len(cfg.Server.RoleHeader) > 0 && cfg.Server.RoleHeader != middleware.DefaultRoleHeader {
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, cfg.Server.RoleHeader)
	}
	router.Use(middleware.CORS(corsCfg))

	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
			zap.Bool("global", cfg.RateLimit.Global),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		if cfg.RateLimit.Global {
			router.Use(middleware.GlobalRateLimit(rl))
		} else {
			router.Use(middleware.RateLimit(rl))
		}
	}
	router.Use(middleware.Caller(middleware.RoleConfig{
		Header:      cfg.Server.RoleHeader,
		DefaultRole: filesystem.ParseRole(cfg.Server.DefaultRole),
	}))

	// Register routes
	handlers := api.NewHandlers(service, metrics, logger.Logger)
	handlers.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           gzhttp.GzipHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server initialized successfully")

	return &Server{
		router:     router,
		httpServer: httpServer,
		service:    service,
		logger:     logger,
		config:     cfg,
		metrics:    metrics,
		registry:   registry,
	}, nil
}

// Handler returns the full HTTP handler, compression included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Logger returns the server logger.
func (s *Server) Logger() *logging.Logger {
	return s.logger
}

// Run starts the HTTP server and blocks until it stops. A clean Shutdown
// returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx
// expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Graceful shutdown failed", zap.Error(err))
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// Close flushes the logger and releases the log file
func (s *Server) Close() error {
	return s.logger.Close()
}
