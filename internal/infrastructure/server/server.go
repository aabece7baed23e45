package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/SessionKeeper/internal/api/command"
	apihttp "github.com/GriffinCanCode/SessionKeeper/internal/api/http"
	"github.com/GriffinCanCode/SessionKeeper/internal/api/middleware"
	"github.com/GriffinCanCode/SessionKeeper/internal/api/ws"
	"github.com/GriffinCanCode/SessionKeeper/internal/domain/autosave"
	"github.com/GriffinCanCode/SessionKeeper/internal/domain/session"
	"github.com/GriffinCanCode/SessionKeeper/internal/domain/settings"
	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/alarm"
	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/browser"
	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/config"
	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/logging"
	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/storage"
)

const (
	shutdownTimeout = 10 * time.Second
	suspendTimeout  = 5 * time.Second
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	config      *config.Config
	logger      *logging.Logger
	metrics     *monitoring.Metrics
	kv          storage.Store
	alarms      *alarm.Scheduler
	settings    *settings.Store
	sessions    *session.Manager
	coordinator *autosave.Coordinator
	dispatcher  *command.Dispatcher

	cancel    context.CancelFunc
	loopDone  chan struct{}
	closeOnce sync.Once
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return NewServerWithLogger(cfg, logger)
}

// NewServerWithLogger creates a server that logs through logger
func NewServerWithLogger(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	logger.Info("Initializing session service",
		zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("bridge", cfg.Browser.BridgeURL != ""),
	)

	// Metrics first, other components record into it
	metrics := monitoring.NewMetrics()

	kv, err := storage.Open(storage.Config{Driver: cfg.Storage.Driver, Path: cfg.Storage.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	logger.Info("Storage opened", zap.String("driver", cfg.Storage.Driver), zap.String("path", cfg.Storage.Path))

	alarms := alarm.NewScheduler(cfg.Autosave.AlarmUnit, logger.Component("alarm"))
	surface := browser.New(cfg.Browser, logger.Component("browser"), metrics)

	settingsStore := settings.NewStore(kv, alarms, logger.Component("settings"))
	st, err := settingsStore.Init(context.Background())
	if err != nil {
		alarms.Close()
		_ = kv.Close()
		return nil, fmt.Errorf("failed to initialize settings: %w", err)
	}
	logger.Info("Settings loaded",
		zap.Bool("autosave_enabled", st.AutosaveEnabled),
		zap.Int("interval_minutes", st.AutosaveIntervalMinutes),
		zap.Int("max_sessions", st.MaxSessions))

	sessions := session.NewManager(
		session.NewRepository(kv),
		surface,
		settingsStore,
		logger.Component("session"),
		session.WithMetrics(metrics),
	)
	coordinator := autosave.NewCoordinator(
		sessions,
		settingsStore,
		autosave.Config{MinSpacing: cfg.Autosave.MinSpacing},
		logger.Component("autosave"),
		metrics,
	)
	dispatcher := command.NewDispatcher(sessions, settingsStore, coordinator, logger.Component("command"), metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Component("http")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	s := &Server{
		router:      router,
		config:      cfg,
		logger:      logger,
		metrics:     metrics,
		kv:          kv,
		alarms:      alarms,
		settings:    settingsStore,
		sessions:    sessions,
		coordinator: coordinator,
		dispatcher:  dispatcher,
	}

	handlers := apihttp.NewHandlers(dispatcher, s.healthDetails(surface))
	handlers.Register(router)
	router.GET("/stream", ws.NewHandler(dispatcher, logger.Component("ws"), metrics).HandleConnection)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.startAlarmLoop()
	s.refreshStoredGauge()

	logger.Info("Server initialized successfully")
	return s, nil
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Dispatcher returns the command dispatcher
func (s *Server) Dispatcher() *command.Dispatcher {
	return s.dispatcher
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close shuts the server down: stops accepting requests, takes a final
// autosave, then releases the alarm scheduler and storage.
func (s *Server) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		s.logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP shutdown failed", zap.Error(err))
		}

		s.cancel()
		<-s.loopDone
		s.alarms.Close()

		suspendCtx, suspendCancel := context.WithTimeout(context.Background(), suspendTimeout)
		if _, err := s.coordinator.Trigger(suspendCtx, autosave.ReasonSuspend); err != nil {
			s.logger.Warn("Final autosave failed", zap.Error(err))
		}
		suspendCancel()
		s.coordinator.Wait()

		if err := s.kv.Close(); err != nil {
			s.logger.Error("Failed to close storage", zap.Error(err))
			closeErr = fmt.Errorf("failed to close storage: %w", err)
		}

		_ = s.logger.Sync()
	})
	return closeErr
}

func (s *Server) startAlarmLoop() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.loopDone = make(chan struct{})
	go func() {
		defer close(s.loopDone)
		s.coordinator.Run(ctx, s.alarms.Ticks())
	}()
}

func (s *Server) refreshStoredGauge() {
	list, err := s.sessions.List(context.Background())
	if err != nil {
		s.logger.Warn("Failed to count stored sessions", zap.Error(err))
		return
	}
	s.metrics.SetSessionsStored(len(list))
}

func (s *Server) healthDetails(surface browser.Surface) func() gin.H {
	return func() gin.H {
		details := gin.H{
			"storage": s.config.Storage.Driver,
		}

		switch b := surface.(type) {
		case *browser.Bridge:
			details["browser"] = gin.H{"kind": "bridge", "breaker": b.Breaker().State().String()}
		default:
			details["browser"] = gin.H{"kind": "memory"}
		}

		if a, ok := s.alarms.Get(settings.AlarmName); ok {
			details["autosave_alarm"] = a
		}
		return details
	}
}
