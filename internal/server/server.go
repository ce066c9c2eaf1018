package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Harry110/crosswalk/internal/api/middleware"
	"github.com/Harry110/crosswalk/internal/infrastructure/config"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
	"github.com/Harry110/crosswalk/internal/infrastructure/monitoring"
	"github.com/Harry110/crosswalk/internal/runtime/runner"
	"github.com/Harry110/crosswalk/internal/ws"
)

// Server is the inspection HTTP server.
type Server struct {
	http *http.Server
	log  *logging.Logger
}

// New builds the inspection server over a started runner.
func New(cfg *config.Config, rt *runner.Runner, m *monitoring.Metrics, log *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	if m != nil {
		router.Use(monitoring.Middleware(m))
	}

	h := newHandlers(rt, m, log)
	stream := ws.NewHandler(rt.Events(), log).WithMetrics(m)

	router.GET("/", h.root)
	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/applications", h.listApplications)
	router.POST("/applications", h.installApplication)
	router.GET("/applications/running", h.listRunning)
	router.POST("/applications/:id/launch", h.launchApplication)
	router.DELETE("/applications/:id", h.uninstallApplication)
	router.DELETE("/instances/:id", h.terminateInstance)

	router.GET("/cookies", h.getCookiePolicy)
	router.PUT("/cookies", h.updateCookiePolicy)

	router.GET("/partitions", h.listPartitions)
	router.GET("/decisions", h.listDecisions)
	router.GET("/stream", stream.HandleConnection)

	router.POST("/bridges", h.attachBridge)
	router.DELETE("/bridges/:process/:frame", h.detachBridge)

	addr := net.JoinHostPort(cfg.Admin.Host, cfg.Admin.Port)
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log.Named("server"),
	}
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.log.Info("inspection server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
