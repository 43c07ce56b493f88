// Package web serves the browser dashboard and its JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"DrawSentinel/internal/collector"
	"DrawSentinel/internal/logging"
	"DrawSentinel/internal/recorder"
	"DrawSentinel/internal/strategy"
	"DrawSentinel/internal/weights"
)

//go:embed html/index.html
var htmlFS embed.FS

// Server wires the HTTP routes to the collector, engine and stores.
type Server struct {
	Collector *collector.Collector
	Engine    *strategy.Engine
	Weights   *weights.Manager
	Recorder  recorder.Recorder
	Window    int

	httpServer *http.Server
}

// NewServer creates a Server. Call Start to begin listening.
func NewServer(col *collector.Collector, eng *strategy.Engine, wm *weights.Manager, rec recorder.Recorder, window int) *Server {
	return &Server{Collector: col, Engine: eng, Weights: wm, Recorder: rec, Window: window}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.GET("/", s.index)
	newAPIController(engine.Group("/api"), s)
	engine.NoRoute(func(c *gin.Context) {
		jsonError(c, http.StatusNotFound, errors.New("not found"))
	})
	return engine
}

// Start binds addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	gin.SetMode(gin.ReleaseMode)
	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Errorf("web server: %v", err)
		}
	}()
	logging.Infof("web dashboard listening on %s", ln.Addr())
	return nil
}

// Stop shuts the server down, waiting for in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) index(c *gin.Context) {
	page, err := htmlFS.ReadFile("html/index.html")
	if err != nil {
		jsonError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Debugw("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

func jsonError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
