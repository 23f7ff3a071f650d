// Package web serves the beamtime page and its JSON API with echo.
//
// Routes live under /api/v1; "/" redirects there with the query string
// intact so bookmarked filters keep working.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jpl-au/beamtime/internal/service"
)

// APIRoot is the prefix of every API route.
const APIRoot = "/api/v1"

// Options configures a Server.
type Options struct {
	LogLevel        string        // debug, info, warn, error, off
	Timeout         time.Duration // per-request timeout; 0 disables
	GracefulTimeout time.Duration // drain time on shutdown
}

// Server is the HTTP front end over a service.Service.
type Server struct {
	svc  service.Service
	opts Options
	e    *echo.Echo
}

// New builds the echo instance with middleware and routes.
func New(svc service.Service, opts Options) (*Server, error) {
	page, err := parsePage()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = page

	SetLevel(e, opts.LogLevel)
	e.HTTPErrorHandler = errorHandler(e)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: newRequestID}))
	e.Use(LogHandlerFunc)
	if opts.Timeout > 0 {
		e.Use(middleware.ContextTimeout(opts.Timeout))
	}

	e.GET("/", redirectHandler)
	e.GET("/healthz", healthHandler)

	api := e.Group(APIRoot)
	api.GET("/", HomeHandler(svc))
	api.GET("/get_acknowledgments", AcknowledgmentsHandler(svc))
	api.GET("/get_data_path", DataPathHandler(svc))
	api.POST("/create_update_queue", QueueHandler(svc))
	api.POST("/validate_data_path", ValidatePathHandler(svc))

	return &Server{svc: svc, opts: opts, e: e}, nil
}

// Handler returns the server as an http.Handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Echo exposes the echo instance so callers can add routes or shut down.
func (s *Server) Echo() *echo.Echo {
	return s.e
}

// Run listens on bind until ctx is cancelled, then drains in-flight
// requests for GracefulTimeout.
func (s *Server) Run(ctx context.Context, bind string) error {
	errc := make(chan error, 1)
	go func() {
		s.e.Logger.Infof("beamtime listening on %s", bind)
		if err := s.e.Start(bind); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen %s: %w", bind, err)
		}
		return nil
	case <-ctx.Done():
	}

	graceful := s.opts.GracefulTimeout
	if graceful <= 0 {
		graceful = 30 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), graceful)
	defer cancel()
	if err := s.e.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
