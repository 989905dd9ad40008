package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ticketing/internal/log"
)

// Server wraps an echo instance with the middleware and endpoints every
// service carries: request logging, error mapping, /health and /metrics.
type Server struct {
	e    *echo.Echo
	addr string
}

func newServer(addr string, healthy func() bool) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(loggingMiddleware)

	e.GET("/health", func(c echo.Context) error {
		if healthy != nil && !healthy() {
			return c.String(http.StatusServiceUnavailable, "not ready")
		}
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return &Server{e: e, addr: addr}
}

func loggingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log.FromContext(c.Request().Context()).
			WithField("method", c.Request().Method).
			WithField("path", c.Request().URL.Path).
			Info("Handling a request")

		err := next(c)
		if err != nil {
			log.FromContext(c.Request().Context()).
				WithField("path", c.Request().URL.Path).
				WithError(err).
				Error("Request handling error")
		}

		return err
	}
}

func (s *Server) Start() error {
	err := s.e.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
