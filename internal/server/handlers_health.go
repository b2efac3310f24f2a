package server

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

func (s *Server) handleLiveness(c echo.Context) error {
	if err := c.JSON(200, map[string]string{
		"status": "alive",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	checks := map[string]string{
		"postgres": "ok",
		"redis":    "ok",
	}
	healthy := true

	if err := s.db.Ping(ctx); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	}
	if err := s.redis.Ping(ctx); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}

	status := 200
	if !healthy {
		status = 503
	}
	if err := c.JSON(status, checks); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
