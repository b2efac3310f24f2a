package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	toggleLimiter := newRateLimiter(10, 20)

	// Post queries work with or without an identity
	s.echo.GET("/api/posts/:id", s.handleGetPost, s.optionalIdentity)

	// Mutations require a resolved identity
	s.echo.POST("/api/posts/:id/like", s.handleToggleLike, s.requireIdentity, toggleLimiter)
	s.echo.POST("/api/posts/:id/dislike", s.handleToggleDislike, s.requireIdentity, toggleLimiter)
	s.echo.POST("/api/posts", s.handleCreatePost, s.requireIdentity)

	// Registration hands out the identity in the first place
	s.echo.POST("/api/users", s.handleRegisterUser)

	// Live updates (no auth - subscribers only see aggregate counters)
	s.echo.GET("/ws/posts/:id", s.handleSubscribe)
}
