package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pscheid92/postpulse/internal/config"
	"github.com/pscheid92/postpulse/internal/domain"
	apperrors "github.com/pscheid92/postpulse/internal/errors"
	"github.com/pscheid92/postpulse/internal/identity"
	wshub "github.com/pscheid92/postpulse/internal/websocket"
)

// registrationTokenTTL is the lifetime of the token handed out on user registration.
const registrationTokenTTL = 7 * 24 * time.Hour

// redisHealthChecker is a minimal interface for Redis health checks.
type redisHealthChecker interface {
	Ping(ctx context.Context) error
}

// postgresHealthChecker is a minimal interface for PostgreSQL health checks.
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	posts     domain.PostService
	users     domain.UserService
	resolver  *identity.Resolver
	hub       *wshub.Hub
	db        postgresHealthChecker
	redis     redisHealthChecker
	startTime time.Time
}

func NewServer(cfg *config.Config, posts domain.PostService, users domain.UserService, resolver *identity.Resolver, hub *wshub.Hub, db postgresHealthChecker, redis redisHealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("Request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		posts:     posts,
		users:     users,
		resolver:  resolver,
		hub:       hub,
		db:        db,
		redis:     redis,
		startTime: time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// parsePostID extracts and validates the :id path parameter.
func parsePostID(c echo.Context) (uuid.UUID, error) {
	idStr := c.Param("id")
	postID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, apperrors.ValidationError("invalid post id").WithField("id", idStr)
	}
	return postID, nil
}
