package server

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/postpulse/internal/config"
	"github.com/pscheid92/postpulse/internal/domain"
	"github.com/pscheid92/postpulse/internal/identity"
	wshub "github.com/pscheid92/postpulse/internal/websocket"
)

// --- Mock implementations ---

type mockPostService struct {
	getPostFn        func(ctx context.Context, postID uuid.UUID, viewerID *uuid.UUID) (*domain.PostView, error)
	toggleReactionFn func(ctx context.Context, postID, userID uuid.UUID, kind domain.ReactionKind) (*domain.PostView, error)
	createPostFn     func(ctx context.Context, authorID uuid.UUID, content string) (*domain.Post, error)
}

func (m *mockPostService) GetPost(ctx context.Context, postID uuid.UUID, viewerID *uuid.UUID) (*domain.PostView, error) {
	if m.getPostFn != nil {
		return m.getPostFn(ctx, postID, viewerID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockPostService) ToggleReaction(ctx context.Context, postID, userID uuid.UUID, kind domain.ReactionKind) (*domain.PostView, error) {
	if m.toggleReactionFn != nil {
		return m.toggleReactionFn(ctx, postID, userID, kind)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockPostService) CreatePost(ctx context.Context, authorID uuid.UUID, content string) (*domain.Post, error) {
	if m.createPostFn != nil {
		return m.createPostFn(ctx, authorID, content)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockUserService struct {
	getUserByIDFn  func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	registerUserFn func(ctx context.Context, username string) (*domain.User, error)
}

func (m *mockUserService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserService) RegisterUser(ctx context.Context, username string) (*domain.User, error) {
	if m.registerUserFn != nil {
		return m.registerUserFn(ctx, username)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockHealthChecker struct {
	pingErr error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error {
	return m.pingErr
}

// --- Test server construction ---

const testJWTSecret = "test-secret-at-least-16-chars"

type serverOption func(*Server)

func withPostgresHealthCheck(hc postgresHealthChecker) serverOption {
	return func(s *Server) { s.db = hc }
}

func withRedisHealthCheck(hc redisHealthChecker) serverOption {
	return func(s *Server) { s.redis = hc }
}

func newTestServer(t *testing.T, posts domain.PostService, users domain.UserService, opts ...serverOption) *Server {
	t.Helper()

	cfg := &config.Config{
		AppEnv:            "test",
		Port:              "0",
		JWTSecret:         testJWTSecret,
		MaxClientsPerPost: 10,
	}

	resolver := identity.NewResolver(cfg.JWTSecret, clockwork.NewRealClock())
	hub := wshub.NewHub(nil, nil, cfg.MaxClientsPerPost)
	t.Cleanup(hub.Stop)

	srv := NewServer(cfg, posts, users, resolver, hub, &mockHealthChecker{}, &mockHealthChecker{})
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// testPostView builds a post view with the given counters.
func testPostView(postID uuid.UUID, likes, dislikes int, viewer *domain.ReactionKind) *domain.PostView {
	return &domain.PostView{
		Post: &domain.Post{
			ID:           postID,
			AuthorID:     uuid.New(),
			Content:      "test content",
			LikeCount:    likes,
			DislikeCount: dislikes,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		},
		ViewerReaction: viewer,
	}
}
