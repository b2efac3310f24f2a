package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pscheid92/postpulse/internal/domain"
	"github.com/pscheid92/postpulse/internal/metrics"
)

const maxContentLength = 4000

// Service orchestrates the post/reaction use cases.
type Service struct {
	posts     domain.PostRepository
	users     domain.UserRepository
	reactions domain.ReactionRepository
	engine    domain.ToggleEngine
	publisher domain.EventPublisher
}

var (
	_ domain.PostService = (*Service)(nil)
	_ domain.UserService = (*Service)(nil)
)

func NewService(posts domain.PostRepository, users domain.UserRepository, reactions domain.ReactionRepository, engine domain.ToggleEngine, publisher domain.EventPublisher) *Service {
	return &Service{
		posts:     posts,
		users:     users,
		reactions: reactions,
		engine:    engine,
		publisher: publisher,
	}
}

// GetPost returns the post view for an optional viewer. With no viewer the
// reaction field stays nil regardless of any stored reaction.
func (s *Service) GetPost(ctx context.Context, postID uuid.UUID, viewerID *uuid.UUID) (*domain.PostView, error) {
	if postID == uuid.Nil {
		return nil, domain.ErrInvalidReference
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	view := &domain.PostView{Post: post}
	if viewerID != nil && *viewerID != uuid.Nil {
		kind, err := s.reactions.GetKind(ctx, postID, *viewerID)
		if err != nil {
			return nil, err
		}
		view.ViewerReaction = kind
	}
	return view, nil
}

// ToggleReaction runs the toggle and, on success, publishes the new counters.
// The publish is fire-and-forget: a failure is logged and counted, never
// propagated to the caller - the toggle has already committed.
func (s *Service) ToggleReaction(ctx context.Context, postID, userID uuid.UUID, kind domain.ReactionKind) (*domain.PostView, error) {
	result, err := s.engine.Toggle(ctx, postID, userID, kind)
	if err != nil {
		return nil, err
	}

	update := domain.PostUpdate{
		PostID:       result.Post.ID,
		LikeCount:    result.Post.LikeCount,
		DislikeCount: result.Post.DislikeCount,
	}
	if err := s.publisher.PublishPostUpdated(context.WithoutCancel(ctx), update); err != nil {
		metrics.PublishFailuresTotal.Inc()
		slog.Warn("Failed to publish post update", "post_id", postID.String(), "error", err)
	}

	return &domain.PostView{Post: result.Post, ViewerReaction: result.ViewerReaction}, nil
}

// CreatePost stores a new post with zeroed counters.
func (s *Service) CreatePost(ctx context.Context, authorID uuid.UUID, content string) (*domain.Post, error) {
	content = strings.TrimSpace(content)
	if authorID == uuid.Nil || content == "" || len(content) > maxContentLength {
		return nil, domain.ErrInvalidReference
	}
	return s.posts.Create(ctx, authorID, content)
}

// GetUserByID retrieves a user by id.
func (s *Service) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// RegisterUser creates a user with a unique username.
func (s *Service) RegisterUser(ctx context.Context, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > 64 {
		return nil, domain.ErrInvalidReference
	}
	return s.users.Create(ctx, username)
}
