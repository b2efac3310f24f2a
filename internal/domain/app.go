package domain

import (
	"context"

	"github.com/google/uuid"
)

// PostService is the application-layer surface the HTTP server talks to.
type PostService interface {
	GetPost(ctx context.Context, postID uuid.UUID, viewerID *uuid.UUID) (*PostView, error)
	ToggleReaction(ctx context.Context, postID, userID uuid.UUID, kind ReactionKind) (*PostView, error)
	CreatePost(ctx context.Context, authorID uuid.UUID, content string) (*Post, error)
}

// UserService handles user lookup and registration.
type UserService interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*User, error)
	RegisterUser(ctx context.Context, username string) (*User, error)
}
