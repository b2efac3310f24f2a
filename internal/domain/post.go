package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID           uuid.UUID `db:"id"`
	AuthorID     uuid.UUID `db:"author_id"`
	Content      string    `db:"content"`
	LikeCount    int       `db:"like_count"`
	DislikeCount int       `db:"dislike_count"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// PostView is a post as seen by a specific caller. ViewerReaction is nil when
// the caller has no reaction on the post or no identity was supplied.
type PostView struct {
	Post           *Post
	ViewerReaction *ReactionKind
}

// PostUpdate is the payload broadcast to subscribers after a committed toggle.
type PostUpdate struct {
	PostID       uuid.UUID `json:"postId"`
	LikeCount    int       `json:"likeCount"`
	DislikeCount int       `json:"dislikeCount"`
}

// PostRepository abstracts post persistence. Counters are only ever written
// through AdjustCounters; no read-modify-write path exists.
type PostRepository interface {
	GetByID(ctx context.Context, postID uuid.UUID) (*Post, error)
	Exists(ctx context.Context, postID uuid.UUID) (bool, error)
	Create(ctx context.Context, authorID uuid.UUID, content string) (*Post, error)
	AdjustCounters(ctx context.Context, postID uuid.UUID, likeDelta, dislikeDelta int) (*Post, error)
}
