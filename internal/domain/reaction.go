package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReactionKind is the kind of a reaction. Like and dislike are mutually
// exclusive per (post, user).
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Valid reports whether k is a known reaction kind.
func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// Wire returns the uppercase representation used in API responses.
func (k ReactionKind) Wire() string {
	switch k {
	case ReactionLike:
		return "LIKE"
	case ReactionDislike:
		return "DISLIKE"
	default:
		return ""
	}
}

// Reaction identity is the (PostID, UserID) pair; the storage layer enforces
// at most one row per pair.
type Reaction struct {
	PostID    uuid.UUID    `db:"post_id"`
	UserID    uuid.UUID    `db:"user_id"`
	Kind      ReactionKind `db:"kind"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

// ReactionRepository abstracts reaction persistence.
//
// Delete and SwitchKind take the kind the caller observed so that a racing
// toggle which already changed the row surfaces as ErrToggleConflict instead
// of being double-applied.
type ReactionRepository interface {
	GetKind(ctx context.Context, postID, userID uuid.UUID) (*ReactionKind, error)
	Insert(ctx context.Context, postID, userID uuid.UUID, kind ReactionKind) error
	Delete(ctx context.Context, postID, userID uuid.UUID, kind ReactionKind) error
	SwitchKind(ctx context.Context, postID, userID uuid.UUID, from, to ReactionKind) error
}
