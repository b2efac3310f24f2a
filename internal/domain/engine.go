package domain

import (
	"context"

	"github.com/google/uuid"
)

// ToggleResult is what a committed toggle returns: the post with its
// authoritative counters (read back inside the same transaction that wrote
// them) and the caller's resulting reaction, nil after an un-react.
type ToggleResult struct {
	Post           *Post
	ViewerReaction *ReactionKind
}

// ToggleEngine applies the three-way reaction transition for a (post, user)
// pair. The reaction mutation and the counter adjustment commit together or
// not at all; no intermediate state is ever observable.
type ToggleEngine interface {
	Toggle(ctx context.Context, postID, userID uuid.UUID, kind ReactionKind) (*ToggleResult, error)
}
