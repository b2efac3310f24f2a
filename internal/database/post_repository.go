package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pscheid92/postpulse/internal/domain"
)

// postColumns must match the Scan order in scanPost.
const postColumns = `id, author_id, content, like_count, dislike_count, created_at, updated_at`

// PostRepo implements domain.PostRepository backed by PostgreSQL.
type PostRepo struct {
	db DBTX
}

func NewPostRepo(db DBTX) *PostRepo {
	return &PostRepo{db: db}
}

// WithTx returns a copy of the repository bound to an open transaction.
func (r *PostRepo) WithTx(tx pgx.Tx) *PostRepo {
	return &PostRepo{db: tx}
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(
		&p.ID, &p.AuthorID, &p.Content, &p.LikeCount, &p.DislikeCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) GetByID(ctx context.Context, postID uuid.UUID) (*domain.Post, error) {
	row := r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, postID)

	post, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func (r *PostRepo) Exists(ctx context.Context, postID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check post existence: %w", err)
	}
	return exists, nil
}

func (r *PostRepo) Create(ctx context.Context, authorID uuid.UUID, content string) (*domain.Post, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO posts (author_id, content)
		VALUES ($1, $2)
		RETURNING `+postColumns,
		authorID, content)

	post, err := scanPost(row)
	if isForeignKeyViolation(err) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// AdjustCounters applies signed deltas to both counters in a single statement
// and returns the post as written. Counters are never read-modify-written.
func (r *PostRepo) AdjustCounters(ctx context.Context, postID uuid.UUID, likeDelta, dislikeDelta int) (*domain.Post, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE posts
		SET like_count = like_count + $1, dislike_count = dislike_count + $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+postColumns,
		likeDelta, dislikeDelta, postID)

	post, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to adjust counters: %w", err)
	}
	return post, nil
}
