package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pscheid92/postpulse/internal/domain"
)

// ReactionRepo implements domain.ReactionRepository backed by PostgreSQL.
//
// The (post_id, user_id) primary key is the uniqueness guarantee; a racing
// duplicate insert surfaces as domain.ErrToggleConflict rather than being
// checked application-side first.
type ReactionRepo struct {
	db DBTX
}

func NewReactionRepo(db DBTX) *ReactionRepo {
	return &ReactionRepo{db: db}
}

// WithTx returns a copy of the repository bound to an open transaction.
func (r *ReactionRepo) WithTx(tx pgx.Tx) *ReactionRepo {
	return &ReactionRepo{db: tx}
}

func (r *ReactionRepo) GetKind(ctx context.Context, postID, userID uuid.UUID) (*domain.ReactionKind, error) {
	var kind domain.ReactionKind
	err := r.db.QueryRow(ctx,
		`SELECT kind FROM reactions WHERE post_id = $1 AND user_id = $2`,
		postID, userID).Scan(&kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reaction: %w", err)
	}
	return &kind, nil
}

func (r *ReactionRepo) Insert(ctx context.Context, postID, userID uuid.UUID, kind domain.ReactionKind) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO reactions (post_id, user_id, kind) VALUES ($1, $2, $3)`,
		postID, userID, kind)
	if isUniqueViolation(err) {
		return domain.ErrToggleConflict
	}
	if isForeignKeyViolation(err) {
		return domain.ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to insert reaction: %w", err)
	}
	return nil
}

// Delete removes the reaction only if it still has the kind the caller
// observed. Zero rows means a concurrent toggle got there first.
func (r *ReactionRepo) Delete(ctx context.Context, postID, userID uuid.UUID, kind domain.ReactionKind) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM reactions WHERE post_id = $1 AND user_id = $2 AND kind = $3`,
		postID, userID, kind)
	if err != nil {
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrToggleConflict
	}
	return nil
}

// SwitchKind flips the reaction from one kind to the other, guarded by the
// kind the caller observed.
func (r *ReactionRepo) SwitchKind(ctx context.Context, postID, userID uuid.UUID, from, to domain.ReactionKind) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE reactions
		SET kind = $1, updated_at = NOW()
		WHERE post_id = $2 AND user_id = $3 AND kind = $4`,
		to, postID, userID, from)
	if err != nil {
		return fmt.Errorf("failed to switch reaction kind: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrToggleConflict
	}
	return nil
}

// CountByKind reports how many reactions of a kind a post has. Used by tests
// to verify the counter invariant against the reaction rows.
func (r *ReactionRepo) CountByKind(ctx context.Context, postID uuid.UUID, kind domain.ReactionKind) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM reactions WHERE post_id = $1 AND kind = $2`,
		postID, kind).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reactions: %w", err)
	}
	return count, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
