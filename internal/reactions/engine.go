package reactions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/postpulse/internal/database"
	"github.com/pscheid92/postpulse/internal/domain"
	"github.com/pscheid92/postpulse/internal/metrics"
	"github.com/pscheid92/postpulse/internal/retry"
)

const conflictRetryBackoff = 5 * time.Millisecond

// Engine implements domain.ToggleEngine on top of the PostgreSQL repositories.
//
// Concurrency control is optimistic: the reaction table's primary key rejects
// duplicate inserts, and delete/switch report zero rows when a concurrent
// toggle changed the row first. A detected conflict rolls back and the whole
// toggle is retried once against the new state.
type Engine struct {
	pool        *pgxpool.Pool
	posts       *database.PostRepo
	reactions   *database.ReactionRepo
	retryPolicy retry.Policy
}

var _ domain.ToggleEngine = (*Engine)(nil)

func NewEngine(pool *pgxpool.Pool) *Engine {
	return &Engine{
		pool:      pool,
		posts:     database.NewPostRepo(pool),
		reactions: database.NewReactionRepo(pool),
		retryPolicy: retry.Policy{
			MaxAttempts:    2,
			InitialBackoff: conflictRetryBackoff,
			OnRetry: func(attempt int, err error, backoff time.Duration) {
				metrics.ToggleConflictRetries.Inc()
				slog.Debug("Retrying toggle after conflict", "attempt", attempt, "error", err)
			},
		},
	}
}

// Toggle applies the three-way transition for (postID, userID). The reaction
// mutation and the counter adjustment commit together; the returned counters
// are read back inside the same transaction.
func (e *Engine) Toggle(ctx context.Context, postID, userID uuid.UUID, kind domain.ReactionKind) (*domain.ToggleResult, error) {
	if postID == uuid.Nil || userID == uuid.Nil || !kind.Valid() {
		return nil, domain.ErrInvalidReference
	}

	start := time.Now()
	defer func() { metrics.ToggleDuration.Observe(time.Since(start).Seconds()) }()

	result, err := retry.Do(ctx, e.retryPolicy, classifyToggleErr, func() (*domain.ToggleResult, error) {
		return e.toggleOnce(ctx, postID, userID, kind)
	})
	if err != nil {
		var perm *retry.PermanentError
		if errors.As(err, &perm) {
			return nil, perm.Err
		}
		return nil, err
	}
	return result, nil
}

func classifyToggleErr(err error) retry.Action {
	if errors.Is(err, domain.ErrToggleConflict) {
		return retry.Retry
	}
	return retry.Stop
}

func (e *Engine) toggleOnce(ctx context.Context, postID, userID uuid.UUID, kind domain.ReactionKind) (*domain.ToggleResult, error) {
	var result *domain.ToggleResult

	err := pgx.BeginFunc(ctx, e.pool, func(tx pgx.Tx) error {
		posts := e.posts.WithTx(tx)
		reactions := e.reactions.WithTx(tx)

		exists, err := posts.Exists(ctx, postID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrPostNotFound
		}

		existing, err := reactions.GetKind(ctx, postID, userID)
		if err != nil {
			return err
		}

		tr := transitionFor(existing, kind)

		switch tr.op {
		case opCreate:
			err = reactions.Insert(ctx, postID, userID, kind)
		case opRemove:
			err = reactions.Delete(ctx, postID, userID, kind)
		case opSwitch:
			err = reactions.SwitchKind(ctx, postID, userID, *existing, kind)
		}
		if err != nil {
			return err
		}

		post, err := posts.AdjustCounters(ctx, postID, tr.likeDelta, tr.dislikeDelta)
		if err != nil {
			return err
		}

		metrics.TogglesTotal.WithLabelValues(string(kind), string(tr.op)).Inc()
		result = &domain.ToggleResult{Post: post, ViewerReaction: tr.viewer}
		return nil
	})
	if err != nil {
		// Sentinels pass through untouched so callers can match on them.
		if errors.Is(err, domain.ErrPostNotFound) || errors.Is(err, domain.ErrToggleConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("toggle transaction failed: %w", err)
	}

	return result, nil
}
