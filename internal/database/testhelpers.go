package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/postpulse/internal/domain"
	"github.com/stretchr/testify/require"
)

// CreateTestUser creates a user with a unique username for testing.
func CreateTestUser(t *testing.T, pool *pgxpool.Pool) *domain.User {
	t.Helper()

	repo := NewUserRepo(pool)
	user, err := repo.Create(context.Background(), "testuser_"+uuid.NewString()[:8])
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)

	return user
}

// CreateTestPost creates a post owned by author for testing.
func CreateTestPost(t *testing.T, pool *pgxpool.Pool, author *domain.User, content string) *domain.Post {
	t.Helper()

	repo := NewPostRepo(pool)
	post, err := repo.Create(context.Background(), author.ID, content)
	require.NoError(t, err)
	require.Equal(t, 0, post.LikeCount)
	require.Equal(t, 0, post.DislikeCount)

	return post
}
