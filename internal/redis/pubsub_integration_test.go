package redis

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/postpulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redis"
)

var testRedisURL string

func TestMain(m *testing.M) {
	// Parse flags to check for -short
	flag.Parse()

	// Skip container setup if running in short mode
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	redisContainer, err := redis.Run(ctx, "redis:7-alpine")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start redis container: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			fmt.Fprintf(os.Stderr, "failed to terminate redis container: %v\n", err)
		}
	}()

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get redis endpoint: %v\n", err)
		os.Exit(1)
	}
	testRedisURL = "redis://" + endpoint

	os.Exit(m.Run())
}

func setupTestClient(t *testing.T) *Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client, err := NewClient(context.Background(), testRedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestClient_Ping(t *testing.T) {
	client := setupTestClient(t)
	require.NoError(t, client.Ping(context.Background()))
}

func TestNewClient_InvalidURL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	_, err := NewClient(context.Background(), "not-a-redis-url")
	assert.Error(t, err)
}

func TestPubSub_RoundTrip(t *testing.T) {
	client := setupTestClient(t)
	pubsub := NewPubSub(client)
	ctx := context.Background()

	postID := uuid.New()
	sub := pubsub.SubscribePost(ctx, postID)
	defer sub.Close()

	// Give the subscription a moment to be established server-side
	time.Sleep(100 * time.Millisecond)

	update := domain.PostUpdate{PostID: postID, LikeCount: 3, DislikeCount: 1}
	require.NoError(t, pubsub.PublishPostUpdated(ctx, update))

	select {
	case received := <-sub.Ch:
		assert.Equal(t, update, received)
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive published update")
	}
}

func TestPubSub_ChannelsAreIsolatedPerPost(t *testing.T) {
	client := setupTestClient(t)
	pubsub := NewPubSub(client)
	ctx := context.Background()

	postA := uuid.New()
	postB := uuid.New()

	subA := pubsub.SubscribePost(ctx, postA)
	defer subA.Close()
	subB := pubsub.SubscribePost(ctx, postB)
	defer subB.Close()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, pubsub.PublishPostUpdated(ctx, domain.PostUpdate{PostID: postA, LikeCount: 1}))

	select {
	case received := <-subA.Ch:
		assert.Equal(t, postA, received.PostID)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber A did not receive update")
	}

	select {
	case received := <-subB.Ch:
		t.Fatalf("subscriber B received update for wrong post: %v", received)
	case <-time.After(200 * time.Millisecond):
		// expected: nothing for post B
	}
}

func TestSubscription_CloseStopsDelivery(t *testing.T) {
	client := setupTestClient(t)
	pubsub := NewPubSub(client)
	ctx := context.Background()

	postID := uuid.New()
	sub := pubsub.SubscribePost(ctx, postID)

	time.Sleep(100 * time.Millisecond)
	sub.Close()

	// The update channel drains and closes
	select {
	case _, ok := <-sub.Ch:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("channel was not closed after Close")
	}
}
