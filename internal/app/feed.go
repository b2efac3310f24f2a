package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/pscheid92/postpulse/internal/redis"
	"golang.org/x/sync/singleflight"
)

// PostFeed bridges Redis Pub/Sub into the local WebSocket hub. One Redis
// subscription exists per post with at least one local subscriber; racing
// first-connects are collapsed with singleflight.
type PostFeed struct {
	pubsub    *redis.PubSub
	broadcast func(postID uuid.UUID, data []byte)

	group singleflight.Group

	mu   sync.Mutex
	subs map[uuid.UUID]*redis.Subscription
}

func NewPostFeed(pubsub *redis.PubSub, broadcast func(postID uuid.UUID, data []byte)) *PostFeed {
	return &PostFeed{
		pubsub:    pubsub,
		broadcast: broadcast,
		subs:      make(map[uuid.UUID]*redis.Subscription),
	}
}

// Activate opens the Redis subscription for a post and starts pumping its
// updates into the hub. Safe to call concurrently; only one subscription is
// opened per post.
func (f *PostFeed) Activate(postID uuid.UUID) error {
	_, err, _ := f.group.Do(postID.String(), func() (any, error) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if _, exists := f.subs[postID]; exists {
			return nil, nil
		}

		sub := f.pubsub.SubscribePost(context.Background(), postID)
		f.subs[postID] = sub

		go f.pump(postID, sub)
		return nil, nil
	})
	return err
}

func (f *PostFeed) pump(postID uuid.UUID, sub *redis.Subscription) {
	for update := range sub.Ch {
		data, err := json.Marshal(update)
		if err != nil {
			slog.Error("Failed to marshal post update", "post_id", postID.String(), "error", err)
			continue
		}
		f.broadcast(postID, data)
	}
}

// Deactivate closes the Redis subscription for a post. Called when the last
// local subscriber disconnects.
func (f *PostFeed) Deactivate(postID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sub, exists := f.subs[postID]; exists {
		sub.Close()
		delete(f.subs, postID)
	}
}

// Stop closes all open subscriptions.
func (f *PostFeed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for postID, sub := range f.subs {
		sub.Close()
		delete(f.subs, postID)
	}
}
