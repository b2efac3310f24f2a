package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pscheid92/postpulse/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

func postChannel(postID uuid.UUID) string {
	return "post:" + postID.String()
}

// PubSub provides cross-instance broadcast of post updates via Redis Pub/Sub.
// Channels are keyed by post id, so subscribers only ever receive updates for
// the post they subscribed to.
type PubSub struct {
	rdb *goredis.Client
}

var _ domain.EventPublisher = (*PubSub)(nil)

// NewPubSub creates a new PubSub instance.
func NewPubSub(client *Client) *PubSub {
	return &PubSub{rdb: client.rdb}
}

// PublishPostUpdated publishes the post's new counters to its channel.
func (ps *PubSub) PublishPostUpdated(ctx context.Context, update domain.PostUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal post update: %w", err)
	}
	return ps.rdb.Publish(ctx, postChannel(update.PostID), data).Err()
}

// Subscription represents an active Pub/Sub subscription for a post.
type Subscription struct {
	sub    *goredis.PubSub
	Ch     <-chan domain.PostUpdate
	cancel context.CancelFunc
}

// Close unsubscribes and closes the subscription.
func (s *Subscription) Close() {
	s.cancel()
	_ = s.sub.Close()
}

// SubscribePost subscribes to update events for a post. Returns a
// Subscription with a channel that receives updates; call Close when done.
func (ps *PubSub) SubscribePost(ctx context.Context, postID uuid.UUID) *Subscription {
	sub := ps.rdb.Subscribe(ctx, postChannel(postID))

	subCtx, cancel := context.WithCancel(ctx)
	ch := make(chan domain.PostUpdate, 16)

	go func() {
		defer close(ch)
		msgCh := sub.Channel()
		for {
			select {
			case msg, ok := <-msgCh:
				if !ok {
					return
				}
				var update domain.PostUpdate
				if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
					slog.Warn("Failed to unmarshal pubsub message", "error", err)
					continue
				}
				select {
				case ch <- update:
				default:
					// Drop if receiver is slow
				}
			case <-subCtx.Done():
				return
			}
		}
	}()

	return &Subscription{
		sub:    sub,
		Ch:     ch,
		cancel: cancel,
	}
}
