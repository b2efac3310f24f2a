package domain

import (
	"context"
)

// EventPublisher publishes domain events to infrastructure. Delivery is
// best-effort: a publish failure never fails the toggle that produced it.
type EventPublisher interface {
	PublishPostUpdated(ctx context.Context, update PostUpdate) error
}
