package ports

import (
	"context"

	"tweetbloom/domain/events"
)

// EventPublisher delivers domain events to interested consumers
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}
