package port

import "context"

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey string, msg []byte) error
}
