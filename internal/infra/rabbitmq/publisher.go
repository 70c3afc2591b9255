package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fuad00/rtspshot/internal/domain/entity"
	"github.com/fuad00/rtspshot/internal/domain/port"
	amqp "github.com/rabbitmq/amqp091-go"
)

const routingKeyPrefix = "snapshot."

// Publisher publishes JSON messages to a topic exchange. amqp channels are
// not safe for concurrent publishing, so calls are serialized.
type Publisher struct {
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(conn *amqp.Connection, exchange string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open publisher channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{channel: ch, exchange: exchange}, nil
}

func (p *Publisher) PublishEvent(ctx context.Context, routingKey string, msg []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         msg,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		},
	)
}

func (p *Publisher) Close() error {
	return p.channel.Close()
}

// OutcomePublisher announces every capture outcome as a CaptureEvent routed
// by outcome kind, e.g. "snapshot.success".
type OutcomePublisher struct {
	pub port.EventPublisher
	now func() time.Time
}

func NewOutcomePublisher(pub port.EventPublisher) *OutcomePublisher {
	return &OutcomePublisher{pub: pub, now: time.Now}
}

func (op *OutcomePublisher) Name() string { return "rabbitmq" }

func (op *OutcomePublisher) Handle(ctx context.Context, outcome entity.CaptureOutcome) error {
	data, err := json.Marshal(entity.NewCaptureEvent(outcome, op.now()))
	if err != nil {
		return fmt.Errorf("marshal capture event: %w", err)
	}
	if err := op.pub.PublishEvent(ctx, RoutingKey(outcome.Kind), data); err != nil {
		return fmt.Errorf("publish capture event: %w", err)
	}
	return nil
}

func RoutingKey(kind entity.OutcomeKind) string {
	return routingKeyPrefix + string(kind)
}
