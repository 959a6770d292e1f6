package broker

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

// EventPublisher notifies interested consumers about graph changes. The
// service treats publishing as best-effort; a failed publish never rolls
// back the edge write.
type EventPublisher interface {
	PublishFollow(actorID, targetID uint64) error
	PublishUnfollow(actorID, targetID uint64) error
	Close()
}

type eventBroker struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewEventBroker(url string) (*eventBroker, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create a channel: %v", err)
	}

	return &eventBroker{
		conn:    conn,
		channel: ch,
	}, nil
}

func (eb *eventBroker) PublishFollow(actorID, targetID uint64) error {
	return eb.publish(targetID, fmt.Sprintf("Follower: %d, Event: follow", actorID))
}

func (eb *eventBroker) PublishUnfollow(actorID, targetID uint64) error {
	return eb.publish(targetID, fmt.Sprintf("Follower: %d, Event: unfollow", actorID))
}

func (eb *eventBroker) publish(targetID uint64, body string) error {
	queueName := fmt.Sprintf("user_events_%d", targetID)
	_, err := eb.channel.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %v", err)
	}

	err = eb.channel.Publish(
		"",
		queueName,
		false,
		false,
		amqp091.Publishing{
			ContentType: "text/plain",
			Body:        []byte(body),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %v", err)
	}

	return nil
}

func (eb *eventBroker) Close() {
	eb.channel.Close()
	eb.conn.Close()
}

// NoopPublisher is used when no broker is configured, and in tests.
type NoopPublisher struct{}

func (NoopPublisher) PublishFollow(actorID, targetID uint64) error   { return nil }
func (NoopPublisher) PublishUnfollow(actorID, targetID uint64) error { return nil }
func (NoopPublisher) Close()                                         {}
