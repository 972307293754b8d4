package authsvc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/segmentio/kafka-go"
)

// RegistrationTopic is the topic registration events are published to.
const RegistrationTopic = "user-registration"

// RegistrationEvent is the payload published when a new account is created.
type RegistrationEvent struct {
	EventType string `json:"event_type"`
	Email     string `json:"email"`
	Timestamp string `json:"timestamp"`
}

// KafkaPublisher writes registration events to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger Logger
	now    func() time.Time
}

var _ EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher builds the publisher. brokers must be non-empty; call
// Close on shutdown.
func NewKafkaPublisher(brokers []string, opts ...PublisherOption) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher requires at least one broker", errors.CategoryBadInput)
	}

	p := &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        RegistrationTopic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
		},
		logger: defLogger{},
		now:    time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p, nil
}

// PublisherOption customizes the publisher.
type PublisherOption func(*KafkaPublisher)

// WithPublisherLogger overrides the publisher logger.
func WithPublisherLogger(logger Logger) PublisherOption {
	return func(p *KafkaPublisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPublisherClock injects a custom clock (useful for tests).
func WithPublisherClock(clock func() time.Time) PublisherOption {
	return func(p *KafkaPublisher) {
		if clock != nil {
			p.now = clock
		}
	}
}

// PublishUserRegistered emits the user-registered event. A short timeout
// keeps a slow broker from blocking the registration response.
func (p *KafkaPublisher) PublishUserRegistered(ctx context.Context, email string) error {
	payload, err := json.Marshal(RegistrationEvent{
		EventType: "user-registered",
		Email:     email,
		Timestamp: p.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to encode registration event")
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(email),
		Value: payload,
	}); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to publish registration event")
	}

	p.logger.Info("registration event published", "email", email, "topic", RegistrationTopic)
	return nil
}

// Close flushes and releases the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events; used when no broker is configured.
type NoopPublisher struct{}

var _ EventPublisher = NoopPublisher{}

func (NoopPublisher) PublishUserRegistered(context.Context, string) error { return nil }
func (NoopPublisher) Close() error                                        { return nil }
