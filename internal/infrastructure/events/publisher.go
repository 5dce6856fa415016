package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sangkips/stockledger-api/internal/config"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Publisher sends ledger events after the records they describe are committed
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
	Close() error
}

// New returns a Kafka publisher when brokers are configured, otherwise a no-op
func New(cfg config.KafkaConfig, log *logrus.Logger) Publisher {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		log.Info("Kafka not configured, ledger events are disabled")
		return NoopPublisher{}
	}
	return NewKafkaPublisher(cfg.Brokers, cfg.Topic, log)
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, env Envelope) error { return nil }
func (NoopPublisher) Close() error                                     { return nil }

type KafkaPublisher struct {
	w   *kafka.Writer
	log *logrus.Logger
}

// NewKafkaPublisher writes asynchronously; delivery failures are logged from the completion hook
func NewKafkaPublisher(brokers []string, topic string, log *logrus.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
			Async:        true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					log.WithError(err).WithField("messages", len(messages)).Error("failed to deliver ledger events")
				}
			},
		},
		log: log,
	}
}

// Publish keys the message by correlation id so events for one record stay ordered
func (p *KafkaPublisher) Publish(ctx context.Context, env Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(env.CorrelationID),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
