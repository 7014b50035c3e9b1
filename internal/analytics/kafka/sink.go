// Package kafka publishes completed step events to a Kafka topic so
// downstream reporting can consume them without reading the database.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/analytics/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/circuit"
)

const (
	DefaultTopic = "onboarding.step-analytics"

	headerEventType = "event_type"
	breakerName     = "kafka-analytics"
	eventType       = "step_completed"
)

// ErrCircuitOpen is returned while the broker is considered down.
var ErrCircuitOpen = errors.New("kafka analytics sink circuit open")

// Sink produces one record per step event, keyed by case id so a case's
// events stay ordered within a partition.
type Sink struct {
	client  *kgo.Client
	topic   string
	logger  *slog.Logger
	breaker *circuit.Breaker
}

type Option func(*Sink)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBreaker replaces the default breaker guarding produce calls.
func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Sink) {
		if b != nil {
			s.breaker = b
		}
	}
}

func NewSink(brokers []string, topic string, opts ...Option) (*Sink, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(50*time.Millisecond),
		kgo.RecordRetries(5),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	s := &Sink{
		client:  client,
		topic:   topic,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		breaker: circuit.New(breakerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// EnsureTopic creates the topic unless it already exists.
func (s *Sink) EnsureTopic(ctx context.Context, partitions int32, replication int16) error {
	adm := kadm.NewClient(s.client)
	_, err := adm.CreateTopic(ctx, partitions, replication, nil, s.topic)
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", s.topic, err)
	}
	s.logger.InfoContext(ctx, "analytics topic ready", "topic", s.topic)
	return nil
}

// Append produces event synchronously. While the breaker is open calls fail
// fast with ErrCircuitOpen, except for one probe per cooldown.
func (s *Sink) Append(ctx context.Context, event models.StepEvent) error {
	record, err := encode(s.topic, event)
	if err != nil {
		return err
	}
	if !s.breaker.Allow(time.Now()) {
		return ErrCircuitOpen
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		if _, change := s.breaker.RecordFailure(); change.Opened {
			s.logger.WarnContext(ctx, "analytics sink circuit opened", "topic", s.topic, "error", err)
		}
		return fmt.Errorf("produce step event: %w", err)
	}
	if _, change := s.breaker.RecordSuccess(); change.Closed {
		s.logger.InfoContext(ctx, "analytics sink circuit closed", "topic", s.topic)
	}
	return nil
}

func (s *Sink) Close() {
	s.client.Close()
}

func encode(topic string, event models.StepEvent) (*kgo.Record, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode step event: %w", err)
	}
	return &kgo.Record{
		Topic: topic,
		Key:   []byte(event.CaseID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: headerEventType, Value: []byte(eventType)},
		},
	}, nil
}
