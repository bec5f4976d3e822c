// Package kafka delivers task lifecycle events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/crazyimage/task-system/internal/core/domain"
)

// Config captures the writer settings.
type Config struct {
	Brokers []string
	Topic   string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements ports.TaskEventSink. Messages are keyed by
// task.<type>.<task_id> and partitioned by task id so that one task's
// events stay on one partition.
type Publisher struct {
	writer messageWriter
	log    zerolog.Logger
}

func NewPublisher(cfg Config, log zerolog.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           50 * time.Millisecond,
		},
		log: log,
	}
}

func (p *Publisher) Publish(ctx context.Context, event domain.TaskEvent) error {
	msg, err := buildMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	p.log.Debug().Str("key", string(msg.Key)).Msg("task event published")
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func buildMessage(event domain.TaskEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode task event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(fmt.Sprintf("task.%s.%d", event.Type, event.TaskID)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "task_id", Value: []byte(strconv.FormatInt(event.TaskID, 10))},
		},
	}, nil
}

// LogSink implements ports.TaskEventSink by writing each event to the log.
// It stands in for Kafka when no brokers are configured.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Publish(_ context.Context, event domain.TaskEvent) error {
	s.log.Info().
		Str("type", string(event.Type)).
		Int64("task_id", event.TaskID).
		Int64("user_id", event.UserID).
		Str("status", event.Status).
		Time("occurred_at", event.OccurredAt).
		Msg("task event")
	return nil
}
