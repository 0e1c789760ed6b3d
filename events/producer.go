// Package events fans placed orders out to Kafka and to live admin dashboards.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const publishTimeout = 10 * time.Second

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducer struct {
	writer  MessageWriter
	brokers []string
	logger  *zap.Logger
}

// NewPublisher returns a Kafka producer for the comma separated brokers, or a
// NoopPublisher when brokers is empty.
func NewPublisher(brokers, topic string, logger *zap.Logger) Publisher {
	addrs := splitBrokers(brokers)
	if len(addrs) == 0 {
		logger.Info("No Kafka brokers configured, order events disabled")
		return NoopPublisher{}
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return NewKafkaProducer(writer, addrs, logger)
}

func NewKafkaProducer(writer MessageWriter, brokers []string, logger *zap.Logger) *KafkaProducer {
	return &KafkaProducer{writer: writer, brokers: brokers, logger: logger}
}

func (p *KafkaProducer) PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal order event", zap.Error(err))
		return err
	}

	msg := kafka.Message{
		Key:   []byte("ORDER#" + event.OrderNumber),
		Value: eventBytes,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.placed")},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish order event",
			zap.String("event_id", event.EventID),
			zap.String("order_number", event.OrderNumber),
			zap.Error(err))
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.Info("Order event published",
		zap.String("event_id", event.EventID),
		zap.String("order_number", event.OrderNumber))
	return nil
}

// HealthCheck dials the first reachable broker.
func (p *KafkaProducer) HealthCheck(ctx context.Context) error {
	var errs []error
	for _, broker := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return conn.Close()
	}
	return fmt.Errorf("no kafka broker reachable: %w", errors.Join(errs...))
}

func (p *KafkaProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
