// internal/events/kafka.go
package events

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each event keyed by batch number, so all events for
// one batch land on the same partition in order.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	logrus.WithFields(logrus.Fields{
		"brokers": strings.Join(brokers, ","),
		"topic":   topic,
	}).Info("Kafka producer configured")
	return newKafkaPublisher(writer)
}

func newKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w, timeout: publishTimeout}
}

func (p *KafkaPublisher) Publish(_ context.Context, event Event) {
	value, err := event.Marshal()
	if err != nil {
		logrus.WithError(err).WithField("type", event.Type).Error("Failed to encode event")
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		// Detached from the request context, which ends with the response.
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		err := p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(event.BatchNumber),
			Value: value,
			Headers: []kafka.Header{
				{Key: "event-type", Value: []byte(event.Type)},
			},
		})
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"type":         event.Type,
				"batch_number": event.BatchNumber,
			}).Warn("Failed to publish event to Kafka")
		}
	}()
}

// Close waits for in-flight writes and closes the writer.
func (p *KafkaPublisher) Close() error {
	p.wg.Wait()
	return p.writer.Close()
}
