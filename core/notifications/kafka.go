package notifications

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"

	"github.com/relabs-tech/jobly/core"
	"github.com/relabs-tech/jobly/core/logger"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes notifications to a Kafka topic. Messages are keyed by resource and key,
// so all notifications for one entity end up in the same partition.
type Kafka struct {
	writer messageWriter
}

// NewKafka returns a Kafka notifier writing to topic on brokers
func NewKafka(brokers []string, topic string) *Kafka {
	logger.Default().Infoln("kafka notifications to", topic, "on", brokers)
	return &Kafka{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

// Notify implements core.Notifier
func (k *Kafka) Notify(ctx context.Context, notification core.Notification) error {
	value, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(notification.Resource + "/" + notification.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "operation", Value: []byte(notification.Operation)},
		},
	})
}

// Close flushes pending messages and closes the writer
func (k *Kafka) Close() error {
	return k.writer.Close()
}
