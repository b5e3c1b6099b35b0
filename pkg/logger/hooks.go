package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// KafkaHook ships log entries to a Kafka topic. Entries carrying a run_date
// field are keyed by it so one day's logs land on one partition.
type KafkaHook struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaHook returns a hook sending entries to topic through producer.
func NewKafkaHook(producer sarama.SyncProducer, topic string) *KafkaHook {
	return &KafkaHook{producer: producer, topic: topic}
}

func (h *KafkaHook) Fire(e *logrus.Entry) error {
	b, err := e.Logger.Formatter.Format(e)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: h.topic,
		Value: sarama.ByteEncoder(b),
		Headers: []sarama.RecordHeader{
			{Key: []byte("level"), Value: []byte(e.Level.String())},
		},
	}
	if d, ok := e.Data["run_date"]; ok {
		msg.Key = sarama.StringEncoder(fmt.Sprint(d))
	}
	_, _, err = h.producer.SendMessage(msg)
	return err
}

func (h *KafkaHook) Levels() []logrus.Level { return logrus.AllLevels }

// Publisher is the part of *amqp.Channel the RabbitMQ hook uses.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQHook publishes log entries to a durable RabbitMQ queue.
type RabbitMQHook struct {
	pub     Publisher
	queue   string
	timeout time.Duration
}

// NewRabbitMQHook returns a hook publishing to queue through the default
// exchange.
func NewRabbitMQHook(pub Publisher, queue string) *RabbitMQHook {
	return &RabbitMQHook{pub: pub, queue: queue, timeout: 5 * time.Second}
}

func (h *RabbitMQHook) Fire(e *logrus.Entry) error {
	b, err := e.Logger.Formatter.Format(e)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	return h.pub.PublishWithContext(ctx, "", h.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.Time,
		Type:         e.Level.String(),
		Body:         b,
	})
}

func (h *RabbitMQHook) Levels() []logrus.Level { return logrus.AllLevels }
