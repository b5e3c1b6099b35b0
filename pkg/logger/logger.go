package logger

import (
	"io"
	"os"

	"github.com/IBM/sarama"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Options configure New.
type Options struct {
	Level       string
	Env         string
	Driver      string // "kafka" or "rabbitmq"
	Brokers     []string
	Topic       string
	RabbitURL   string
	RabbitQueue string
	File        string
	// Output overrides stdout.
	Output io.Writer
}

const defaultQueue = "logging"

// New creates a JSON logger. Outside production entries are also appended to
// opts.File (app.log by default). In production they are shipped to Kafka or
// RabbitMQ when opts.Driver is configured; a broker that cannot be reached
// only produces a warning.
func New(opts Options) *logrus.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	log := logrus.New()
	log.SetOutput(out)
	log.Formatter = &logrus.JSONFormatter{}

	lvl, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if opts.Env != "production" {
		path := opts.File
		if path == "" {
			path = "app.log"
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.WithError(err).Warn("cannot open log file")
			return log
		}
		log.SetOutput(io.MultiWriter(out, f))
		return log
	}

	var hook logrus.Hook
	switch opts.Driver {
	case "kafka":
		if len(opts.Brokers) > 0 {
			hook, err = kafkaHook(opts)
		}
	case "rabbitmq":
		if opts.RabbitURL != "" {
			hook, err = rabbitHook(opts)
		}
	}
	if err != nil {
		log.WithError(err).WithField("driver", opts.Driver).Warn("log shipping disabled")
	} else if hook != nil {
		log.AddHook(hook)
	}
	return log
}

func kafkaHook(opts Options) (logrus.Hook, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	producer, err := sarama.NewSyncProducer(opts.Brokers, cfg)
	if err != nil {
		return nil, err
	}
	topic := opts.Topic
	if topic == "" {
		topic = defaultQueue
	}
	return NewKafkaHook(producer, topic), nil
}

func rabbitHook(opts Options) (logrus.Hook, error) {
	conn, err := amqp.Dial(opts.RabbitURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	queue := opts.RabbitQueue
	if queue == "" {
		queue = defaultQueue
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}
	return NewRabbitMQHook(ch, queue), nil
}
