package notify

import (
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Notifier announces finished batch runs on a RabbitMQ queue so
// external listeners (UI, alerting) can react without polling.
type Notifier struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	logger    *zap.Logger
	queueName string
}

func New(rabbitmqURL string, logger *zap.Logger) (*Notifier, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queueName := "batch_events"

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Notifier{
		conn:      conn,
		channel:   channel,
		logger:    logger,
		queueName: queueName,
	}, nil
}

// HealthCheck checks if RabbitMQ is available.
func (n *Notifier) HealthCheck() string {
	if n.conn == nil || n.conn.IsClosed() {
		return "unhealthy: connection closed"
	}
	if n.channel == nil {
		return "unhealthy: channel not available"
	}
	return "healthy"
}

// Close closes the queue connection.
func (n *Notifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
	return nil
}
