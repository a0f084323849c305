package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPQueue is a JobQueue backed by a durable RabbitMQ queue with
// persistent messages. Unlike the in-memory queue it survives process
// restarts; broker-side deduplication is not available, the executors'
// idempotency covers duplicates instead.
type AMQPQueue struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
}

// NewAMQPQueue connects to the broker and declares the durable queue
func NewAMQPQueue(url, queueName string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", queueName, err)
	}

	return &AMQPQueue{
		conn:      conn,
		channel:   ch,
		queueName: queueName,
	}, nil
}

var _ port.JobQueue = (*AMQPQueue)(nil)

func (q *AMQPQueue) Enqueue(ctx context.Context, job port.Job) (bool, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return false, err
	}

	err = q.channel.PublishWithContext(ctx,
		"",          // default exchange
		q.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    job.EnqueuedAt,
			Body:         body,
		},
	)
	if err != nil {
		return false, err
	}
	jobsEnqueued.WithLabelValues(string(job.Type)).Inc()
	return true, nil
}

func (q *AMQPQueue) Dequeue(ctx context.Context) (*port.Job, error) {
	delivery, ok, err := q.channel.Get(q.queueName, false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var job port.Job
	if err := json.Unmarshal(delivery.Body, &job); err != nil {
		// Unparseable message, drop it rather than wedge the queue
		_ = delivery.Nack(false, false)
		return nil, fmt.Errorf("decode job message: %w", err)
	}

	if err := delivery.Ack(false); err != nil {
		return nil, err
	}
	return &job, nil
}

func (q *AMQPQueue) Close() error {
	if err := q.channel.Close(); err != nil {
		_ = q.conn.Close()
		return err
	}
	return q.conn.Close()
}
