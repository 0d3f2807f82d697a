package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bamao88/Topic-Monitoring-feishu/pkg/config"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	TaskQueueName  = "blogger_task_queue"
	TaskExchange   = "blogger_tasks"
	taskRoutingKey = "teardown"
)

// Task kinds understood by the worker.
const (
	TaskSync    = "sync"
	TaskAnalyze = "analyze"
)

// Task is a queued unit of work for one blogger.
type Task struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	BloggerID  string `json:"blogger_id"`
	ProfileURL string `json:"profile_url,omitempty"`
	EnqueuedAt int64  `json:"enqueued_at"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		TaskExchange, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		TaskQueueName, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		TaskQueueName,
		taskRoutingKey,
		TaskExchange,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishTask enqueues a sync/analysis task for the worker.
func (c *Client) PublishTask(task Task) error {
	if task.EnqueuedAt == 0 {
		task.EnqueuedAt = time.Now().UnixMilli()
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	err = c.channel.Publish(
		TaskExchange,
		taskRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("Failed to publish task %s (%s): %v", task.ID, task.Kind, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("Published %s task %s for blogger %s", task.Kind, task.ID, task.BloggerID)
	return nil
}

// ConsumeTasks delivers queued tasks to the handler. A handler error nacks
// the message back onto the queue.
func (c *Client) ConsumeTasks(handler func(task Task) error) error {
	msgs, err := c.channel.Consume(
		TaskQueueName,
		"",    // consumer
		false, // auto-ack (we ack after processing)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Started consuming from task queue: %s", TaskQueueName)

	go func() {
		for msg := range msgs {
			var task Task
			if err := json.Unmarshal(msg.Body, &task); err != nil {
				c.logger.Error("Failed to unmarshal task: %v, body=%s", err, string(msg.Body))
				msg.Nack(false, false) // reject, don't requeue
				continue
			}

			if err := handler(task); err != nil {
				c.logger.Error("Task %s (%s) failed: %v", task.ID, task.Kind, err)
				msg.Nack(false, true) // reject and requeue
				continue
			}

			msg.Ack(false)
		}
	}()

	return nil
}

// QueueLength returns the number of pending tasks.
func (c *Client) QueueLength() (int, error) {
	q, err := c.channel.QueueInspect(TaskQueueName)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect queue: %w", err)
	}
	return q.Messages, nil
}
