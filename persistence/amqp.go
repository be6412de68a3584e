package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/paologalligit/cinema-seeder/entities"
	amqp "github.com/rabbitmq/amqp091-go"
)

type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPersistence publishes persistent JSON messages to one durable queue per
// collection, named "<prefix>.<collection>".
type AMQPPersistence struct {
	Channel     amqpChannel
	QueuePrefix string
	declared    map[string]bool
	conn        *amqp.Connection
}

func NewAMQPPersistence(url, queuePrefix string) (*AMQPPersistence, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	p := newAMQPPersistence(ch, queuePrefix)
	p.conn = conn
	return p, nil
}

func newAMQPPersistence(ch amqpChannel, queuePrefix string) *AMQPPersistence {
	return &AMQPPersistence{Channel: ch, QueuePrefix: queuePrefix, declared: map[string]bool{}}
}

func (a *AMQPPersistence) Queue(collection string) string {
	if a.QueuePrefix == "" {
		return collection
	}
	return a.QueuePrefix + "." + collection
}

func (a *AMQPPersistence) WriteRecords(ctx context.Context, collection string, records []entities.Record) error {
	queue := a.Queue(collection)
	if !a.declared[queue] {
		if _, err := a.Channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return sinkError("amqp", collection, fmt.Errorf("queue declare failed: %w", err))
		}
		a.declared[queue] = true
	}
	for _, record := range records {
		body, err := json.Marshal(record)
		if err != nil {
			return sinkError("amqp", collection, fmt.Errorf("error encoding record %s: %w", record.RecordId(), err))
		}
		pub := amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    record.RecordId(),
			Timestamp:    time.Now().UTC(),
			Body:         body,
		}
		if err := a.Channel.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
			return sinkError("amqp", collection, fmt.Errorf("publish failed: %w", err))
		}
	}
	return nil
}

func (a *AMQPPersistence) Close() error {
	err := a.Channel.Close()
	if a.conn != nil {
		err = errors.Join(err, a.conn.Close())
	}
	return err
}
