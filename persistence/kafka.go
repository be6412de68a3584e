package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/paologalligit/cinema-seeder/entities"
)

type KafkaConfig struct {
	Brokers      []string
	RetryMax     int
	RequiredAcks int
}

func NewKafkaProducer(cfg KafkaConfig) (sarama.SyncProducer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.RequiredAcks = sarama.RequiredAcks(cfg.RequiredAcks)
	saramaCfg.Producer.Retry.Max = cfg.RetryMax
	saramaCfg.Producer.Return.Successes = true

	prod, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return prod, nil
}

// KafkaPersistence publishes each record to "<prefix>.<collection>" keyed by
// record id, so a compacted topic keeps the latest version of every record.
type KafkaPersistence struct {
	Producer    sarama.SyncProducer
	TopicPrefix string
}

func NewKafkaPersistence(producer sarama.SyncProducer, topicPrefix string) *KafkaPersistence {
	return &KafkaPersistence{Producer: producer, TopicPrefix: topicPrefix}
}

func (k *KafkaPersistence) Topic(collection string) string {
	if k.TopicPrefix == "" {
		return collection
	}
	return k.TopicPrefix + "." + collection
}

func (k *KafkaPersistence) WriteRecords(ctx context.Context, collection string, records []entities.Record) error {
	if len(records) == 0 {
		return nil
	}
	topic := k.Topic(collection)
	msgs := make([]*sarama.ProducerMessage, 0, len(records))
	for _, record := range records {
		doc, err := json.Marshal(record)
		if err != nil {
			return sinkError("kafka", collection, fmt.Errorf("error encoding record %s: %w", record.RecordId(), err))
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: topic,
			Key:   sarama.StringEncoder(record.RecordId()),
			Value: sarama.ByteEncoder(doc),
		})
	}
	if err := k.Producer.SendMessages(msgs); err != nil {
		return sinkError("kafka", collection, err)
	}
	return nil
}

func (k *KafkaPersistence) Close() error {
	return k.Producer.Close()
}
