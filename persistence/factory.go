package persistence

import (
	"context"
	"fmt"

	"github.com/paologalligit/cinema-seeder/config"
	"github.com/paologalligit/cinema-seeder/constant"
)

// New opens the backend selected by cfg.Sink.Type. Schemas, tables and
// queues are created on the way so a fresh target is usable right away.
// Errors wrap ErrSinkFailure, like write errors do.
func New(ctx context.Context, cfg *config.Config) (Persistence, error) {
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s backend: %w", ErrSinkFailure, cfg.Sink.Type, err)
	}
	return backend, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (Persistence, error) {
	switch cfg.Sink.Type {
	case config.SinkFile:
		return NewFilePersistence(map[string]string{
			constant.ROOMS_COLLECTION:     cfg.Files.Path(cfg.Files.Rooms),
			constant.SHOWTIMES_COLLECTION: cfg.Files.Path(cfg.Files.Showtimes),
		}), nil

	case config.SinkPostgres:
		pool, err := NewPostgresPool(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		if err := InitPostgresSchema(ctx, pool, cfg.Postgres.SchemaFile); err != nil {
			pool.Close()
			return nil, err
		}
		return NewPostgresPersistence(pool), nil

	case config.SinkMySQL:
		db, err := NewMySQLDB(ctx, cfg.MySQL.DSN)
		if err != nil {
			return nil, err
		}
		if err := InitMySQLSchema(ctx, db, constant.ROOMS_COLLECTION, constant.SHOWTIMES_COLLECTION); err != nil {
			db.Close()
			return nil, err
		}
		return NewMySQLPersistence(db), nil

	case config.SinkRedis:
		client, err := NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return NewRedisPersistence(client, cfg.Redis.KeyPrefix), nil

	case config.SinkKafka:
		producer, err := NewKafkaProducer(KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			RetryMax:     cfg.Kafka.RetryMax,
			RequiredAcks: cfg.Kafka.RequiredAcks,
		})
		if err != nil {
			return nil, err
		}
		return NewKafkaPersistence(producer, cfg.Kafka.TopicPrefix), nil

	case config.SinkAMQP:
		return NewAMQPPersistence(cfg.AMQP.URL, cfg.AMQP.QueuePrefix)
	}
	return nil, fmt.Errorf("unknown sink type %q", cfg.Sink.Type)
}
