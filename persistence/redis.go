package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paologalligit/cinema-seeder/entities"
	"github.com/redis/go-redis/v9"
)

type listPusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisPersistence appends JSON documents to one list per collection,
// keyed "<prefix>:<collection>".
type RedisPersistence struct {
	Client    listPusher
	KeyPrefix string
	close     func() error
}

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return client, nil
}

func NewRedisPersistence(client *redis.Client, keyPrefix string) *RedisPersistence {
	return &RedisPersistence{Client: client, KeyPrefix: keyPrefix, close: client.Close}
}

func (r *RedisPersistence) Key(collection string) string {
	if r.KeyPrefix == "" {
		return collection
	}
	return r.KeyPrefix + ":" + collection
}

func (r *RedisPersistence) WriteRecords(ctx context.Context, collection string, records []entities.Record) error {
	if len(records) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(records))
	for _, record := range records {
		doc, err := json.Marshal(record)
		if err != nil {
			return sinkError("redis", collection, fmt.Errorf("error encoding record %s: %w", record.RecordId(), err))
		}
		values = append(values, string(doc))
	}
	if err := r.Client.RPush(ctx, r.Key(collection), values...).Err(); err != nil {
		return sinkError("redis", collection, err)
	}
	return nil
}

func (r *RedisPersistence) Close() error {
	if r.close != nil {
		return r.close()
	}
	return nil
}
