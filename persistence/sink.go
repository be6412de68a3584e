package persistence

import (
	"context"

	"github.com/paologalligit/cinema-seeder/entities"
)

const DefaultBatchSize = 1000

// BufferedSink collects records per collection and hands them to the backend
// in batches of BatchSize. Records still buffered are only persisted by Flush.
type BufferedSink struct {
	backend   Persistence
	batchSize int
	buffers   map[string][]entities.Record
	written   map[string]int
}

func NewBufferedSink(backend Persistence, batchSize int) *BufferedSink {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &BufferedSink{
		backend:   backend,
		batchSize: batchSize,
		buffers:   map[string][]entities.Record{},
		written:   map[string]int{},
	}
}

func (s *BufferedSink) Write(ctx context.Context, collection string, record entities.Record) error {
	s.buffers[collection] = append(s.buffers[collection], record)
	if len(s.buffers[collection]) >= s.batchSize {
		return s.flushCollection(ctx, collection)
	}
	return nil
}

func (s *BufferedSink) Flush(ctx context.Context) error {
	for collection := range s.buffers {
		if err := s.flushCollection(ctx, collection); err != nil {
			return err
		}
	}
	return nil
}

// Written reports how many records of the collection reached the backend.
func (s *BufferedSink) Written(collection string) int {
	return s.written[collection]
}

func (s *BufferedSink) flushCollection(ctx context.Context, collection string) error {
	batch := s.buffers[collection]
	if len(batch) == 0 {
		return nil
	}
	if err := s.backend.WriteRecords(ctx, collection, batch); err != nil {
		return err
	}
	s.written[collection] += len(batch)
	s.buffers[collection] = make([]entities.Record, 0, s.batchSize)
	return nil
}
