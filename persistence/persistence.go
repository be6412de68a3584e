package persistence

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/paologalligit/cinema-seeder/entities"
)

// ErrSinkFailure wraps every error raised while persisting records.
var ErrSinkFailure = errors.New("sink failure")

// Persistence defines the backend contract for storing generated records.
// Implementations: FilePersistence, PostgresPersistence, MySQLPersistence,
// RedisPersistence, KafkaPersistence, AMQPPersistence
type Persistence interface {
	WriteRecords(ctx context.Context, collection string, records []entities.Record) error
	Close() error
}

func sinkError(backend, collection string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrSinkFailure, backend, collection, err)
}

// FilePersistence writes one JSON document per line, one file per collection.
// Each file is truncated the first time it is written during a run.
type FilePersistence struct {
	Paths map[string]string
	mu    sync.Mutex
	files map[string]*jsonlFile
}

type jsonlFile struct {
	file   *os.File
	writer *bufio.Writer
	enc    *json.Encoder
}

func NewFilePersistence(paths map[string]string) *FilePersistence {
	return &FilePersistence{Paths: paths, files: map[string]*jsonlFile{}}
}

func (f *FilePersistence) WriteRecords(ctx context.Context, collection string, records []entities.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	out, err := f.open(collection)
	if err != nil {
		return sinkError("file", collection, err)
	}
	for _, record := range records {
		if err := out.enc.Encode(record); err != nil {
			return sinkError("file", collection, fmt.Errorf("error writing record %s: %w", record.RecordId(), err))
		}
	}
	if err := out.writer.Flush(); err != nil {
		return sinkError("file", collection, err)
	}
	return nil
}

func (f *FilePersistence) open(collection string) (*jsonlFile, error) {
	if out, ok := f.files[collection]; ok {
		return out, nil
	}
	path, ok := f.Paths[collection]
	if !ok {
		return nil, fmt.Errorf("no output file configured")
	}
	file, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("error opening output file: %w", err)
	}
	writer := bufio.NewWriter(file)
	out := &jsonlFile{file: file, writer: writer, enc: json.NewEncoder(writer)}
	f.files[collection] = out
	return out, nil
}

func (f *FilePersistence) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var errs []error
	for collection, out := range f.files {
		if err := out.writer.Flush(); err != nil {
			errs = append(errs, sinkError("file", collection, err))
		}
		if err := out.file.Close(); err != nil {
			errs = append(errs, sinkError("file", collection, err))
		}
		delete(f.files, collection)
	}
	return errors.Join(errs...)
}
