package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/paologalligit/cinema-seeder/config"
	"github.com/paologalligit/cinema-seeder/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileBackendUsesConfiguredPaths(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := &config.Config{
		Sink: config.SinkConfig{Type: config.SinkFile, BatchSize: 10},
		Files: config.FilesConfig{
			Dir:       dir,
			Rooms:     "rooms.jsonl",
			Showtimes: "shows.jsonl",
		},
	}

	backend, err := New(context.Background(), cfg)

	require.NoError(t, err)
	file, ok := backend.(*FilePersistence)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "rooms.jsonl"), file.Paths[constant.ROOMS_COLLECTION])
	assert.Equal(t, filepath.Join(dir, "shows.jsonl"), file.Paths[constant.SHOWTIMES_COLLECTION])
	assert.NoError(t, backend.Close())
}

func TestNewRejectsUnknownSink(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), &config.Config{Sink: config.SinkConfig{Type: "carrier-pigeon"}})

	assert.ErrorContains(t, err, "unknown sink type")
}

func TestNewWrapsSetupFailures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{
			name: "unknown sink",
			cfg:  &config.Config{Sink: config.SinkConfig{Type: "carrier-pigeon"}},
		},
		{
			name: "postgres without url",
			cfg:  &config.Config{Sink: config.SinkConfig{Type: config.SinkPostgres}},
		},
		{
			name: "mysql with malformed dsn",
			cfg: &config.Config{
				Sink:  config.SinkConfig{Type: config.SinkMySQL},
				MySQL: config.MySQLConfig{DSN: "not-a-dsn"},
			},
		},
		{
			name: "amqp with wrong scheme",
			cfg: &config.Config{
				Sink: config.SinkConfig{Type: config.SinkAMQP},
				AMQP: config.AMQPConfig{URL: "http://localhost:5672/"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend, err := New(context.Background(), tt.cfg)

			assert.Nil(t, backend)
			assert.ErrorIs(t, err, ErrSinkFailure)
			assert.ErrorContains(t, err, tt.cfg.Sink.Type)
		})
	}
}
