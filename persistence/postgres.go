package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paologalligit/cinema-seeder/entities"
)

// NewPostgresPool creates a new pgx connection pool
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	return pool, nil
}

// InitPostgresSchema reads the schema file and executes its statements
func InitPostgresSchema(ctx context.Context, pool *pgxpool.Pool, schemaFile string) error {
	sqlBytes, err := os.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	sql := string(sqlBytes)
	// Split on semicolon to support multiple statements
	stmts := strings.SplitSeq(sql, ";")
	for stmt := range stmts {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(stmt, "--") {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %q: %w", stmt, err)
		}
	}
	return nil
}

type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresPersistence upserts every record as a JSONB document keyed by its id
type PostgresPersistence struct {
	Pool  batchSender
	close func()
}

func NewPostgresPersistence(pool *pgxpool.Pool) *PostgresPersistence {
	return &PostgresPersistence{Pool: pool, close: pool.Close}
}

func (p *PostgresPersistence) WriteRecords(ctx context.Context, collection string, records []entities.Record) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`,
		pgx.Identifier{collection}.Sanitize(),
	)
	batch := &pgx.Batch{}
	for _, record := range records {
		doc, err := json.Marshal(record)
		if err != nil {
			return sinkError("postgres", collection, fmt.Errorf("error encoding record %s: %w", record.RecordId(), err))
		}
		batch.Queue(query, record.RecordId(), doc)
	}
	if err := p.Pool.SendBatch(ctx, batch).Close(); err != nil {
		return sinkError("postgres", collection, fmt.Errorf("error inserting batch: %w", err))
	}
	return nil
}

func (p *PostgresPersistence) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}
