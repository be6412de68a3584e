package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/paologalligit/cinema-seeder/entities"
)

var collectionName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// NewMySQLDB connects to MySQL and verifies the connection.
func NewMySQLDB(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("MYSQL_DSN is not set")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach mysql: %w", err)
	}
	return db, nil
}

// InitMySQLSchema creates one (id, doc) table per collection.
func InitMySQLSchema(ctx context.Context, db *sql.DB, collections ...string) error {
	for _, collection := range collections {
		if !collectionName.MatchString(collection) {
			return fmt.Errorf("invalid collection name %q", collection)
		}
		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` (id VARCHAR(255) NOT NULL PRIMARY KEY, doc JSON NOT NULL)", collection)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table %s: %w", collection, err)
		}
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// MySQLPersistence writes each batch as a single multi-row upsert
type MySQLPersistence struct {
	DB    execer
	close func() error
}

func NewMySQLPersistence(db *sql.DB) *MySQLPersistence {
	return &MySQLPersistence{DB: db, close: db.Close}
}

func (m *MySQLPersistence) WriteRecords(ctx context.Context, collection string, records []entities.Record) error {
	if len(records) == 0 {
		return nil
	}
	if !collectionName.MatchString(collection) {
		return sinkError("mysql", collection, fmt.Errorf("invalid collection name"))
	}
	placeholders := make([]string, 0, len(records))
	args := make([]any, 0, 2*len(records))
	for _, record := range records {
		doc, err := json.Marshal(record)
		if err != nil {
			return sinkError("mysql", collection, fmt.Errorf("error encoding record %s: %w", record.RecordId(), err))
		}
		placeholders = append(placeholders, "(?, ?)")
		args = append(args, record.RecordId(), string(doc))
	}
	query := fmt.Sprintf(
		"INSERT INTO `%s` (id, doc) VALUES %s ON DUPLICATE KEY UPDATE doc = VALUES(doc)",
		collection, strings.Join(placeholders, ", "),
	)
	if _, err := m.DB.ExecContext(ctx, query, args...); err != nil {
		return sinkError("mysql", collection, fmt.Errorf("error inserting batch: %w", err))
	}
	return nil
}

func (m *MySQLPersistence) Close() error {
	if m.close != nil {
		return m.close()
	}
	return nil
}
