package kv

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

const upsertSQL = `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

// PostgresStore keeps every record as a row in a single kv_store table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects, pings and makes sure the table exists
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.GetContext(ctx, &value, "SELECT value FROM kv_store WHERE key = $1", key)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.db.ExecContext(ctx, upsertSQL, key, string(value))
	return err
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx, "DELETE FROM kv_store WHERE key = $1", key)
	return err
}

func (p *PostgresStore) Scan(ctx context.Context, prefix string) ([][]byte, error) {
	var values [][]byte
	err := p.db.SelectContext(ctx, &values,
		`SELECT value FROM kv_store WHERE key LIKE $1 ESCAPE '\'`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = make([][]byte, 0)
	}
	return values, nil
}

// Apply writes the batch in one transaction
func (p *PostgresStore) Apply(ctx context.Context, ops []Op) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, op := range ops {
		if op.IsDelete() {
			_, err = tx.ExecContext(ctx, "DELETE FROM kv_store WHERE key = $1", op.Key)
		} else {
			_, err = tx.ExecContext(ctx, upsertSQL, op.Key, string(op.Value))
		}
		if err != nil {
			return fmt.Errorf("batch write %s: %w", op.Key, err)
		}
	}

	return tx.Commit()
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
