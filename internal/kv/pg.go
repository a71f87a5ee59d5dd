package kv

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/wyhaines/boards/internal/logger"
)

// Pg is a Postgres-backed backend for deployments that already run a
// database. The whole store is one relational kv table; each engine call is
// one sql.Tx so the rollback guarantee matches the embedded backend.
type Pg struct {
	db      *sql.DB
	timeout time.Duration
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS boards_kv (
    bucket TEXT  NOT NULL,
    key    BYTEA NOT NULL,
    value  BYTEA NOT NULL,
    PRIMARY KEY (bucket, key)
)`

// OpenPg connects, pings and bootstraps the schema.
func OpenPg(connStr string) (*Pg, error) {
	logger.Log.Info("connecting to postgres")
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := db.Exec(pgSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	logger.Log.Info("successfully connected to postgres")
	return &Pg{db: db, timeout: 5 * time.Second}, nil
}

func (p *Pg) Update(fn func(Tx) error) error {
	return p.withTx(func(tx *sql.Tx) error {
		return fn(&pgTx{tx})
	})
}

func (p *Pg) View(fn func(Tx) error) error {
	// Reads go through the same transactional path so View observes a
	// consistent snapshot.
	return p.withTx(func(tx *sql.Tx) error {
		return fn(&pgTx{tx})
	})
}

func (p *Pg) Close() error {
	return p.db.Close()
}

func (p *Pg) withTx(fn func(*sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) Get(bucket string, key []byte) ([]byte, error) {
	var value []byte
	err := t.tx.QueryRow(
		"SELECT value FROM boards_kv WHERE bucket = $1 AND key = $2",
		bucket, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s key: %w", bucket, err)
	}
	return value, nil
}

func (t *pgTx) Put(bucket string, key, value []byte) error {
	_, err := t.tx.Exec(`
        INSERT INTO boards_kv (bucket, key, value)
        VALUES ($1, $2, $3)
        ON CONFLICT (bucket, key) DO UPDATE SET value = EXCLUDED.value
    `, bucket, key, value)
	if err != nil {
		return fmt.Errorf("failed to write %s key: %w", bucket, err)
	}
	return nil
}

func (t *pgTx) Delete(bucket string, key []byte) error {
	_, err := t.tx.Exec(
		"DELETE FROM boards_kv WHERE bucket = $1 AND key = $2",
		bucket, key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete %s key: %w", bucket, err)
	}
	return nil
}

func (t *pgTx) Has(bucket string, key []byte) (bool, error) {
	raw, err := t.Get(bucket, key)
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}
