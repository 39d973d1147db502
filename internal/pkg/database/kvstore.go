package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"godash/internal/pkg/storage"
)

// KVStore implementa storage.Backend sobre a tabela kv_store.
// Cada coleção continua sendo um único blob JSON: uma linha por chave.
type KVStore struct {
	DB        *sql.DB
	DBTimeout time.Duration
	now       func() time.Time
}

var _ storage.Backend = (*KVStore)(nil)

// NewKVStore cria o backend; as tabelas devem ter sido criadas por Migrate.
func NewKVStore(db *sql.DB, dbTimeout time.Duration) *KVStore {
	return &KVStore{DB: db, DBTimeout: dbTimeout, now: time.Now}
}

const (
	selectValueSQL = `SELECT value FROM kv_store WHERE key = $1`
	upsertValueSQL = `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, $3)
                      ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	deleteKeySQL = `DELETE FROM kv_store WHERE key = $1`
	deleteAllSQL = `DELETE FROM kv_store`
)

func (s *KVStore) ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.DBTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.DBTimeout)
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	ctxTimeout, cancel := s.ctx(ctx)
	defer cancel()

	var value string
	err := s.DB.QueryRowContext(ctxTimeout, selectValueSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set faz UPSERT da linha; a troca do valor é atômica para leitores concorrentes.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	ctxTimeout, cancel := s.ctx(ctx)
	defer cancel()

	_, err := s.DB.ExecContext(ctxTimeout, upsertValueSQL, key, value, s.now().UTC())
	return err
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	ctxTimeout, cancel := s.ctx(ctx)
	defer cancel()

	_, err := s.DB.ExecContext(ctxTimeout, deleteKeySQL, key)
	return err
}

func (s *KVStore) Clear(ctx context.Context) error {
	ctxTimeout, cancel := s.ctx(ctx)
	defer cancel()

	_, err := s.DB.ExecContext(ctxTimeout, deleteAllSQL)
	return err
}

func (s *KVStore) Ping(ctx context.Context) error {
	ctxTimeout, cancel := s.ctx(ctx)
	defer cancel()

	return s.DB.PingContext(ctxTimeout)
}
