package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"godash/internal/pkg/storage"
)

// ErrCacheMiss é retornado pelo redis quando a chave não existe.
var ErrCacheMiss = redis.Nil

// CounterPrefix separa as janelas do rate limiter dos blobs sob o mesmo prefixo.
const CounterPrefix = "rl:"

// NewRedisClient cria o cliente Redis e faz um PING para garantir que o servidor responde.
// Esta função é chamada nos binários em cmd/.
func NewRedisClient(addr string, timeout time.Duration) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("não foi possível conectar ao Redis em %s: %w", addr, err)
	}
	return rdb, nil
}

// RedisStore implementa storage.Backend guardando cada blob como uma string Redis.
// Todas as chaves ficam sob um prefixo, para que Clear não apague dados de terceiros.
type RedisStore struct {
	rdb     *redis.Client
	prefix  string
	timeout time.Duration
}

var _ storage.Backend = (*RedisStore)(nil)

// NewRedisStore cria o backend sobre um cliente já conectado.
func NewRedisStore(rdb *redis.Client, prefix string, timeout time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, timeout: timeout}
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

func (s *RedisStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Get recupera o blob associado a uma chave.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	val, err := s.rdb.Get(ctx, s.key(key)).Result()
	if errors.Is(err, ErrCacheMiss) {
		return "", storage.ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set grava o blob sem expiração: este é o armazenamento durável, não um cache.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.rdb.Set(ctx, s.key(key), value, 0).Err()
}

// Delete remove uma chave (DEL de chave inexistente não é erro).
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.rdb.Del(ctx, s.key(key)).Err()
}

// Clear apaga, via SCAN, todas as chaves sob o prefixo, exceto os contadores (CounterPrefix).
func (s *RedisStore) Clear(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	counters := s.prefix + CounterPrefix
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		blobs := keys[:0]
		for _, k := range keys {
			if !strings.HasPrefix(k, counters) {
				blobs = append(blobs, k)
			}
		}
		if len(blobs) > 0 {
			if err := s.rdb.Del(ctx, blobs...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.rdb.Ping(ctx).Err()
}

// RedisCounter implementa contadores com janela de expiração (usado pelo rate limiter).
type RedisCounter struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCounter cria os contadores sob o prefixo informado.
func NewRedisCounter(rdb *redis.Client, prefix string) *RedisCounter {
	return &RedisCounter{rdb: rdb, prefix: prefix}
}

// Incr incrementa a chave e, no primeiro incremento da janela, define o TTL.
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := c.prefix + key
	n, err := c.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, k, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}
