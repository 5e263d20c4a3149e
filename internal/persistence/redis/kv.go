// Package redis keeps collections as plain string values in Redis.
package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmehra2102/storefront/internal/persistence"
)

type Store struct {
	log    *slog.Logger
	client *goredis.Client
	prefix string
}

// Connect dials addr and pings it within five seconds.
func Connect(ctx context.Context, log *slog.Logger, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "ping redis %s", addr)
	}
	log.Info("redis connected", "addr", addr, "db", db)
	return client, nil
}

func New(log *slog.Logger, client *goredis.Client, prefix string) *Store {
	return &Store{log: log, client: client, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", persistence.ErrKeyNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "redis get %s", key)
	}
	return v, nil
}

// Put stores value without expiry.
func (s *Store) Put(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", key)
	}
	s.log.Debug("redis value stored", "key", s.prefix+key, "bytes", len(value))
	return nil
}
