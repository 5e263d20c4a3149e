//go:build integration

// Package integration starts throwaway backing services for the
// integration-tagged tests.
package integration

import (
	"context"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

const startupTimeout = 2 * time.Minute

type Service struct {
	Container testcontainers.Container
	// Addr is a DSN for databases, host:port for Redis and a broker list
	// entry for Kafka.
	Addr string
}

func (s *Service) Teardown(ctx context.Context) {
	_ = s.Container.Terminate(ctx)
}

func Postgres(ctx context.Context) (*Service, error) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pgC, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(startupTimeout)),
	)
	if err != nil {
		return nil, err
	}

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgC.Terminate(context.Background())
		return nil, err
	}
	return &Service{Container: pgC, Addr: pgURL}, nil
}

func Redis(ctx context.Context) (*Service, error) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	redisC, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		return nil, err
	}
	host, err := redisC.Host(ctx)
	if err != nil {
		_ = redisC.Terminate(context.Background())
		return nil, err
	}
	port, err := redisC.MappedPort(ctx, "6379/tcp")
	if err != nil {
		_ = redisC.Terminate(context.Background())
		return nil, err
	}
	return &Service{Container: redisC, Addr: host + ":" + port.Port()}, nil
}

func MySQL(ctx context.Context) (*Service, error) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	myC, err := mysql.Run(ctx,
		"mysql:8.0.36",
		mysql.WithDatabase("storefront"),
		mysql.WithUsername("storefront"),
		mysql.WithPassword("storefront"),
	)
	if err != nil {
		return nil, err
	}
	dsn, err := myC.ConnectionString(ctx, "parseTime=true")
	if err != nil {
		_ = myC.Terminate(context.Background())
		return nil, err
	}
	return &Service{Container: myC, Addr: dsn}, nil
}

func Kafka(ctx context.Context) (*Service, error) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	kafkaC, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		kafka.WithClusterID("storefront-test"),
	)
	if err != nil {
		return nil, err
	}
	brokers, err := kafkaC.Brokers(ctx)
	if err != nil {
		_ = kafkaC.Terminate(context.Background())
		return nil, err
	}
	return &Service{Container: kafkaC, Addr: brokers[0]}, nil
}
