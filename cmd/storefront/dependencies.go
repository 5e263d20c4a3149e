package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmehra2102/storefront/internal/catalog/application"
	catalogdomain "github.com/dmehra2102/storefront/internal/catalog/domain"
	"github.com/dmehra2102/storefront/internal/config"
	orderapp "github.com/dmehra2102/storefront/internal/order/application"
	orderdomain "github.com/dmehra2102/storefront/internal/order/domain"
	ordercatalog "github.com/dmehra2102/storefront/internal/order/infrastructure/catalog"
	orderkafka "github.com/dmehra2102/storefront/internal/order/infrastructure/kafka"
	paymentapp "github.com/dmehra2102/storefront/internal/payment/application"
	"github.com/dmehra2102/storefront/internal/persistence"
	"github.com/dmehra2102/storefront/internal/persistence/filekv"
	"github.com/dmehra2102/storefront/internal/persistence/mysql"
	"github.com/dmehra2102/storefront/internal/persistence/postgres"
	redisstore "github.com/dmehra2102/storefront/internal/persistence/redis"
	"github.com/dmehra2102/storefront/pkg/idempotency"
	"github.com/dmehra2102/storefront/pkg/outbox"
)

// dependencies holds everything the commands share, built once per process.
type dependencies struct {
	catalog *application.Service
	orders  *orderapp.Service

	// Set only when Kafka is configured.
	relay *outbox.Relay
	// Set only when Redis is configured.
	idempotency *idempotency.Store

	closers []func()
}

func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func newDependencies(ctx context.Context, cfg config.Config, log *slog.Logger) (*dependencies, error) {
	d := &dependencies{}
	ok := false
	defer func() {
		if !ok {
			d.Close()
		}
	}()

	var (
		kv     persistence.KV
		pool   *pgxpool.Pool
		client *goredis.Client
		err    error
	)

	if cfg.RedisAddr != "" {
		client, err = redisstore.Connect(ctx, log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() { _ = client.Close() })
		d.idempotency = idempotency.NewStore(client, cfg.IdempotencyTTL)
	}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		kv = persistence.NewMemoryKV()
	case config.BackendFile:
		kv, err = filekv.New(cfg.DataDir)
	case config.BackendRedis:
		kv = redisstore.New(log, client, "")
	case config.BackendPostgres:
		pool, err = pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, errors.Wrap(err, "pg connect")
		}
		d.closers = append(d.closers, pool.Close)
		repo := postgres.NewRepository(log, pool)
		err = repo.Migrate(ctx)
		kv = repo
	case config.BackendMySQL:
		db, openErr := mysql.Open(ctx, cfg.MySQLDSN)
		if openErr != nil {
			return nil, openErr
		}
		d.closers = append(d.closers, func() { _ = db.Close() })
		repo := mysql.NewRepository(log, db)
		err = repo.Migrate(ctx)
		kv = repo
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s backend", cfg.StoreBackend)
	}
	log.Info("store backend ready", "backend", cfg.StoreBackend)

	catalogStore, err := application.NewStore(ctx, log, persistence.NewCollection[catalogdomain.Product](kv, persistence.CatalogKey))
	if err != nil {
		return nil, err
	}
	d.catalog = application.NewService(log, catalogStore)

	orderStore, err := orderapp.NewStore(ctx, log, persistence.NewCollection[orderdomain.Order](kv, persistence.OrdersKey))
	if err != nil {
		return nil, err
	}

	opts := []orderapp.Option{}
	if cfg.PriceFromCatalog {
		opts = append(opts, orderapp.WithProductLookup(ordercatalog.NewLookup(d.catalog)))
	}
	if cfg.KafkaEnabled() {
		var events interface {
			outbox.Writer
			outbox.Store
		}
		if pool != nil {
			events = postgres.NewOutboxStore(log, pool)
		} else {
			events = outbox.NewMemoryStore()
		}
		writer := orderkafka.NewWriter(cfg.KafkaBrokers)
		d.closers = append(d.closers, func() { _ = writer.Close() })

		dispatch := outbox.NewDispatcher(log, writer, cfg.OrderEventsTopic)
		d.relay = outbox.NewRelay(log, events, dispatch, appID+"-relay", cfg.RelayInterval)
		opts = append(opts, orderapp.WithEvents(events))
	}
	payments := paymentapp.NewGateway(log, cfg.PaymentDelay, cfg.PaymentLimit)
	d.orders = orderapp.NewService(log, orderStore, payments, opts...)

	ok = true
	return d, nil
}
