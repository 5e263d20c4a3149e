package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	GRPCAddr string `envconfig:"GRPC_ADDR" default:":9090"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	StoreBackend  string `envconfig:"STORE_BACKEND" default:"file"`
	DataDir       string `envconfig:"DATA_DIR" default:"./data"`
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	PostgresURL   string `envconfig:"PG_URL"`
	MySQLDSN      string `envconfig:"MYSQL_DSN"`

	KafkaBrokers     []string      `envconfig:"KAFKA_ADDR"`
	OrderEventsTopic string        `envconfig:"ORDER_EVENTS_TOPIC" default:"order.events"`
	RelayInterval    time.Duration `envconfig:"RELAY_INTERVAL" default:"1s"`
	OTelEndpoint     string        `envconfig:"OTEL_ENDPOINT"`

	PaymentDelay     time.Duration   `envconfig:"PAYMENT_DELAY" default:"2s"`
	PaymentLimit     decimal.Decimal `envconfig:"PAYMENT_LIMIT" default:"0"`
	PriceFromCatalog bool            `envconfig:"CHECKOUT_PRICE_FROM_CATALOG" default:"true"`
	IdempotencyTTL   time.Duration   `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	ShutdownTimeout  time.Duration   `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads the configuration from the environment. With APP_ENV=local the
// file .env.local is loaded first; variables already set win over it.
func Load() (Config, error) {
	if os.Getenv("APP_ENV") == "local" {
		if err := godotenv.Load(".env.local"); err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrap(err, "load .env.local")
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "process env")
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendFile:
		if c.DataDir == "" {
			return errors.New("DATA_DIR is required for the file backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis backend")
		}
	case BackendPostgres:
		if c.PostgresURL == "" {
			return errors.New("PG_URL is required for the postgres backend")
		}
	case BackendMySQL:
		if c.MySQLDSN == "" {
			return errors.New("MYSQL_DSN is required for the mysql backend")
		}
	default:
		return errors.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.PaymentDelay < 0 {
		return errors.New("PAYMENT_DELAY must not be negative")
	}
	if c.PaymentLimit.IsNegative() {
		return errors.New("PAYMENT_LIMIT must not be negative")
	}
	return nil
}

// KafkaEnabled reports whether order events should be published.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaBrokers[0] != ""
}
