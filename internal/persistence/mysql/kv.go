// Package mysql provides the MySQL key-value backend.
package mysql

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dmehra2102/storefront/internal/persistence"
)

const schema = `CREATE TABLE IF NOT EXISTS kv_store (
	k          VARCHAR(191) NOT NULL PRIMARY KEY,
	v          LONGTEXT NOT NULL,
	updated_at DATETIME(6) NOT NULL
)`

type Repository struct {
	log *slog.Logger
	db  *sqlx.DB
}

// Open connects using a go-sql-driver DSN, e.g.
// "user:pass@tcp(localhost:3306)/storefront?parseTime=true".
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping mysql")
	}
	return db, nil
}

func NewRepository(log *slog.Logger, db *sqlx.DB) *Repository {
	return &Repository{log: log, db: db}
}

func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return errors.Wrap(err, "create mysql schema")
}

func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.GetContext(ctx, &value, `SELECT v FROM kv_store WHERE k = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", persistence.ErrKeyNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "select %s", key)
	}
	return value, nil
}

func (r *Repository) Put(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO kv_store (k, v, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = VALUES(updated_at)`,
		key, value, time.Now().UTC())
	if err != nil {
		return errors.Wrapf(err, "upsert %s", key)
	}
	return nil
}
