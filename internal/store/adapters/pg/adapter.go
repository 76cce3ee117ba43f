// Package pg implementa el adapter PostgreSQL. Usa pgxpool y lo expone como
// *sql.DB vía pgx/stdlib para compartir los repositorios de sqlstore.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dropDatabas3/hellolist/internal/store"
	"github.com/dropDatabas3/hellolist/internal/store/sqlstore"
	"github.com/dropDatabas3/hellolist/migrations/postgres"
)

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

// uniqueViolation es el SQLSTATE 23505.
const uniqueViolation = "23505"

// Dialect es el dialecto PostgreSQL; exportado para tests con sqlmock.
var Dialect = sqlstore.Dialect{
	Name:              "postgres",
	Goose:             goose.DialectPostgres,
	Migrations:        postgres.FS,
	TxOptions:         &sql.TxOptions{Isolation: sql.LevelReadCommitted},
	IsUniqueViolation: IsUniqueViolation,
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return "postgres" }

func (a *postgresAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.Connection, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	} else {
		poolCfg.MinConns = 2
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	return sqlstore.NewConn(db, Dialect, pool.Close), nil
}
