// Package sqlite implementa el adapter SQLite (modernc.org/sqlite, sin cgo)
// para desarrollo local y despliegues de un solo nodo.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dropDatabas3/hellolist/internal/store"
	"github.com/dropDatabas3/hellolist/internal/store/sqlstore"
	migrations "github.com/dropDatabas3/hellolist/migrations/sqlite"
)

func init() {
	store.RegisterAdapter(&sqliteAdapter{})
}

var Dialect = sqlstore.Dialect{
	Name:              "sqlite",
	Goose:             goose.DialectSQLite3,
	Migrations:        migrations.FS,
	NumberedQuestion:  true,
	IsUniqueViolation: IsUniqueViolation,
}

func IsUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// sin extended codes el mensaje es lo único que distingue UNIQUE
		default:
			return false
		}
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type sqliteAdapter struct{}

func (a *sqliteAdapter) Name() string { return "sqlite" }

// Connect abre el archivo cfg.DSN (":memory:" para tests) con WAL y foreign keys.
func (a *sqliteAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.Connection, error) {
	db, err := Open(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	return sqlstore.NewConn(db, Dialect, nil), nil
}

// Open configura la base: WAL, foreign keys y una sola conexión, que es lo
// que SQLite soporta para escrituras.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping database: %w", err)
	}
	return db, nil
}
