// Package store provee el registry de adaptadores de almacenamiento.
//
// Cada adapter (pg, sqlite, memory) se registra en init() y se elige por
// nombre en runtime:
//
//	import _ "github.com/dropDatabas3/hellolist/internal/store/adapters/all"
//	conn, err := store.Open(ctx, store.AdapterConfig{Name: "postgres", DSN: dsn})
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/hellolist/internal/domain/repository"
)

// Adapter crea conexiones para un backend.
type Adapter interface {
	Name() string
	Connect(ctx context.Context, cfg AdapterConfig) (Connection, error)
}

// Connection es una conexión activa con sus repositorios.
type Connection interface {
	repository.Transactor

	Name() string
	Ping(ctx context.Context) error
	Close() error

	Subscribers() repository.SubscriberRepository
	Credentials() repository.CredentialRepository
}

// MigrationStatus es una fila de `hellolist migrate status`.
type MigrationStatus struct {
	Version   int64
	Source    string
	Applied   bool
	AppliedAt time.Time
}

// Migrator es opcional: lo implementan las conexiones SQL.
type Migrator interface {
	MigrateUp(ctx context.Context) (applied int, err error)
	MigrateDown(ctx context.Context) error
	MigrationStatus(ctx context.Context) ([]MigrationStatus, error)
}

// AdapterConfig configuración para conectar a un almacenamiento.
type AdapterConfig struct {
	// Name del adapter: "postgres", "sqlite", "memory"
	Name string

	// DSN connection string; para sqlite es el path del archivo
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// RegisterAdapter registra un adapter en el registry global.
// Llamar en init() de cada adapter.
func RegisterAdapter(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := a.Name()
	if _, exists := adapters[name]; exists {
		panic(fmt.Sprintf("adapter: %q already registered", name))
	}
	adapters[name] = a
}

// GetAdapter obtiene un adapter por nombre.
func GetAdapter(name string) (Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[name]
	return a, ok
}

// ListAdapters retorna los nombres registrados, ordenados.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open abre una conexión usando el adapter indicado en cfg.Name.
func Open(ctx context.Context, cfg AdapterConfig) (Connection, error) {
	a, ok := GetAdapter(cfg.Name)
	if !ok {
		return nil, fmt.Errorf("adapter: %q not registered (have %v)", cfg.Name, ListAdapters())
	}
	return a.Connect(ctx, cfg)
}
