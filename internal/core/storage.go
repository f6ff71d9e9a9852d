package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"herdbook/internal/infra/persistence/memory"
	"herdbook/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / demo)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// StorageConfig selects and parameterises a persistence backend.
type StorageConfig struct {
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
}

// StorageConfigFromEnv reads the storage settings:
//
//	HERDBOOK_STORAGE_DRIVER: memory|sqlite|postgres (default memory)
//	HERDBOOK_SQLITE_PATH: path to sqlite file (default ./herdbook.db)
//	HERDBOOK_POSTGRES_DSN: postgres DSN when driver=postgres
func StorageConfigFromEnv() StorageConfig {
	driver := strings.ToLower(strings.TrimSpace(os.Getenv("HERDBOOK_STORAGE_DRIVER")))
	if driver == "" {
		driver = string(StorageMemory)
	}
	return StorageConfig{
		Driver:      StorageDriver(driver),
		SQLitePath:  os.Getenv("HERDBOOK_SQLITE_PATH"),
		PostgresDSN: os.Getenv("HERDBOOK_POSTGRES_DSN"),
	}
}

// OpenStore constructs the backend described by cfg.
func OpenStore(ctx context.Context, cfg StorageConfig, engine *domain.RulesEngine) (domain.PersistentStore, error) {
	switch cfg.Driver {
	case StorageMemory, "":
		return memory.NewStore(engine), nil
	case StorageSQLite:
		store, err := NewSQLiteStore(cfg.SQLitePath, engine)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoragePostgres:
		store, err := NewPostgresStore(ctx, cfg.PostgresDSN, engine)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Driver)
	}
}

// OpenPersistentStore selects a backend using environment variables.
func OpenPersistentStore(ctx context.Context, engine *domain.RulesEngine) (domain.PersistentStore, error) {
	return OpenStore(ctx, StorageConfigFromEnv(), engine)
}

// CloseStore releases resources held by stores that own a database handle.
func CloseStore(store domain.PersistentStore) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
