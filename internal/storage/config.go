package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Config holds session storage configuration
type Config struct {
	Type string // "memory", "file", "sqlite" or "postgres"
	Path string // File path for "file" and "sqlite"
	DSN  string // Connection string for "postgres"
}

// Open builds the configured SessionStore. The returned close function
// releases any underlying database handle.
func Open(cfg Config) (SessionStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Type {
	case "", "memory":
		return NewMemoryStore(), noop, nil
	case "file":
		store, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	case "sqlite", "postgres":
		driver, source := "sqlite3", cfg.Path
		if cfg.Type == "postgres" {
			driver, source = "postgres", cfg.DSN
		}
		db, err := sql.Open(driver, source)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s session store: %w", cfg.Type, err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping %s session store: %w", cfg.Type, err)
		}
		store := NewSQLStore(db, driver)
		if err := store.Migrate(); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}
