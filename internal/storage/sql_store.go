package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kabadi-client/internal/logger"
)

// SQLStore keeps the session in a local_storage(key, value) table. It runs on
// sqlite3 for a single device or postgres for a shared kiosk database.
type SQLStore struct {
	db     *sql.DB
	driver string
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// Migrate creates the storage table if it does not exist
func (s *SQLStore) Migrate() error {
	query := `CREATE TABLE IF NOT EXISTS local_storage (key TEXT PRIMARY KEY, value TEXT NOT NULL)`
	logger.DatabaseCall("migrate", query)
	_, err := s.db.Exec(query)
	logger.DatabaseResult("migrate", 0, err)
	if err != nil {
		return fmt.Errorf("failed to create local_storage table: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	query := fmt.Sprintf(`SELECT value FROM local_storage WHERE key = %s`, s.placeholder(1))
	logger.DatabaseCall("get", query, "key", key)

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("get", 0, nil, "key", key)
		return "", ErrNotFound
	}
	logger.DatabaseResult("get", 1, err, "key", key)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	query := fmt.Sprintf(`INSERT INTO local_storage (key, value) VALUES (%s, %s)
	          ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, s.placeholder(1), s.placeholder(2))
	logger.DatabaseCall("set", query, "key", key)

	res, err := s.db.ExecContext(ctx, query, key, value)
	if err != nil {
		logger.DatabaseResult("set", 0, err, "key", key)
		return err
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("set", n, nil, "key", key)
	return nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	query := `DELETE FROM local_storage`
	logger.DatabaseCall("clear", query)

	res, err := s.db.ExecContext(ctx, query)
	if err != nil {
		logger.DatabaseResult("clear", 0, err)
		return err
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("clear", n, nil)
	return nil
}

func (s *SQLStore) placeholder(n int) string {
	if s.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
