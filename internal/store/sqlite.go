package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// SQLiteStore persiste en la tabla portal_storage de un fichero SQLite.
// La CLI lo usa como almacenamiento local de un unico cliente.
type SQLiteStore struct {
	db        *sql.DB
	namespace string
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, namespace: "default"}
}

func (s *SQLiteStore) Scope(namespace string) Store {
	return &SQLiteStore{db: s.db, namespace: namespace}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", false, ErrEmptyKey
	}
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM portal_storage WHERE namespace = ? AND key = ?`,
		s.namespace, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO portal_storage (namespace, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (namespace, key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at`,
		s.namespace, key, value,
	)
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM portal_storage WHERE namespace = ? AND key = ?`,
			s.namespace, k,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}
