package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgConn es el subconjunto de *pgxpool.Pool que usa PgStore.
type pgConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgStore persiste en la tabla portal_storage.
type PgStore struct {
	pool      pgConn
	namespace string
}

func NewPgStore(pool pgConn) *PgStore {
	return &PgStore{pool: pool, namespace: "default"}
}

func (s *PgStore) Scope(namespace string) Store {
	return &PgStore{pool: s.pool, namespace: namespace}
}

func (s *PgStore) Get(ctx context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", false, ErrEmptyKey
	}
	const query = `
		SELECT value
		FROM portal_storage
		WHERE namespace = $1 AND key = $2
	`
	var value string
	err := s.pool.QueryRow(ctx, query, s.namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *PgStore) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	const query = `
		INSERT INTO portal_storage (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	_, err := s.pool.Exec(ctx, query, s.namespace, key, value)
	return err
}

func (s *PgStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	const query = `
		DELETE FROM portal_storage
		WHERE namespace = $1 AND key = ANY($2)
	`
	_, err := s.pool.Exec(ctx, query, s.namespace, keys)
	return err
}
