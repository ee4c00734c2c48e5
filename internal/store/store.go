// Package store implementa el almacenamiento clave/valor persistente que
// sustituye al localStorage del navegador.
package store

import (
	"context"
	"errors"
)

// Claves persistidas de la sesion.
const (
	KeyAuthToken   = "authToken"
	KeyTokenExpiry = "tokenExpiry"
	KeyUserRole    = "userRole"
)

// SessionKeys se borran siempre juntas.
var SessionKeys = []string{KeyAuthToken, KeyTokenExpiry, KeyUserRole}

var ErrEmptyKey = errors.New("store: empty key")

// Store es un almacen clave/valor de ultima escritura gana.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Scoper entrega un Store aislado por namespace (un cliente del portal).
type Scoper interface {
	Scope(namespace string) Store
}

// ClearSession borra las claves de sesion.
func ClearSession(ctx context.Context, s Store) error {
	return s.Delete(ctx, SessionKeys...)
}
