package store

import (
	"context"
	"strings"
	"sync"
)

type MemoryStore struct {
	mu     *sync.Mutex
	items  map[string]string
	prefix string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu:    &sync.Mutex{},
		items: make(map[string]string),
	}
}

// Scope comparte el mapa subyacente con un prefijo propio.
func (s *MemoryStore) Scope(namespace string) Store {
	return &MemoryStore{
		mu:     s.mu,
		items:  s.items,
		prefix: s.prefix + namespace + ":",
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", false, ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[s.prefix+key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[s.prefix+key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.items, s.prefix+k)
	}
	return nil
}

// Len cuenta las claves visibles en este scope.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.items {
		if strings.HasPrefix(k, s.prefix) {
			n++
		}
	}
	return n
}
