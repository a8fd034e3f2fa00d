// Package memory: key-value стор в памяти процесса (тесты и --store=memory).
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"ClipSync/internal/cli/repo"
)

// Store хранит JSON-представления значений, чтобы поведение совпадало с файловыми сторами.
type Store struct {
	mu     sync.RWMutex
	data   map[string][]byte
	writes map[string]int
}

var _ repo.Store = (*Store)(nil)

func New() *Store {
	return &Store{data: map[string][]byte{}, writes: map[string]int{}}
}

func (s *Store) Get(_ context.Context, key string, dst any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("%w: key %q: %v", repo.ErrCorrupt, key, err)
	}
	return true, nil
}

func (s *Store) Set(_ context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	s.mu.Lock()
	s.data[key] = b
	s.writes[key]++
	s.mu.Unlock()
	return nil
}

// SetRaw кладёт произвольный JSON (в том числе битый) как есть.
func (s *Store) SetRaw(key, raw string) {
	s.mu.Lock()
	s.data[key] = []byte(raw)
	s.mu.Unlock()
}

// Raw возвращает сохранённый JSON ключа.
func (s *Store) Raw(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[key]
	return string(b), ok
}

// Writes: сколько раз ключ записывался через Set.
func (s *Store) Writes(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes[key]
}
