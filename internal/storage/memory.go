package storage

import (
	"maps"
	"slices"
	"sync"
)

// MemoryStore is a Storer filled in code rather than loaded from disk.
type MemoryStore[T ValidatingSpec] struct {
	mu      sync.RWMutex
	records map[string]T
}

func NewMemoryStore[T ValidatingSpec]() *MemoryStore[T] {
	return &MemoryStore[T]{records: map[string]T{}}
}

// Put validates spec and stores it under id, replacing any previous value.
func (s *MemoryStore[T]) Put(id string, spec T) error {
	a := Asset[T]{Version: 1, Identifier: id, Spec: spec}
	if err := a.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = spec
	return nil
}

func (s *MemoryStore[T]) Get(id string) T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.records[id]
}

func (s *MemoryStore[T]) GetAll() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.records)
}

func (s *MemoryStore[T]) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.records))
}
