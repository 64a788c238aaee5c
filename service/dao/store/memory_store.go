package store

import (
	"context"
	"sort"
	"sync"

	"github.com/viant/nftstub/service/dao"
)

// Matcher decides whether a record satisfies List parameters.
type Matcher[T any] func(v *T, parameters []*dao.Parameter) bool

// MemoryStore is a generic in-memory dao.Service keyed by keySelector.
// List returns records in insertion order.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	order       map[K]int
	seq         int
	keySelector func(*T) K
	matcher     Matcher[T]
}

// NewMemoryStore creates a new MemoryStore; matcher may be nil.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, matcher Matcher[T]) *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		records:     make(map[K]*T),
		order:       make(map[K]int),
		keySelector: keySelector,
		matcher:     matcher,
	}
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.order[key]; !ok {
		s.seq++
		s.order[key] = s.seq
	}
	s.records[key] = v
	return nil
}

// Load returns a record by key or dao.ErrNotFound.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return v, nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	delete(s.order, key)
	return nil
}

// List returns records matching parameters.
func (s *MemoryStore[K, T]) List(_ context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return s.order[keys[i]] < s.order[keys[j]] })
	out := make([]*T, 0, len(keys))
	for _, k := range keys {
		v := s.records[k]
		if s.matcher != nil && !s.matcher(v, parameters) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

var _ dao.Service[string, struct{}] = (*MemoryStore[string, struct{}])(nil)
