package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/pkg/metrics"
)

// MemoryStore is an in-memory Store safe for concurrent workers.
type MemoryStore struct {
	mu       sync.RWMutex
	results  map[string][]model.RatingRow
	failures map[string]error
	rows     int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results:  make(map[string][]model.RatingRow),
		failures: make(map[string]error),
	}
}

// PutResult implements Store. A result clears an earlier failure of the
// same game.
func (s *MemoryStore) PutResult(_ context.Context, res model.GameResult) error {
	if res.GameID == "" {
		return ErrEmptyGameID
	}
	rows := make([]model.RatingRow, len(res.Rows))
	copy(rows, res.Rows)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows += len(rows) - len(s.results[res.GameID])
	s.results[res.GameID] = rows
	delete(s.failures, res.GameID)
	metrics.UpdateStoredRows(s.rows)
	return nil
}

// PutFailure implements Store.
func (s *MemoryStore) PutFailure(_ context.Context, f model.GameFailure) error {
	if f.GameID == "" {
		return ErrEmptyGameID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[f.GameID] = f.Err
	return nil
}

// Rows implements Store.
func (s *MemoryStore) Rows(_ context.Context) ([]model.RatingRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RatingRow, 0, s.rows)
	for _, id := range sortedKeys(s.results) {
		out = append(out, s.results[id]...)
	}
	return out, nil
}

// Failures implements Store.
func (s *MemoryStore) Failures(_ context.Context) ([]model.GameFailure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.GameFailure, 0, len(s.failures))
	for _, id := range sortedKeys(s.failures) {
		out = append(out, model.GameFailure{GameID: id, Err: s.failures[id]})
	}
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows
}

// Games returns the number of games with a stored result.
func (s *MemoryStore) Games() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
