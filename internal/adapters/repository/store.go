// Package repository stores the outcome of every rated game.
package repository

import (
	"context"

	"github.com/okian/possession/internal/domain/model"
)

// Store provides read/write access to rating results.
type Store interface {
	// PutResult stores the rows of a rated game, replacing any earlier
	// result for the same game.
	PutResult(ctx context.Context, res model.GameResult) error

	// PutFailure records a game that could not be rated.
	PutFailure(ctx context.Context, f model.GameFailure) error

	// Rows returns every stored row ordered by game id, then roster order.
	Rows(ctx context.Context) ([]model.RatingRow, error)

	// Failures returns every failed game ordered by game id.
	Failures(ctx context.Context) ([]model.GameFailure, error)

	// Count returns the number of stored rows.
	Count(ctx context.Context) int
}

// MultiStore writes to every store and reads from the first one.
type MultiStore struct {
	primary Store
	mirrors []Store
}

// NewMultiStore fans writes out to primary and mirrors.
func NewMultiStore(primary Store, mirrors ...Store) *MultiStore {
	return &MultiStore{primary: primary, mirrors: mirrors}
}

// PutResult implements Store.
func (m *MultiStore) PutResult(ctx context.Context, res model.GameResult) error {
	if err := m.primary.PutResult(ctx, res); err != nil {
		return err
	}
	for _, s := range m.mirrors {
		if err := s.PutResult(ctx, res); err != nil {
			return err
		}
	}
	return nil
}

// PutFailure implements Store.
func (m *MultiStore) PutFailure(ctx context.Context, f model.GameFailure) error {
	if err := m.primary.PutFailure(ctx, f); err != nil {
		return err
	}
	for _, s := range m.mirrors {
		if err := s.PutFailure(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// Rows implements Store.
func (m *MultiStore) Rows(ctx context.Context) ([]model.RatingRow, error) {
	return m.primary.Rows(ctx)
}

// Failures implements Store.
func (m *MultiStore) Failures(ctx context.Context) ([]model.GameFailure, error) {
	return m.primary.Failures(ctx)
}

// Count implements Store.
func (m *MultiStore) Count(ctx context.Context) int {
	return m.primary.Count(ctx)
}
