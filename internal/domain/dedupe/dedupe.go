// Package dedupe drops repeated play-by-play rows.
//
// Exported play-by-play files sometimes repeat a row verbatim. A repeated
// event would be counted twice by the possession logic, so rows are keyed by
// (game, period, event number) and only the first occurrence is kept.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/possession/internal/domain/model"
)

// Deduper records seen event keys.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Size returns the number of keys currently remembered.
	Size() int64
}

// inMemoryDeduper implements Deduper with a map plus, in bounded mode, a ring
// of keys in insertion order for eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string // insertion order; only used when maxSize > 0
	next    int      // ring slot to overwrite next
	maxSize int      // 0 or negative = unbounded
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.ring = make([]string, 0, d.maxSize)
	}
	return d
}

// SeenAndRecord atomically checks if key was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}

	if d.maxSize > 0 {
		if len(d.ring) < d.maxSize {
			d.ring = append(d.ring, key)
		} else {
			// Full: overwrite the oldest slot.
			delete(d.seen, d.ring[d.next])
			d.ring[d.next] = key
			d.next = (d.next + 1) % d.maxSize
			d.size.Add(-1)
		}
	}
	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

// Filter returns events with repeated rows removed, in their original order,
// and the number of rows dropped.
func Filter(ctx context.Context, d Deduper, events []model.Event) ([]model.Event, int) {
	kept := make([]model.Event, 0, len(events))
	dropped := 0
	for i := range events {
		if d.SeenAndRecord(ctx, events[i].Key()) {
			dropped++
			continue
		}
		kept = append(kept, events[i])
	}
	return kept, dropped
}
