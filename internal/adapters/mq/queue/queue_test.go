package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/possession/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, model.GameInput{GameID: "g1"}) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	job := <-q.Dequeue(ctx)
	if job.GameID != "g1" {
		t.Errorf("expected g1, got %v", job.GameID)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if q.Capacity() != 2 {
		t.Fatalf("expected capacity 2, got %d", q.Capacity())
	}
	if !q.Enqueue(ctx, model.GameInput{GameID: "g1"}) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, model.GameInput{GameID: "g2"}) {
		t.Error("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, model.GameInput{GameID: "g3"}) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_DrainAfterClose(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !q.Enqueue(ctx, model.GameInput{GameID: fmt.Sprintf("g%d", i)}) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if q.Enqueue(ctx, model.GameInput{GameID: "late"}) {
		t.Error("expected enqueue to fail after closing")
	}

	var got []string
	timeout := time.After(time.Second)
	ch := q.Dequeue(ctx)
	for {
		select {
		case job, ok := <-ch:
			if !ok {
				if len(got) != 3 || got[0] != "g0" || got[2] != "g2" {
					t.Errorf("expected queued jobs in order, got %v", got)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got error: %v", err)
				}
				return
			}
			got = append(got, job.GameID)
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
}

func TestInMemoryQueue_ConcurrentConsumers(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		if !q.Enqueue(ctx, model.GameInput{GameID: fmt.Sprintf("g%03d", i)}) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	_ = q.Close()

	var (
		mu   sync.Mutex
		seen = make(map[string]int)
		wg   sync.WaitGroup
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range q.Dequeue(ctx) {
				mu.Lock()
				seen[job.GameID]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != 100 {
		t.Errorf("expected 100 distinct jobs, got %d", len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("job %s delivered %d times", id, n)
		}
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A full queue with a cancelled context must not block.
	_ = q.Enqueue(context.Background(), model.GameInput{GameID: "g1"})
	if q.Enqueue(ctx, model.GameInput{GameID: "g2"}) {
		t.Error("expected enqueue to fail")
	}
}

func TestInMemoryQueue_PutWaitsForRoom(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()

	if err := q.Put(ctx, model.GameInput{GameID: "g1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- q.Put(ctx, model.GameInput{GameID: "g2"}) }()

	select {
	case err := <-done:
		t.Fatalf("put returned before room was made: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	jobs := q.Dequeue(ctx)
	if j := <-jobs; j.GameID != "g1" {
		t.Fatalf("expected g1, got %s", j.GameID)
	}
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j := <-jobs; j.GameID != "g2" {
		t.Fatalf("expected g2, got %s", j.GameID)
	}
}

func TestInMemoryQueue_PutErrors(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx, cancel := context.WithCancel(context.Background())

	_ = q.Put(ctx, model.GameInput{GameID: "g1"})
	cancel()
	if err := q.Put(ctx, model.GameInput{GameID: "g2"}); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	_ = q.Close()
	if err := q.Put(context.Background(), model.GameInput{GameID: "g3"}); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
