package runner

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestRunner_FiresAfterDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(ctx)

	fired := make(chan string, 1)
	r.Schedule(Task{
		ID:    "t1",
		RunAt: time.Now().Add(100 * time.Millisecond),
		Fn:    func() { fired <- "t1" },
	})

	select {
	case id := <-fired:
		if id != "t1" {
			t.Fatalf("got %q, want t1", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("task did not fire")
	}
}

func TestRunner_PastDueFiresImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(ctx)

	fired := make(chan struct{}, 1)
	r.Schedule(Task{
		ID:    "late",
		RunAt: time.Now().Add(-time.Minute),
		Fn:    func() { fired <- struct{}{} },
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("past-due task did not fire")
	}
}

func TestRunner_IndependentTasksAllFire(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(ctx)

	var mu sync.Mutex
	fired := make(map[string]bool)
	done := make(chan struct{}, 3)
	for _, id := range []string{"a", "b", "c"} {
		id := id
		r.Schedule(Task{
			ID:    id,
			RunAt: time.Now().Add(50 * time.Millisecond),
			Fn: func() {
				mu.Lock()
				fired[id] = true
				mu.Unlock()
				done <- struct{}{}
			},
		})
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("not all tasks fired")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for _, id := range []string{"a", "b", "c"} {
		if !fired[id] {
			t.Errorf("task %s did not fire", id)
		}
	}
}

func TestRunner_ShutdownDropsPending(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	r := New(ctx)

	fired := make(chan struct{}, 1)
	r.Schedule(Task{
		ID:    "dropped",
		RunAt: time.Now().Add(300 * time.Millisecond),
		Fn:    func() { fired <- struct{}{} },
	})

	// Let the goroutine pick the task up, then shut down before it is due.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-fired:
		t.Fatal("task fired after shutdown")
	case <-time.After(600 * time.Millisecond):
	}
}

func TestRunner_SlowCallbackDoesNotBlockSiblings(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(ctx)

	block := make(chan struct{})
	fast := make(chan struct{}, 1)

	r.Schedule(Task{
		ID:    "slow",
		RunAt: time.Now().Add(20 * time.Millisecond),
		Fn:    func() { <-block },
	})
	r.Schedule(Task{
		ID:    "fast",
		RunAt: time.Now().Add(60 * time.Millisecond),
		Fn:    func() { fast <- struct{}{} },
	})

	select {
	case <-fast:
	case <-time.After(2 * time.Second):
		t.Fatal("fast task was blocked by a slow sibling")
	}
	close(block)
}
