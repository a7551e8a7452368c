package runner

import (
	"container/heap"
	"testing"
	"time"
)

func TestHeap_PopOrder(t *testing.T) {
	base := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	h := &taskHeap{}
	heap.Init(h)
	for _, offset := range []time.Duration{3 * time.Hour, time.Hour, 2 * time.Hour} {
		heapPush(h, Task{ID: offset.String(), RunAt: base.Add(offset)})
	}

	var prev time.Time
	for h.Len() > 0 {
		task := heapPop(h)
		if !prev.IsZero() && task.RunAt.Before(prev) {
			t.Fatalf("pop order violated: %v before %v", task.RunAt, prev)
		}
		prev = task.RunAt
	}
}

func TestHeap_EqualTimes(t *testing.T) {
	at := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	h := &taskHeap{}
	heap.Init(h)
	heapPush(h, Task{ID: "a", RunAt: at})
	heapPush(h, Task{ID: "b", RunAt: at})

	if h.Len() != 2 {
		t.Fatalf("got len %d, want 2", h.Len())
	}
	first, second := heapPop(h), heapPop(h)
	if !first.RunAt.Equal(second.RunAt) {
		t.Errorf("equal trigger times changed: %v vs %v", first.RunAt, second.RunAt)
	}
}
