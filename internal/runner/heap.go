package runner

import "container/heap"

// taskHeap implements container/heap.Interface for Task,
// sorted by RunAt (earliest first — min-heap).
type taskHeap []Task

func (h taskHeap) Len() int           { return len(h) }
func (h taskHeap) Less(i, j int) bool { return h[i].RunAt.Before(h[j].RunAt) }
func (h taskHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(Task))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// heapPush adds a Task to the heap, maintaining heap invariant.
func heapPush(h *taskHeap, t Task) {
	heap.Push(h, t)
}

// heapPop removes and returns the Task with the earliest RunAt.
// Panics if the heap is empty.
func heapPop(h *taskHeap) Task {
	return heap.Pop(h).(Task)
}
