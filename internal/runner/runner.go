// Package runner fires callbacks at future wall-clock instants. It keeps a
// min-heap of pending tasks sorted by trigger time and a single goroutine
// that sleeps until the earliest one is due, with a 60-second max-sleep-cap
// so NTP steps, DST transitions and system sleep cannot strand a task.
//
// Tasks are one-shot and non-cancellable: once scheduled, the only way to
// stop one is to terminate the process, which silently drops everything
// still pending. Each due callback runs on its own goroutine, so tasks whose
// trigger times are close together run concurrently with each other and with
// the caller.
package runner

import (
	"container/heap"
	"context"
	"log/slog"
	"time"
)

const maxSleepCap = 60 * time.Second

// Task is one pending deferred callback.
type Task struct {
	// ID identifies the task in log output.
	ID string
	// RunAt is the wall-clock time at (or after) which Fn is invoked.
	RunAt time.Time
	// Fn is the callback. It runs exactly once, on its own goroutine.
	Fn func()
}

// Runner owns the heap and the scheduling goroutine.
type Runner struct {
	addChan chan Task
	ctx     context.Context
}

// New creates and starts a Runner. The scheduling goroutine exits when ctx
// is cancelled; pending tasks are dropped without firing.
func New(ctx context.Context) *Runner {
	r := &Runner{
		addChan: make(chan Task, 64),
		ctx:     ctx,
	}
	go r.run()
	return r
}

// Schedule enqueues a task. It never blocks past runner shutdown.
func (r *Runner) Schedule(t Task) {
	select {
	case r.addChan <- t:
	case <-r.ctx.Done():
	}
}

// run is the scheduling goroutine. It sleeps until the earliest task is due
// (capped at maxSleepCap), fires everything whose time has arrived, then
// recomputes the next wake-up.
func (r *Runner) run() {
	h := &taskHeap{}
	heap.Init(h)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	resetTimer := func() <-chan time.Time {
		if timer != nil {
			timer.Stop()
		}
		if h.Len() == 0 {
			// No tasks — block indefinitely on the add channel.
			return nil
		}
		dur := time.Until((*h)[0].RunAt)
		if dur > maxSleepCap {
			dur = maxSleepCap
		}
		if dur < 0 {
			dur = 0
		}
		timer = time.NewTimer(dur)
		return timer.C
	}

	timerCh := resetTimer()

	for {
		select {
		case <-r.ctx.Done():
			if h.Len() > 0 {
				slog.Info("Runner stopped with pending tasks dropped", "pending", h.Len())
			}
			return

		case t := <-r.addChan:
			heapPush(h, t)
			timerCh = resetTimer()

		case <-timerCh:
			now := time.Now()
			for h.Len() > 0 && !(*h)[0].RunAt.After(now) {
				t := heapPop(h)
				slog.Debug("Firing scheduled task", "id", t.ID, "run_at", t.RunAt.Format("15:04:05"))
				go t.Fn()
			}
			timerCh = resetTimer()
		}
	}
}
