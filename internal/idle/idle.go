// Package idle runs deferred work on the render goroutine inside a per-frame time budget.
// Scheduled tasks can be cancelled until they run; cancelling afterwards is a no-op.
package idle

import "time"

type task struct {
	fn        func()
	cancelled bool
}

// Queue is a FIFO of deferred tasks. It is not safe for concurrent use.
type Queue struct {
	tasks []*task
	ran   int
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Schedule appends fn and returns a func that removes it if it has not run yet.
func (q *Queue) Schedule(fn func()) (cancel func()) {
	t := &task{fn: fn}
	q.tasks = append(q.tasks, t)
	return func() { t.cancelled = true }
}

// Run executes queued tasks in order until the budget is spent. At least one live task runs per
// call so a slow frame rate still makes progress; budget <= 0 drains the queue. It returns the
// number of tasks executed.
func (q *Queue) Run(budget time.Duration) int {
	start := time.Now()
	n := 0
	for len(q.tasks) > 0 {
		t := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		if t.cancelled {
			continue
		}
		t.cancelled = true
		t.fn()
		n++
		if budget > 0 && time.Since(start) >= budget {
			break
		}
	}
	if len(q.tasks) == 0 {
		q.tasks = nil
	}
	q.ran += n
	return n
}

// Len returns the number of queued tasks, cancelled ones included until they are skipped.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Ran returns the total number of tasks executed.
func (q *Queue) Ran() int {
	return q.ran
}

// Clear drops every queued task.
func (q *Queue) Clear() {
	q.tasks = nil
}
