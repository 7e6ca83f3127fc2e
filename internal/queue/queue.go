// Package queue implements the orchestrator's pending-task queue: a
// FIFO with one write-lock-aware twist, PopEligible, that lets the
// scheduler keep dispatching read-only tasks while a write task is in
// flight instead of stalling behind it.
package queue

import (
	"sync"

	"github.com/harrison/orchestrator/internal/models"
)

// TaskQueue is the contract the scheduler dispatches against.
type TaskQueue interface {
	PushAll(tasks []models.Task)
	Pop() (models.Task, bool)
	PopEligible(writesInFlight int) (models.Task, bool, bool)
	Len() int
	IsEmpty() bool
}

// InMemoryTaskQueue is a mutex-guarded FIFO.
type InMemoryTaskQueue struct {
	mu    sync.Mutex
	tasks []models.Task
}

// NewInMemoryTaskQueue returns an empty queue.
func NewInMemoryTaskQueue() *InMemoryTaskQueue {
	return &InMemoryTaskQueue{}
}

// PushAll appends tasks to the back of the queue, preserving order.
func (q *InMemoryTaskQueue) PushAll(tasks []models.Task) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, tasks...)
}

// Pop removes and returns the task at the front of the queue.
func (q *InMemoryTaskQueue) Pop() (models.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return models.Task{}, false
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	return t, true
}

// PopEligible pops the first task eligible to run given writesInFlight
// write-locking tasks already dispatched: with no writes in flight, the
// front of the queue is always eligible (including a write task, which
// then becomes the one in-flight write); with one or more writes in
// flight, the front of the queue is skipped over for the first
// non-write task found, since only one write may run at a time and a
// write task must never start alongside another in-flight task. It
// returns the task, whether it needs the write lock, and whether a
// task was found at all.
func (q *InMemoryTaskQueue) PopEligible(writesInFlight int) (models.Task, bool, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return models.Task{}, false, false
	}
	if writesInFlight <= 0 {
		t := q.tasks[0]
		q.tasks = q.tasks[1:]
		return t, t.NeedsWriteLock(), true
	}
	for i, t := range q.tasks {
		if !t.NeedsWriteLock() {
			q.tasks = append(q.tasks[:i], q.tasks[i+1:]...)
			return t, false, true
		}
	}
	return models.Task{}, false, false
}

// Len returns the number of tasks still queued.
func (q *InMemoryTaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// IsEmpty reports whether the queue has no tasks left.
func (q *InMemoryTaskQueue) IsEmpty() bool {
	return q.Len() == 0
}

var _ TaskQueue = (*InMemoryTaskQueue)(nil)
