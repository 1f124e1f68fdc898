// Package queue provides the bounded task buffer between detection and
// upload. Capacity is fixed at construction; the queue never grows and never
// blocks.
package queue

import (
	"sync"

	"github.com/snapcourier/snapcourier/pkg/model"
)

// DefaultCapacity bounds pending uploads to eight slots.
const DefaultCapacity = 8

// Queue is a fixed-capacity, mutex-guarded FIFO ring of upload tasks. It is
// safe for concurrent producers and a single consumer.
type Queue struct {
	mu    sync.Mutex
	slots []model.UploadTask
	head  int
	tail  int
	count int
}

// New returns a queue holding at most capacity tasks. A capacity below one
// falls back to DefaultCapacity.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Queue{slots: make([]model.UploadTask, capacity)}
}

// Add copies a task into the tail slot. It returns false without mutating
// state when the queue is full or the path exceeds model.MaxPathLen; it never
// blocks.
func (q *Queue) Add(path string, size int64) bool {
	if len(path) > model.MaxPathLen {
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == len(q.slots) {
		return false
	}
	q.slots[q.tail] = model.UploadTask{Path: path, Size: size}
	q.tail = (q.tail + 1) % len(q.slots)
	q.count++
	return true
}

// Get removes and returns the head task. The second result is false when the
// queue is empty.
func (q *Queue) Get() (model.UploadTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return model.UploadTask{}, false
	}
	task := q.slots[q.head]
	q.slots[q.head] = model.UploadTask{}
	q.head = (q.head + 1) % len(q.slots)
	q.count--
	return task, true
}

// Len returns a point-in-time occupancy snapshot. Concurrent Add/Get calls
// may change it immediately, so treat it as a heuristic, not a guarantee.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the fixed capacity.
func (q *Queue) Cap() int {
	return len(q.slots)
}
