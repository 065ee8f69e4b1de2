package prefetch

import (
	"container/heap"
	"errors"
	"sync"
)

// DefaultQueueSize bounds the warm queue when no size is given.
const DefaultQueueSize = 256

// Queue errors.
var (
	// ErrQueueClosed is returned when enqueueing on a closed queue or
	// dequeueing after the queue has fully drained.
	ErrQueueClosed = errors.New("queue is closed")
)

// Priority orders warm jobs. Higher priorities dequeue first; jobs of
// equal priority dequeue in arrival order.
type Priority int

const (
	// PriorityLow is background repertoire warming.
	PriorityLow Priority = iota
	// PriorityHigh is warming for text the user asked about.
	PriorityHigh
)

// Job is one character resolution to perform ahead of need.
type Job struct {
	Char     rune
	Style    string
	Priority Priority
}

// Stats tracks queue activity.
type Stats struct {
	Enqueued int64
	Dequeued int64
	Peak     int
	Current  int
}

// Queue is a bounded priority queue of warm jobs. Enqueue applies
// backpressure when the queue is full. Close stops intake but queued
// jobs still drain; Dequeue reports ErrQueueClosed only once the
// queue is both closed and empty.
type Queue struct {
	jobs    jobHeap
	maxSize int
	seq     int64

	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	closed bool
	stats  Stats
}

// NewQueue creates a queue holding at most maxSize jobs. Zero or
// negative means DefaultQueueSize.
func NewQueue(maxSize int) *Queue {
	if maxSize <= 0 {
		maxSize = DefaultQueueSize
	}
	q := &Queue{maxSize: maxSize}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	heap.Init(&q.jobs)
	return q
}

// Enqueue adds a job, blocking while the queue is full.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.jobs) >= q.maxSize && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return ErrQueueClosed
	}

	q.seq++
	heap.Push(&q.jobs, &queuedJob{job: job, seq: q.seq})

	q.stats.Enqueued++
	if n := len(q.jobs); n > q.stats.Peak {
		q.stats.Peak = n
	}

	q.notEmpty.Signal()
	return nil
}

// Dequeue removes the highest-priority job, blocking while the queue
// is empty and open.
func (q *Queue) Dequeue() (Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.jobs) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if len(q.jobs) == 0 {
		return Job{}, ErrQueueClosed
	}

	item := heap.Pop(&q.jobs).(*queuedJob)
	q.stats.Dequeued++
	q.notFull.Signal()
	return item.job, nil
}

// Len returns how many jobs are waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Close stops intake and wakes every waiter. Safe to call twice.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Stats returns a snapshot of queue activity.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	stats := q.stats
	stats.Current = len(q.jobs)
	return stats
}

// queuedJob carries the arrival sequence for FIFO ordering within a
// priority.
type queuedJob struct {
	job Job
	seq int64
}

type jobHeap []*queuedJob

func (h jobHeap) Len() int { return len(h) }

func (h jobHeap) Less(i, j int) bool {
	if h[i].job.Priority != h[j].job.Priority {
		return h[i].job.Priority > h[j].job.Priority
	}
	return h[i].seq < h[j].seq
}

func (h jobHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *jobHeap) Push(x interface{}) {
	*h = append(*h, x.(*queuedJob))
}

func (h *jobHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
