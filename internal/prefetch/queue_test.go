package prefetch

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestQueue_FIFOWithinPriority(t *testing.T) {
	q := NewQueue(10)

	for _, ch := range []rune{'a', 'b', 'c'} {
		if err := q.Enqueue(Job{Char: ch, Priority: PriorityLow}); err != nil {
			t.Fatalf("Enqueue %q: %v", ch, err)
		}
	}

	for _, want := range []rune{'a', 'b', 'c'} {
		job, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if job.Char != want {
			t.Errorf("dequeued %q, want %q", job.Char, want)
		}
	}
}

func TestQueue_PriorityOrdering(t *testing.T) {
	q := NewQueue(10)

	jobs := []Job{
		{Char: 'a', Priority: PriorityLow},
		{Char: 'B', Priority: PriorityHigh},
		{Char: 'c', Priority: PriorityLow},
		{Char: 'D', Priority: PriorityHigh},
	}
	for _, job := range jobs {
		if err := q.Enqueue(job); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	// High-priority jobs first, FIFO within each level.
	for _, want := range []rune{'B', 'D', 'a', 'c'} {
		job, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if job.Char != want {
			t.Errorf("dequeued %q, want %q", job.Char, want)
		}
	}
}

func TestQueue_DequeueBlocksUntilEnqueue(t *testing.T) {
	q := NewQueue(10)

	got := make(chan Job, 1)
	go func() {
		job, err := q.Dequeue()
		if err != nil {
			return
		}
		got <- job
	}()

	// Give the consumer time to block.
	time.Sleep(20 * time.Millisecond)
	if err := q.Enqueue(Job{Char: 'z'}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	select {
	case job := <-got:
		if job.Char != 'z' {
			t.Errorf("dequeued %q, want 'z'", job.Char)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Dequeue never woke up")
	}
}

func TestQueue_EnqueueAppliesBackpressure(t *testing.T) {
	q := NewQueue(1)
	if err := q.Enqueue(Job{Char: 'a'}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- q.Enqueue(Job{Char: 'b'})
	}()

	select {
	case <-done:
		t.Fatal("Enqueue returned while the queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	if _, err := q.Dequeue(); err != nil {
		t.Fatalf("Dequeue: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("blocked Enqueue = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("blocked Enqueue never completed")
	}
}

func TestQueue_CloseDrainsRemainingJobs(t *testing.T) {
	q := NewQueue(10)
	for _, ch := range []rune{'a', 'b'} {
		if err := q.Enqueue(Job{Char: ch}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	q.Close()
	q.Close() // closing twice is fine

	if err := q.Enqueue(Job{Char: 'c'}); err != ErrQueueClosed {
		t.Errorf("Enqueue after close = %v, want ErrQueueClosed", err)
	}

	for _, want := range []rune{'a', 'b'} {
		job, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue after close: %v", err)
		}
		if job.Char != want {
			t.Errorf("dequeued %q, want %q", job.Char, want)
		}
	}

	if _, err := q.Dequeue(); err != ErrQueueClosed {
		t.Errorf("Dequeue on drained queue = %v, want ErrQueueClosed", err)
	}
}

func TestQueue_CloseWakesBlockedDequeue(t *testing.T) {
	q := NewQueue(10)

	done := make(chan error, 1)
	go func() {
		_, err := q.Dequeue()
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case err := <-done:
		if err != ErrQueueClosed {
			t.Errorf("Dequeue after close = %v, want ErrQueueClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close never woke the blocked Dequeue")
	}
}

func TestQueue_Stats(t *testing.T) {
	q := NewQueue(10)
	for i := 0; i < 3; i++ {
		if err := q.Enqueue(Job{Char: rune('a' + i)}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	if _, err := q.Dequeue(); err != nil {
		t.Fatalf("Dequeue: %v", err)
	}

	stats := q.Stats()
	if stats.Enqueued != 3 || stats.Dequeued != 1 {
		t.Errorf("enqueued/dequeued = %d/%d, want 3/1", stats.Enqueued, stats.Dequeued)
	}
	if stats.Peak != 3 || stats.Current != 2 {
		t.Errorf("peak/current = %d/%d, want 3/2", stats.Peak, stats.Current)
	}
}

func TestPool_DrainsEveryJob(t *testing.T) {
	q := NewQueue(50)

	var mu sync.Mutex
	worked := make(map[rune]bool)

	pool := NewPool(q, 3, func(_ context.Context, job Job) {
		mu.Lock()
		worked[job.Char] = true
		mu.Unlock()
	}, nil)
	pool.Start(context.Background())

	for ch := 'a'; ch <= 'z'; ch++ {
		if err := q.Enqueue(Job{Char: ch}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	q.Close()
	pool.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(worked) != 26 {
		t.Errorf("worked %d jobs, want 26", len(worked))
	}
}

func TestPool_CanceledContextSkipsWork(t *testing.T) {
	q := NewQueue(10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var mu sync.Mutex
	count := 0
	pool := NewPool(q, 2, func(context.Context, Job) {
		mu.Lock()
		count++
		mu.Unlock()
	}, nil)
	pool.Start(ctx)

	if err := q.Enqueue(Job{Char: 'a'}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	q.Close()
	pool.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Errorf("worked %d jobs under a canceled context, want 0", count)
	}
}
