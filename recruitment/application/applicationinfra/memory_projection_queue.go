package applicationinfra

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/hirehub/recruitment/application"
)

// MemoryProjectionQueue is an in-process application.ProjectionQueue backed
// by a buffered channel
type MemoryProjectionQueue struct {
	ready chan application.ProjectionTask

	mu      sync.Mutex
	delayed []delayedTask
	now     func() time.Time
}

type delayedTask struct {
	task application.ProjectionTask
	due  time.Time
}

func NewMemoryProjectionQueue(capacity int) *MemoryProjectionQueue {
	return &MemoryProjectionQueue{
		ready: make(chan application.ProjectionTask, capacity),
		now:   time.Now,
	}
}

var _ application.ProjectionQueue = (*MemoryProjectionQueue)(nil)

// Enqueue fails with QueueUnavailable when the buffer is full
func (q *MemoryProjectionQueue) Enqueue(ctx context.Context, task application.ProjectionTask) error {
	select {
	case q.ready <- task:
		return nil
	default:
		return application.ErrQueueUnavailable(nil).WithDetail("reason", "queue full")
	}
}

func (q *MemoryProjectionQueue) EnqueueDelayed(ctx context.Context, task application.ProjectionTask, delay time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.delayed = append(q.delayed, delayedTask{task: task, due: q.now().Add(delay)})
	return nil
}

func (q *MemoryProjectionQueue) Dequeue(ctx context.Context, timeout time.Duration) (*application.ProjectionTask, error) {
	select {
	case task := <-q.ready:
		return &task, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case task := <-q.ready:
		return &task, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemoryProjectionQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	q.mu.Lock()
	now := q.now()
	var due []application.ProjectionTask
	pending := q.delayed[:0]
	for _, d := range q.delayed {
		if !d.due.After(now) {
			due = append(due, d.task)
		} else {
			pending = append(pending, d)
		}
	}
	q.delayed = pending
	q.mu.Unlock()

	moved := 0
	for _, task := range due {
		if err := q.Enqueue(ctx, task); err != nil {
			// put it back for the next tick
			_ = q.EnqueueDelayed(ctx, task, 0)
			continue
		}
		moved++
	}
	return moved, nil
}
