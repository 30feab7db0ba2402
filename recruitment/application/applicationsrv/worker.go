package applicationsrv

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/errx"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/recruitment/application"
)

// ProjectionWorker drains the projection queue with a pool of goroutines
type ProjectionWorker struct {
	projector   *Projector
	queue       application.ProjectionQueue
	workers     int
	maxAttempts int

	// PollTimeout bounds each blocking dequeue
	PollTimeout time.Duration
	// PromoteEvery is how often delayed tasks are moved to the ready queue
	PromoteEvery time.Duration

	wg sync.WaitGroup
}

func NewProjectionWorker(projector *Projector, queue application.ProjectionQueue, workers, maxAttempts int) *ProjectionWorker {
	return &ProjectionWorker{
		projector:    projector,
		queue:        queue,
		workers:      workers,
		maxAttempts:  maxAttempts,
		PollTimeout:  5 * time.Second,
		PromoteEvery: 5 * time.Second,
	}
}

// Start launches the pool. It returns immediately; cancel ctx to stop and
// call Wait to drain.
func (w *ProjectionWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d projection workers", w.workers)

	w.wg.Add(1)
	go w.moveDelayedTasks(ctx)

	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.processTasks(ctx, i)
	}
}

// Wait blocks until every goroutine started by Start has returned
func (w *ProjectionWorker) Wait() {
	w.wg.Wait()
}

func (w *ProjectionWorker) processTasks(ctx context.Context, workerID int) {
	defer w.wg.Done()
	logx.Debugf("Projection worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Debugf("Projection worker %d stopping", workerID)
			return
		default:
		}

		task, err := w.queue.Dequeue(ctx, w.PollTimeout)
		if err != nil {
			if ctx.Err() == nil {
				logx.Errorf("Projection worker %d dequeue error: %v", workerID, err)
				time.Sleep(time.Second)
			}
			continue
		}
		if task == nil {
			continue
		}

		if err := w.Process(ctx, *task); err != nil {
			logx.Errorf("Projection worker %d: %s task %s failed: %v", workerID, task.Kind, task.ID, err)
		}
	}
}

// Process executes one task and schedules a retry when it failed for a
// retryable reason
func (w *ProjectionWorker) Process(ctx context.Context, task application.ProjectionTask) error {
	err := w.execute(ctx, task)
	if err == nil || !isRetryable(err) {
		return err
	}

	task.Attempt++
	if task.Attempt >= w.maxAttempts {
		return fmt.Errorf("giving up after %d attempts: %w", task.Attempt, err)
	}

	delay := backoff(task.Attempt)
	if qerr := w.queue.EnqueueDelayed(ctx, task, delay); qerr != nil {
		return fmt.Errorf("reschedule after %v: %w", err, qerr)
	}
	logx.Infof("Retrying %s task %s in %s (attempt %d)", task.Kind, task.ID, delay, task.Attempt+1)
	return nil
}

func (w *ProjectionWorker) execute(ctx context.Context, task application.ProjectionTask) error {
	switch task.Kind {
	case application.TaskProjectApplication:
		err := w.projector.ProjectByID(ctx, kernel.ApplicationID(task.ID))
		if errx.IsCode(err, application.CodeApplicationNotFound) {
			// replaced or withdrawn since it was queued
			return nil
		}
		return err
	case application.TaskRefreshCandidate:
		result, err := w.projector.RefreshCandidate(ctx, kernel.CandidateID(task.ID))
		w.retryStale(ctx, task, result)
		return err
	case application.TaskRefreshJob:
		result, err := w.projector.RefreshJob(ctx, kernel.JobID(task.ID))
		w.retryStale(ctx, task, result)
		return err
	default:
		return fmt.Errorf("unknown task kind %q", task.Kind)
	}
}

// retryStale queues a single-application projection for every view a
// refresh failed to write for a retryable reason
func (w *ProjectionWorker) retryStale(ctx context.Context, task application.ProjectionTask, result RefreshResult) {
	if result.Failed == 0 {
		return
	}
	logx.Warnf("Refresh of %s %s left %d views stale, retrying %d", task.Kind, task.ID, result.Failed, len(result.Retry))

	for _, id := range result.Retry {
		retry := application.ProjectionTask{
			Kind:       application.TaskProjectApplication,
			ID:         id.String(),
			Attempt:    1,
			EnqueuedAt: time.Now(),
		}
		if err := w.queue.EnqueueDelayed(ctx, retry, backoff(retry.Attempt)); err != nil {
			logx.Errorf("Failed to schedule projection of %s: %v", id, err)
		}
	}
}

func (w *ProjectionWorker) moveDelayedTasks(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.PromoteEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := w.queue.MoveDelayedToReady(ctx)
			if err != nil {
				logx.Errorf("Failed to move delayed projection tasks: %v", err)
			} else if count > 0 {
				logx.Debugf("Moved %d delayed projection tasks to ready queue", count)
			}
		}
	}
}

func isRetryable(err error) bool {
	e, ok := errx.As(err)
	return ok && e.Type.Retryable()
}

// backoff doubles from one second, capped at one minute
func backoff(attempt int) time.Duration {
	d := time.Second << min(attempt-1, 6)
	return min(d, time.Minute)
}
