package applicationsrv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/hirehub/recruitment/application"
)

func TestProcessRetriesUntilMaxAttempts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addCandidate(t, "c", "Retry")
	f.addJob(t, "j", "Role", "t")
	result, _ := f.service.Submit(ctx, "c", "j")

	f.store.FailViewWrites(errors.New("timeout"))
	task := application.ProjectionTask{Kind: application.TaskProjectApplication, ID: result.ApplicationID.String()}

	if err := f.worker.Process(ctx, task); err != nil {
		t.Fatalf("first failure should be rescheduled, got %v", err)
	}

	task.Attempt = 2
	if err := f.worker.Process(ctx, task); err == nil {
		t.Fatal("expected give-up error at max attempts")
	}
}

// delayRecorder keeps the requested delays and schedules every task as due
type delayRecorder struct {
	application.ProjectionQueue
	delays []time.Duration
}

func (q *delayRecorder) EnqueueDelayed(ctx context.Context, task application.ProjectionTask, delay time.Duration) error {
	q.delays = append(q.delays, delay)
	return q.ProjectionQueue.EnqueueDelayed(ctx, task, 0)
}

func TestRefreshRequeuesViewsThatFailedToWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addCandidate(t, "c", "Before")
	f.addJob(t, "j", "Role", "t")
	result, _ := f.service.Submit(ctx, "c", "j")

	f.jobs.Delete("j")
	f.addJob(t, "j", "Renamed", "t")

	queue := &delayRecorder{ProjectionQueue: f.queue}
	worker := NewProjectionWorker(f.projector, queue, 1, 3)

	f.store.FailViewWrites(errors.New("connection reset"))
	refresh := application.ProjectionTask{Kind: application.TaskRefreshJob, ID: "j"}
	if err := worker.Process(ctx, refresh); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(queue.delays) != 1 || queue.delays[0] != backoff(1) {
		t.Fatalf("expected one retry after %v, got %v", backoff(1), queue.delays)
	}

	f.store.FailViewWrites(nil)
	if moved, _ := f.queue.MoveDelayedToReady(ctx); moved != 1 {
		t.Fatalf("expected one delayed task, got %d", moved)
	}
	task, err := f.queue.Dequeue(ctx, 0)
	if err != nil || task == nil {
		t.Fatalf("expected a task, got %v %v", task, err)
	}
	if task.Kind != application.TaskProjectApplication || task.ID != result.ApplicationID.String() {
		t.Fatalf("unexpected task %+v", task)
	}
	if err := worker.Process(ctx, *task); err != nil {
		t.Fatalf("Process retry: %v", err)
	}

	v, err := f.service.GetView(ctx, result.ApplicationID)
	if err != nil || v.Job.Title != "Renamed" {
		t.Fatalf("view should carry the new title, got %+v %v", v, err)
	}
}

func TestProcessSkipsSupersededApplication(t *testing.T) {
	f := newFixture(t)
	task := application.ProjectionTask{Kind: application.TaskProjectApplication, ID: "gone"}
	if err := f.worker.Process(context.Background(), task); err != nil {
		t.Fatalf("stale task should be dropped quietly, got %v", err)
	}
}

func TestProcessRejectsUnknownKind(t *testing.T) {
	f := newFixture(t)
	if err := f.worker.Process(context.Background(), application.ProjectionTask{Kind: "bogus"}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestWorkerDrainsQueue(t *testing.T) {
	f := newFixture(t)
	f.addCandidate(t, "c", "Before")
	f.addJob(t, "j", "Role", "t")
	result, _ := f.service.Submit(context.Background(), "c", "j")

	f.jobs.Delete("j")
	f.addJob(t, "j", "Renamed", "t")

	ctx, cancel := context.WithCancel(context.Background())
	f.worker.PollTimeout = 10 * time.Millisecond
	f.worker.Start(ctx)

	if err := f.scheduler.RefreshJob(ctx, "j"); err != nil {
		t.Fatalf("RefreshJob: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v, err := f.service.GetView(ctx, result.ApplicationID)
		if err == nil && v.Job.Title == "Renamed" {
			cancel()
			f.worker.Wait()
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	f.worker.Wait()
	t.Fatal("worker did not refresh the view")
}

func TestBackoff(t *testing.T) {
	if backoff(1) != time.Second || backoff(2) != 2*time.Second {
		t.Fatalf("unexpected early backoff %v %v", backoff(1), backoff(2))
	}
	if backoff(20) != time.Minute {
		t.Fatalf("backoff must cap at a minute, got %v", backoff(20))
	}
}
