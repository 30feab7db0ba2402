package applicationinfra

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/errx"
	"github.com/Abraxas-365/hirehub/recruitment/application"
)

func TestMemoryReplaceAssignsIncreasingTimestamps(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	fixed := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	store.clock = func() time.Time { return fixed }
	repo := store.Applications()

	a := application.NewSubmission("a1", "c", "j")
	b := application.NewSubmission("a2", "c", "j")
	if _, err := repo.Replace(ctx, a); err != nil {
		t.Fatal(err)
	}
	removed, err := repo.Replace(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Fatalf("expected one removed record, got %d", removed)
	}
	if !b.CreatedAt.After(a.CreatedAt) {
		t.Fatal("store clock must be strictly increasing")
	}
}

func TestMemoryViewReplaceRequiresLiveRecord(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Views().Replace(ctx, &application.View{ID: "nope", CandidateID: "c", JobID: "j"})
	if !errx.IsCode(err, application.CodeApplicationNotFound) {
		t.Fatalf("expected NOT_FOUND for a view without record, got %v", err)
	}
}

func TestMemoryViewReplaceTakesLiveStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	app := application.NewSubmission("a1", "c", "j")
	if _, err := store.Applications().Replace(ctx, app); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if _, err := store.Applications().UpdateStatus(ctx, "a1", application.ApplicationStatusHired); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	stale := &application.View{ID: "a1", CandidateID: "c", JobID: "j", Status: application.ApplicationStatusSubmitted}
	if err := store.Views().Replace(ctx, stale); err != nil {
		t.Fatalf("view Replace: %v", err)
	}

	got, _ := store.Views().GetByID(ctx, "a1")
	if got.Status != application.ApplicationStatusHired {
		t.Fatalf("view should carry the record status, got %s", got.Status)
	}
	if !got.CreatedAt.Equal(app.CreatedAt) {
		t.Fatalf("view created_at %v, record %v", got.CreatedAt, app.CreatedAt)
	}
}

func TestMemoryQueueDelayedTasks(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryProjectionQueue(1)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return now }

	task := application.ProjectionTask{Kind: application.TaskRefreshJob, ID: "j"}
	_ = q.EnqueueDelayed(ctx, task, time.Minute)

	if moved, _ := q.MoveDelayedToReady(ctx); moved != 0 {
		t.Fatalf("task is not due yet, moved %d", moved)
	}
	now = now.Add(time.Minute)
	if moved, _ := q.MoveDelayedToReady(ctx); moved != 1 {
		t.Fatalf("expected task to be promoted, moved %d", moved)
	}

	if err := q.Enqueue(ctx, task); !errx.IsCode(err, application.CodeQueueUnavailable) {
		t.Fatalf("full queue should report QUEUE_UNAVAILABLE, got %v", err)
	}

	got, err := q.Dequeue(ctx, time.Millisecond)
	if err != nil || got == nil || got.ID != "j" {
		t.Fatalf("unexpected dequeue %+v %v", got, err)
	}
	if got, _ := q.Dequeue(ctx, time.Millisecond); got != nil {
		t.Fatalf("queue should be empty, got %+v", got)
	}
}
