package jobsrv

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/errx"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/job"
	"github.com/Abraxas-365/hirehub/recruitment/job/jobinfra"
)

type fakeRefresher struct {
	calls []kernel.JobID
}

func (f *fakeRefresher) RefreshJob(ctx context.Context, id kernel.JobID) error {
	f.calls = append(f.calls, id)
	return nil
}

func newService() (*JobService, *fakeRefresher) {
	r := &fakeRefresher{}
	return NewJobService(jobinfra.NewMemoryJobRepository(), r), r
}

func ptr[T any](v T) *T { return &v }

func TestCreateJobStartsOpen(t *testing.T) {
	svc, _ := newService()
	j, err := svc.CreateJob(context.Background(), job.CreateJobRequest{
		Title: "Backend Engineer", Type: "engineering", SalaryRange: "20-30k",
	}, "op-1")
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if !j.IsOpen() {
		t.Fatalf("expected open job, got %s", j.Status)
	}
}

func TestUpdateJobRefreshesOnlyForSnapshotFields(t *testing.T) {
	ctx := context.Background()
	svc, refresher := newService()
	j, _ := svc.CreateJob(ctx, job.CreateJobRequest{Title: "A", Type: "t", SalaryRange: "1"}, "op")

	if _, err := svc.UpdateJob(ctx, j.ID, job.UpdateJobRequest{Duty: ptr(kernel.JobDuty("write code"))}); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	if len(refresher.calls) != 0 {
		t.Fatalf("duty is not copied into views, got %d refreshes", len(refresher.calls))
	}

	if _, err := svc.UpdateJob(ctx, j.ID, job.UpdateJobRequest{Title: ptr(kernel.JobTitle("B"))}); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	if len(refresher.calls) != 1 || refresher.calls[0] != j.ID {
		t.Fatalf("expected one refresh of %s, got %v", j.ID, refresher.calls)
	}

	// same value again is not a change
	if _, err := svc.UpdateJob(ctx, j.ID, job.UpdateJobRequest{Title: ptr(kernel.JobTitle("B"))}); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	if len(refresher.calls) != 1 {
		t.Fatalf("unchanged title should not refresh, got %d", len(refresher.calls))
	}
}

func TestCloseAndReopen(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	j, _ := svc.CreateJob(ctx, job.CreateJobRequest{Title: "A", Type: "t", SalaryRange: "1"}, "op")

	closed, err := svc.CloseJob(ctx, j.ID)
	if err != nil {
		t.Fatalf("CloseJob: %v", err)
	}
	if closed.IsOpen() || closed.ClosedAt == nil {
		t.Fatal("job should be closed with a timestamp")
	}

	if _, err := svc.CloseJob(ctx, j.ID); !errx.IsCode(err, job.CodeJobAlreadyClosed) {
		t.Fatalf("expected ALREADY_CLOSED, got %v", err)
	}

	reopened, err := svc.ReopenJob(ctx, j.ID)
	if err != nil {
		t.Fatalf("ReopenJob: %v", err)
	}
	if !reopened.IsOpen() || reopened.ClosedAt != nil {
		t.Fatal("job should be open again")
	}
}

func TestListGroupedJobsCapsEachType(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for i := 0; i < 5; i++ {
		if _, err := svc.CreateJob(ctx, job.CreateJobRequest{Title: "eng", Type: "engineering", SalaryRange: "x"}, "op"); err != nil {
			t.Fatal(err)
		}
	}
	sales, _ := svc.CreateJob(ctx, job.CreateJobRequest{Title: "sales", Type: "sales", SalaryRange: "x"}, "op")
	closed, _ := svc.CreateJob(ctx, job.CreateJobRequest{Title: "ops", Type: "operations", SalaryRange: "x"}, "op")
	if _, err := svc.CloseJob(ctx, closed.ID); err != nil {
		t.Fatal(err)
	}

	groups, err := svc.ListGroupedJobs(ctx)
	if err != nil {
		t.Fatalf("ListGroupedJobs: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups (closed jobs hidden), got %d", len(groups))
	}
	if groups[0].Type != "engineering" || len(groups[0].Jobs) != GroupSize {
		t.Fatalf("expected %d engineering jobs, got %+v", GroupSize, groups[0])
	}
	if !groups[0].Jobs[0].CreatedAt.After(groups[0].Jobs[1].CreatedAt) {
		t.Fatal("jobs inside a group should be newest first")
	}
	if groups[1].Jobs[0].ID != sales.ID {
		t.Fatalf("expected sales job, got %s", groups[1].Jobs[0].ID)
	}
}

func TestListOpenJobsRejectsBadPagination(t *testing.T) {
	svc, _ := newService()
	_, err := svc.ListOpenJobs(context.Background(), kernel.PaginationOptions{Page: 0, PageSize: 10})
	if !errx.IsCode(err, job.CodeInvalidPagination) {
		t.Fatalf("expected INVALID_PAGINATION, got %v", err)
	}
}
