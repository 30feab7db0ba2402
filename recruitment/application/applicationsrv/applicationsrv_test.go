package applicationsrv

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Abraxas-365/hirehub/pkg/errx"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
	"github.com/Abraxas-365/hirehub/recruitment/job"
)

func TestSubmitResubmissionScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addCandidate(t, "cand1", "Li Lei")
	f.addJob(t, "job1", "Backend Engineer", "engineering")

	first, err := f.service.Submit(ctx, "cand1", "job1")
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if first.WasResubmission || !first.Projected {
		t.Fatalf("unexpected first result %+v", first)
	}

	second, err := f.service.Submit(ctx, "cand1", "job1")
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if !second.WasResubmission {
		t.Fatal("second submission should be a resubmission")
	}
	if second.ApplicationID == first.ApplicationID {
		t.Fatal("resubmission must get a fresh id")
	}
	if !second.CreatedAt.After(first.CreatedAt) {
		t.Fatal("resubmission must get a later timestamp")
	}

	res, err := f.resolver.Resolve(ctx, "job1", "cand1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.ApplicantStatus != "submitted" || res.LatestApplicationID == nil || *res.LatestApplicationID != second.ApplicationID {
		t.Fatalf("unexpected resolution %+v", res)
	}

	records, _ := f.store.Applications().ListByCandidate(ctx, "cand1")
	if len(records) != 1 || records[0].ID != second.ApplicationID {
		t.Fatalf("expected exactly the second record, got %+v", records)
	}

	if _, err := f.service.GetView(ctx, first.ApplicationID); !errx.IsCode(err, application.CodeViewNotFound) {
		t.Fatalf("old view should be gone, got %v", err)
	}
	view, err := f.service.GetView(ctx, second.ApplicationID)
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if view.Candidate.Name != "Li Lei" || view.Job.Title != "Backend Engineer" {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestSubmitConcurrentSamePairLeavesOneRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addCandidate(t, "c", "Han Meimei")
	f.addJob(t, "j", "Designer", "design")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.service.Submit(ctx, "c", "j"); err != nil {
				t.Errorf("Submit: %v", err)
			}
		}()
	}
	wg.Wait()

	records, _ := f.store.Applications().ListByCandidate(ctx, "c")
	if len(records) != 1 {
		t.Fatalf("expected one live record, got %d", len(records))
	}
	page, err := f.store.Views().ListByJob(ctx, "j", kernel.PaginationOptions{Page: 1, PageSize: 50})
	if err != nil {
		t.Fatalf("ListByJob: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != records[0].ID {
		t.Fatalf("view must match the live record, got %+v", page.Items)
	}
}

func TestSubmitMissingIdentifier(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Submit(context.Background(), "", "job")
	if !errx.IsCode(err, application.CodeMissingIdentifier) {
		t.Fatalf("expected MISSING_IDENTIFIER, got %v", err)
	}
}

func TestSubmitIncompleteJoinKeepsRecordWithoutView(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addJob(t, "j", "Analyst", "data")

	_, err := f.service.Submit(ctx, "ghost", "j")
	if !errx.IsCode(err, application.CodeIncompleteJoin) {
		t.Fatalf("expected INCOMPLETE_JOIN, got %v", err)
	}

	records, _ := f.store.Applications().ListByCandidate(ctx, "ghost")
	if len(records) != 1 {
		t.Fatalf("record must be kept, got %d", len(records))
	}
	if _, err := f.service.GetView(ctx, records[0].ID); !errx.IsCode(err, application.CodeViewNotFound) {
		t.Fatalf("no view expected, got %v", err)
	}
}

func TestSubmitDefersProjectionWhenViewStoreFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addCandidate(t, "c", "Wang")
	f.addJob(t, "j", "Support", "ops")
	f.service.retryDelay = 0

	f.store.FailViewWrites(errors.New("connection refused"))
	result, err := f.service.Submit(ctx, "c", "j")
	if err != nil {
		t.Fatalf("Submit must succeed when only the view write fails: %v", err)
	}
	if result.Projected {
		t.Fatal("result should report the view as pending")
	}

	f.store.FailViewWrites(nil)
	moved, _ := f.queue.MoveDelayedToReady(ctx)
	if moved != 1 {
		t.Fatalf("expected one delayed task, got %d", moved)
	}
	task, err := f.queue.Dequeue(ctx, 0)
	if err != nil || task == nil {
		t.Fatalf("expected a task, got %v %v", task, err)
	}
	if task.Kind != application.TaskProjectApplication || task.ID != result.ApplicationID.String() {
		t.Fatalf("unexpected task %+v", task)
	}
	if err := f.worker.Process(ctx, *task); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := f.service.GetView(ctx, result.ApplicationID); err != nil {
		t.Fatalf("view should exist after retry: %v", err)
	}
}

func TestApplyRejectsClosedJob(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addCandidate(t, "c", "Zhang")
	f.addJob(t, "j", "Closed role", "ops")

	j, _ := f.jobs.GetByID(ctx, "j")
	_ = j.Close()
	_ = f.jobs.Update(ctx, j)

	if _, err := f.service.Apply(ctx, "c", "j"); !errx.IsCode(err, application.CodeJobClosed) {
		t.Fatalf("expected JOB_CLOSED, got %v", err)
	}
	if _, err := f.service.Apply(ctx, "c", "missing"); !errx.IsCode(err, job.CodeJobNotFound) {
		t.Fatalf("expected JOB.NOT_FOUND, got %v", err)
	}
}

func TestWithdrawRemovesRecordAndView(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addCandidate(t, "c", "Zhao")
	f.addJob(t, "j", "Writer", "content")

	result, _ := f.service.Apply(ctx, "c", "j")
	if err := f.service.Withdraw(ctx, "c", "j"); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if _, err := f.service.GetView(ctx, result.ApplicationID); !errx.IsCode(err, application.CodeViewNotFound) {
		t.Fatalf("view should be gone, got %v", err)
	}
	if err := f.service.Withdraw(ctx, "c", "j"); !errx.IsCode(err, application.CodeApplicationNotFound) {
		t.Fatalf("second withdraw should be NOT_FOUND, got %v", err)
	}
}

func TestChangeStatusUpdatesView(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addCandidate(t, "c", "Sun")
	f.addJob(t, "j", "QA", "engineering")
	result, _ := f.service.Submit(ctx, "c", "j")

	if _, err := f.service.ChangeStatus(ctx, result.ApplicationID, "bogus"); !errx.IsCode(err, application.CodeInvalidStatus) {
		t.Fatalf("expected INVALID_STATUS, got %v", err)
	}

	if _, err := f.service.ChangeStatus(ctx, result.ApplicationID, application.ApplicationStatusReviewed); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	view, _ := f.service.GetView(ctx, result.ApplicationID)
	if view.Status != application.ApplicationStatusReviewed {
		t.Fatalf("view status should follow the record, got %s", view.Status)
	}

	res, _ := f.resolver.Resolve(ctx, "j", "c")
	if res.ApplicantStatus != "reviewed" {
		t.Fatalf("expected reviewed, got %s", res.ApplicantStatus)
	}
}

func TestRefreshCandidateRewritesSnapshots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addCandidate(t, "c", "Old Name")
	f.addJob(t, "j1", "A", "t")
	f.addJob(t, "j2", "B", "t")
	r1, _ := f.service.Submit(ctx, "c", "j1")
	r2, _ := f.service.Submit(ctx, "c", "j2")

	if _, err := f.candidates.ApplyUpdate(ctx, "c", candidate.ProfileUpdate{Name: kernel.Some("New Name")}); err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}

	if err := f.scheduler.RefreshCandidate(ctx, "c"); err != nil {
		t.Fatalf("RefreshCandidate: %v", err)
	}
	task, _ := f.queue.Dequeue(ctx, 0)
	if task == nil || task.Kind != application.TaskRefreshCandidate {
		t.Fatalf("expected a candidate refresh task, got %+v", task)
	}
	if err := f.worker.Process(ctx, *task); err != nil {
		t.Fatalf("Process: %v", err)
	}

	for _, id := range []kernel.ApplicationID{r1.ApplicationID, r2.ApplicationID} {
		v, err := f.service.GetView(ctx, id)
		if err != nil {
			t.Fatalf("GetView %s: %v", id, err)
		}
		if v.Candidate.Name != "New Name" {
			t.Fatalf("view %s still has %q", id, v.Candidate.Name)
		}
	}
}

// statusChangingCandidates changes an application's status the moment the
// projector looks up its candidate
type statusChangingCandidates struct {
	candidate.Repository
	apps   application.Repository
	target kernel.ApplicationID
}

func (r *statusChangingCandidates) GetByID(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	if _, err := r.apps.UpdateStatus(ctx, r.target, application.ApplicationStatusReviewed); err != nil {
		return nil, err
	}
	return r.Repository.GetByID(ctx, id)
}

func TestRefreshKeepsConcurrentStatusChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addCandidate(t, "c", "Han")
	f.addJob(t, "j", "Ops", "engineering")
	result, err := f.service.Submit(ctx, "c", "j")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	apps := f.store.Applications()
	candidates := &statusChangingCandidates{Repository: f.candidates, apps: apps, target: result.ApplicationID}
	projector := NewProjector(apps, f.store.Views(), candidates, f.jobs)

	refreshed, err := projector.RefreshCandidate(ctx, "c")
	if err != nil || refreshed.Failed != 0 {
		t.Fatalf("RefreshCandidate: failed=%d err=%v", refreshed.Failed, err)
	}

	record, _ := apps.GetByID(ctx, result.ApplicationID)
	view, err := f.service.GetView(ctx, result.ApplicationID)
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if record.Status != application.ApplicationStatusReviewed || view.Status != record.Status {
		t.Fatalf("record status=%s view status=%s", record.Status, view.Status)
	}
	if !view.CreatedAt.Equal(record.CreatedAt) {
		t.Fatalf("view created_at %v differs from record %v", view.CreatedAt, record.CreatedAt)
	}
}

func TestRefreshJobCountsIncompleteViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addCandidate(t, "c1", "One")
	f.addCandidate(t, "c2", "Two")
	f.addJob(t, "j", "Title", "t")
	_, _ = f.service.Submit(ctx, "c1", "j")
	_, _ = f.service.Submit(ctx, "c2", "j")
	f.candidates.Delete("c2")

	result, err := f.projector.RefreshJob(ctx, "j")
	if err != nil {
		t.Fatalf("RefreshJob: %v", err)
	}
	if result.Failed != 1 {
		t.Fatalf("expected one failed refresh, got %d", result.Failed)
	}
	if len(result.Retry) != 0 {
		t.Fatalf("a missing candidate is not retryable, got %v", result.Retry)
	}
}

func TestResolveStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addCandidate(t, "c", "Viewer")
	f.addJob(t, "j", "Role", "t")

	res, err := f.resolver.Resolve(ctx, "j", "")
	if err != nil || res.ApplicantStatus != application.ApplicantNotAuthenticated {
		t.Fatalf("expected not_authenticated, got %+v %v", res, err)
	}
	if res.JobStatus != "open" {
		t.Fatalf("expected open job, got %s", res.JobStatus)
	}

	res, _ = f.resolver.Resolve(ctx, "j", "c")
	if res.ApplicantStatus != application.ApplicantNotApplied || res.HasHistory || res.LatestApplicationID != nil {
		t.Fatalf("expected not_applied, got %+v", res)
	}

	if _, err := f.resolver.Resolve(ctx, "missing", "c"); !errx.IsCode(err, job.CodeJobNotFound) {
		t.Fatalf("expected JOB.NOT_FOUND, got %v", err)
	}
}

func TestResolveStatusOnClosedJobKeepsHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addCandidate(t, "c", "Viewer")
	f.addJob(t, "j", "Role", "t")
	result, err := f.service.Submit(ctx, "c", "j")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.service.ChangeStatus(ctx, result.ApplicationID, application.ApplicationStatusInterviewing); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}

	j, _ := f.jobs.GetByID(ctx, "j")
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := f.jobs.Update(ctx, j); err != nil {
		t.Fatalf("Update: %v", err)
	}

	res, err := f.resolver.Resolve(ctx, "j", "c")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.JobStatus != "closed" {
		t.Fatalf("expected closed job, got %s", res.JobStatus)
	}
	if res.ApplicantStatus != "interviewing" || !res.HasHistory {
		t.Fatalf("expected interviewing with history, got %+v", res)
	}
	if res.LatestApplicationID == nil || *res.LatestApplicationID != result.ApplicationID {
		t.Fatalf("expected latest id %s, got %v", result.ApplicationID, res.LatestApplicationID)
	}
}

func TestApplicantStatusDefaultsToApplied(t *testing.T) {
	if got := application.ApplicantStatusOf(&application.Application{}); got != application.ApplicantApplied {
		t.Fatalf("expected applied, got %s", got)
	}
}
