package applicationsrv

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/application/applicationinfra"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidateinfra"
	"github.com/Abraxas-365/hirehub/recruitment/job"
	"github.com/Abraxas-365/hirehub/recruitment/job/jobinfra"
)

type fixture struct {
	candidates *candidateinfra.MemoryCandidateRepository
	jobs       *jobinfra.MemoryJobRepository
	store      *applicationinfra.MemoryStore
	queue      *applicationinfra.MemoryProjectionQueue

	projector *Projector
	scheduler *ProjectionScheduler
	service   *ApplicationService
	delivery  *DeliveryService
	resolver  *StatusResolver
	worker    *ProjectionWorker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		candidates: candidateinfra.NewMemoryCandidateRepository(),
		jobs:       jobinfra.NewMemoryJobRepository(),
		store:      applicationinfra.NewMemoryStore(),
		queue:      applicationinfra.NewMemoryProjectionQueue(64),
	}
	apps := f.store.Applications()
	views := f.store.Views()

	f.projector = NewProjector(apps, views, f.candidates, f.jobs)
	f.scheduler = NewProjectionScheduler(f.queue, f.projector)
	f.service = NewApplicationService(apps, views, f.jobs, f.projector, f.scheduler)
	f.delivery = NewDeliveryService(f.store.Deliveries(f.candidates, f.jobs), DeliveryLimits{})
	f.resolver = NewStatusResolver(f.jobs, apps)
	f.worker = NewProjectionWorker(f.projector, f.queue, 1, 3)
	return f
}

func (f *fixture) addCandidate(t *testing.T, id, name string) {
	t.Helper()
	now := time.Now()
	err := f.candidates.Create(context.Background(), &candidate.Candidate{
		ID:         kernel.CandidateID(id),
		OpenID:     kernel.OpenID("open-" + id),
		Name:       name,
		Phone:      "13800000000",
		Education:  kernel.EducationBachelor,
		IsFullTime: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("create candidate %s: %v", id, err)
	}
}

func (f *fixture) addJob(t *testing.T, id, title, typ string) {
	t.Helper()
	now := time.Now()
	err := f.jobs.Create(context.Background(), &job.Job{
		ID:          kernel.JobID(id),
		Title:       kernel.JobTitle(title),
		Type:        kernel.JobType(typ),
		SalaryRange: "10-20k",
		Duty:        "duty of " + kernel.JobDuty(id),
		Status:      job.JobStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("create job %s: %v", id, err)
	}
}
