package applicationsrv

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/errx"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
	"github.com/Abraxas-365/hirehub/recruitment/job"
)

// Projector writes the denormalized view of an application
type Projector struct {
	applicationRepo application.Repository
	viewRepo        application.ViewRepository
	candidateRepo   candidate.Repository
	jobRepo         job.Repository
	now             func() time.Time
}

func NewProjector(
	applicationRepo application.Repository,
	viewRepo application.ViewRepository,
	candidateRepo candidate.Repository,
	jobRepo job.Repository,
) *Projector {
	return &Projector{
		applicationRepo: applicationRepo,
		viewRepo:        viewRepo,
		candidateRepo:   candidateRepo,
		jobRepo:         jobRepo,
		now:             time.Now,
	}
}

// fetch loads both sides of the join concurrently. A failed lookup is
// logged and reported as missing.
func (p *Projector) fetch(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) (*candidate.Candidate, *job.Job) {
	var (
		wg sync.WaitGroup
		c  *candidate.Candidate
		j  *job.Job
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		found, err := p.candidateRepo.GetByID(ctx, candidateID)
		if err != nil {
			if !errx.IsType(err, errx.TypeNotFound) {
				logx.Warnf("Projection lookup of candidate %s failed: %v", candidateID, err)
			}
			return
		}
		c = found
	}()

	go func() {
		defer wg.Done()
		found, err := p.jobRepo.GetByID(ctx, jobID)
		if err != nil {
			if !errx.IsType(err, errx.TypeNotFound) {
				logx.Warnf("Projection lookup of job %s failed: %v", jobID, err)
			}
			return
		}
		j = found
	}()

	wg.Wait()
	return c, j
}

// Project builds and stores the view of app. Returns IncompleteJoin when the
// candidate or the job cannot be found, and ApplicationNotFound when app was
// replaced by a newer submission in the meantime.
func (p *Projector) Project(ctx context.Context, app *application.Application) error {
	c, j := p.fetch(ctx, app.CandidateID, app.JobID)
	if c == nil || j == nil {
		return application.ErrIncompleteJoin().
			WithDetail("application_id", app.ID.String()).
			WithDetail("candidate_found", c != nil).
			WithDetail("job_found", j != nil)
	}

	view := application.NewView(app, c, j, p.now())
	if err := p.viewRepo.Replace(ctx, view); err != nil {
		return err
	}

	logx.Debugf("Projected application %s", app.ID)
	return nil
}

// ProjectByID loads the record and projects it
func (p *Projector) ProjectByID(ctx context.Context, id kernel.ApplicationID) error {
	app, err := p.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return p.Project(ctx, app)
}

// RefreshResult summarizes a refresh. Retry lists the applications whose
// projection failed for a retryable reason.
type RefreshResult struct {
	Failed int
	Retry  []kernel.ApplicationID
}

// RefreshCandidate re-projects every application of a candidate. Failures
// are logged and counted; only a failure to list the records is returned.
func (p *Projector) RefreshCandidate(ctx context.Context, candidateID kernel.CandidateID) (RefreshResult, error) {
	apps, err := p.applicationRepo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return RefreshResult{}, err
	}
	return p.refreshAll(ctx, apps), nil
}

// RefreshJob re-projects every application of a job
func (p *Projector) RefreshJob(ctx context.Context, jobID kernel.JobID) (RefreshResult, error) {
	apps, err := p.applicationRepo.ListByJob(ctx, jobID)
	if err != nil {
		return RefreshResult{}, err
	}
	return p.refreshAll(ctx, apps), nil
}

func (p *Projector) refreshAll(ctx context.Context, apps []application.Application) RefreshResult {
	var result RefreshResult
	for i := range apps {
		err := p.Project(ctx, &apps[i])
		switch {
		case err == nil:
		case errx.IsCode(err, application.CodeApplicationNotFound):
			// superseded by a resubmission while refreshing
		default:
			result.Failed++
			if isRetryable(err) {
				result.Retry = append(result.Retry, apps[i].ID)
			}
			logx.Warnf("Refresh of application %s failed: %v", apps[i].ID, err)
		}
	}
	return result
}
