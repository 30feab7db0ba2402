package applicationsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/errx"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/Abraxas-365/hirehub/recruitment/job"
	"github.com/google/uuid"
)

// RetryScheduler re-runs a projection later
type RetryScheduler interface {
	ScheduleProjection(ctx context.Context, id kernel.ApplicationID, delay time.Duration) error
}

// ApplicationService provides business operations for applications
type ApplicationService struct {
	applicationRepo application.Repository
	viewRepo        application.ViewRepository
	jobRepo         job.Repository
	projector       *Projector
	retries         RetryScheduler
	retryDelay      time.Duration
}

// NewApplicationService creates a new instance of the application service
func NewApplicationService(
	applicationRepo application.Repository,
	viewRepo application.ViewRepository,
	jobRepo job.Repository,
	projector *Projector,
	retries RetryScheduler,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		viewRepo:        viewRepo,
		jobRepo:         jobRepo,
		projector:       projector,
		retries:         retries,
		retryDelay:      2 * time.Second,
	}
}

// Submit records an application of candidateID to jobID. Every earlier
// record of the pair is deleted with its view, then the new record is
// inserted and projected.
func (s *ApplicationService) Submit(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) (*application.SubmitResult, error) {
	app := application.NewSubmission(kernel.NewApplicationID(uuid.NewString()), candidateID, jobID)
	if err := app.Validate(); err != nil {
		return nil, err
	}

	removed, err := s.applicationRepo.Replace(ctx, app)
	if err != nil {
		return nil, errx.Wrap(err, "failed to store application", errx.TypeInternal)
	}

	result := &application.SubmitResult{
		ApplicationID:   app.ID,
		WasResubmission: removed > 0,
		CreatedAt:       app.CreatedAt,
	}
	if removed > 1 {
		logx.Warnf("Pair %s held %d records before resubmission", app.PairKey(), removed)
	}

	err = s.projector.Project(ctx, app)
	switch {
	case err == nil:
		result.Projected = true
	case errx.IsCode(err, application.CodeIncompleteJoin):
		logx.Warnf("Application %s stored without a view: %v", app.ID, err)
		return nil, err
	case errx.IsCode(err, application.CodeApplicationNotFound):
		logx.Infof("Application %s was superseded before its view was written", app.ID)
	case isRetryable(err) && s.retries != nil:
		if qerr := s.retries.ScheduleProjection(ctx, app.ID, s.retryDelay); qerr != nil {
			logx.Errorf("Application %s has no view and its retry could not be queued: %v", app.ID, qerr)
		} else {
			logx.Warnf("Projection of application %s deferred: %v", app.ID, err)
		}
	default:
		logx.Errorf("Projection of application %s failed: %v", app.ID, err)
	}

	logx.Infof("Application %s submitted (resubmission=%t)", app.ID, result.WasResubmission)
	return result, nil
}

// Apply submits an application after checking the job accepts them
func (s *ApplicationService) Apply(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) (*application.SubmitResult, error) {
	if candidateID.IsEmpty() || jobID.IsEmpty() {
		return nil, application.ErrMissingIdentifier()
	}

	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !jobEntity.IsOpen() {
		return nil, application.ErrJobClosed().WithDetail("job_id", jobID.String())
	}

	return s.Submit(ctx, candidateID, jobID)
}

// Withdraw removes a candidate's application to a job
func (s *ApplicationService) Withdraw(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) error {
	if candidateID.IsEmpty() || jobID.IsEmpty() {
		return application.ErrMissingIdentifier()
	}

	removed, err := s.applicationRepo.DeletePair(ctx, candidateID, jobID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return application.ErrApplicationNotFound().WithDetail("job_id", jobID.String())
	}

	logx.Infof("Candidate %s withdrew from job %s", candidateID, jobID)
	return nil
}

// ChangeStatus sets the status of a record and its view
func (s *ApplicationService) ChangeStatus(ctx context.Context, id kernel.ApplicationID, status application.ApplicationStatus) (*application.Application, error) {
	if !status.IsValid() {
		return nil, application.ErrInvalidStatus().WithDetail("status", status)
	}
	return s.applicationRepo.UpdateStatus(ctx, id, status)
}

// GetView returns the projected view of an application
func (s *ApplicationService) GetView(ctx context.Context, id kernel.ApplicationID) (*application.View, error) {
	return s.viewRepo.GetByID(ctx, id)
}

// ListViewsByJob pages the views of one job
func (s *ApplicationService) ListViewsByJob(ctx context.Context, jobID kernel.JobID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.View], error) {
	if !pagination.IsValid() {
		return nil, application.ErrInvalidPagination().
			WithDetail("page", pagination.Page).
			WithDetail("page_size", pagination.PageSize)
	}
	return s.viewRepo.ListByJob(ctx, jobID, pagination)
}
