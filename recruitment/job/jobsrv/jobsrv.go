package jobsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/recruitment/job"
	"github.com/google/uuid"
)

// GroupSize is how many open jobs the grouped listing shows per type
const GroupSize = 3

// ViewRefresher re-projects application views after a job edit
type ViewRefresher interface {
	RefreshJob(ctx context.Context, jobID kernel.JobID) error
}

// JobService provides business operations for jobs
type JobService struct {
	jobRepo   job.Repository
	refresher ViewRefresher
	now       func() time.Time
}

// NewJobService creates a new instance of the job service
func NewJobService(jobRepo job.Repository, refresher ViewRefresher) *JobService {
	return &JobService{
		jobRepo:   jobRepo,
		refresher: refresher,
		now:       time.Now,
	}
}

// SetViewRefresher wires the refresher after construction
func (s *JobService) SetViewRefresher(refresher ViewRefresher) {
	s.refresher = refresher
}

// CreateJob creates a new open job posting
func (s *JobService) CreateJob(ctx context.Context, req job.CreateJobRequest, postedBy kernel.UserID) (*job.Job, error) {
	now := s.now()
	newJob := &job.Job{
		ID:            kernel.NewJobID(uuid.NewString()),
		Title:         req.Title,
		Type:          req.Type,
		SalaryRange:   req.SalaryRange,
		Duty:          req.Duty,
		Qualification: req.Qualification,
		ImageURL:      req.ImageURL,
		Status:        job.JobStatusOpen,
		PostedBy:      postedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.jobRepo.Create(ctx, newJob); err != nil {
		return nil, err
	}

	logx.Infof("Job %s created by %s", newJob.ID, postedBy)
	return newJob, nil
}

// GetJob retrieves a job by ID
func (s *JobService) GetJob(ctx context.Context, jobID kernel.JobID) (*job.Job, error) {
	return s.jobRepo.GetByID(ctx, jobID)
}

// ListOpenJobs retrieves open jobs with pagination
func (s *JobService) ListOpenJobs(ctx context.Context, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	if !pagination.IsValid() {
		return nil, job.ErrInvalidPagination().
			WithDetail("page", pagination.Page).
			WithDetail("page_size", pagination.PageSize)
	}

	jobs, err := s.jobRepo.ListOpen(ctx, pagination)
	if err != nil {
		return nil, err
	}

	responses := make([]job.JobResponse, 0, len(jobs.Items))
	for i := range jobs.Items {
		responses = append(responses, jobs.Items[i].ToResponse())
	}

	return &kernel.Paginated[job.JobResponse]{
		Items:   responses,
		Page:    jobs.Page,
		Empty:   jobs.Empty,
		HasMore: jobs.HasMore,
	}, nil
}

// ListGroupedJobs returns the newest open jobs of every type
func (s *JobService) ListGroupedJobs(ctx context.Context) ([]job.JobGroup, error) {
	return s.jobRepo.ListOpenGroupedByType(ctx, GroupSize)
}

// UpdateJob applies a partial update. Application views are re-projected
// when title, type or salary range changed.
func (s *JobService) UpdateJob(ctx context.Context, jobID kernel.JobID, req job.UpdateJobRequest) (*job.Job, error) {
	existing, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	snapshotChanged := existing.ApplyUpdate(req)
	if err := s.jobRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	if snapshotChanged {
		s.refresh(ctx, jobID)
	}
	return existing, nil
}

// CloseJob stops a job from accepting applications
func (s *JobService) CloseJob(ctx context.Context, jobID kernel.JobID) (*job.Job, error) {
	existing, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := existing.Close(); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	logx.Infof("Job %s closed", jobID)
	return existing, nil
}

// ReopenJob makes a closed job accept applications again
func (s *JobService) ReopenJob(ctx context.Context, jobID kernel.JobID) (*job.Job, error) {
	existing, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := existing.Reopen(); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	logx.Infof("Job %s reopened", jobID)
	return existing, nil
}

func (s *JobService) refresh(ctx context.Context, jobID kernel.JobID) {
	if s.refresher == nil {
		return
	}
	if err := s.refresher.RefreshJob(ctx, jobID); err != nil {
		logx.Warnf("View refresh for job %s failed: %v", jobID, err)
	}
}
