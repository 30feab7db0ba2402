package jobinfra

import (
	"context"
	"sort"
	"sync"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/job"
)

// MemoryJobRepository keeps jobs in process memory
type MemoryJobRepository struct {
	mu   sync.RWMutex
	jobs map[kernel.JobID]job.Job
}

func NewMemoryJobRepository() *MemoryJobRepository {
	return &MemoryJobRepository{jobs: make(map[kernel.JobID]job.Job)}
}

var _ job.Repository = (*MemoryJobRepository)(nil)

func (r *MemoryJobRepository) Create(ctx context.Context, j *job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.jobs[j.ID]; dup {
		return job.ErrJobAlreadyExists()
	}
	r.jobs[j.ID] = *j
	return nil
}

func (r *MemoryJobRepository) Update(ctx context.Context, j *job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[j.ID]; !ok {
		return job.ErrJobNotFound().WithDetail("job_id", j.ID.String())
	}
	r.jobs[j.ID] = *j
	return nil
}

func (r *MemoryJobRepository) GetByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
	}
	return &j, nil
}

// Delete removes a job. Tests use it to simulate postings removed underneath
// existing applications.
func (r *MemoryJobRepository) Delete(id kernel.JobID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
}

func (r *MemoryJobRepository) openJobs() []job.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	open := make([]job.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if j.IsOpen() {
			open = append(open, j)
		}
	}
	sort.Slice(open, func(a, b int) bool {
		if open[a].CreatedAt.Equal(open[b].CreatedAt) {
			return open[a].ID < open[b].ID
		}
		return open[a].CreatedAt.After(open[b].CreatedAt)
	})
	return open
}

func (r *MemoryJobRepository) ListOpen(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	open := r.openJobs()

	start := min(pagination.Offset(), len(open))
	end := min(start+pagination.PageSize, len(open))
	page := kernel.NewPaginated(open[start:end], pagination, int64(len(open)))
	return &page, nil
}

func (r *MemoryJobRepository) ListOpenGroupedByType(ctx context.Context, perGroup int) ([]job.JobGroup, error) {
	return job.GroupByType(r.openJobs(), perGroup), nil
}
