package job

import (
	"context"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
)

type Repository interface {
	// Create creates a new job
	Create(ctx context.Context, job *Job) error

	// Update updates an existing job
	Update(ctx context.Context, job *Job) error

	// GetByID retrieves a job by ID
	GetByID(ctx context.Context, id kernel.JobID) (*Job, error)

	// ListOpen retrieves open jobs, newest first
	ListOpen(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[Job], error)

	// ListOpenGroupedByType returns, per job type, the newest perGroup open jobs
	ListOpenGroupedByType(ctx context.Context, perGroup int) ([]JobGroup, error)
}
