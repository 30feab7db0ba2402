package application

import (
	"context"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
)

type Repository interface {
	// Replace deletes every record and view of app's pair and inserts app, atomically
	// and serialized per pair. The store assigns app.CreatedAt. Returns how many
	// records were removed.
	Replace(ctx context.Context, app *Application) (removed int, err error)

	// GetByID retrieves an application by ID
	GetByID(ctx context.Context, id kernel.ApplicationID) (*Application, error)

	// LatestForPair returns the newest record of the pair, or a not-found error
	LatestForPair(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) (*Application, error)

	// DeletePair removes every record and view of the pair
	DeletePair(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) (int, error)

	// UpdateStatus changes the status of a record and its view together
	UpdateStatus(ctx context.Context, id kernel.ApplicationID, status ApplicationStatus) (*Application, error)

	// ListByCandidate returns every record of a candidate
	ListByCandidate(ctx context.Context, candidateID kernel.CandidateID) ([]Application, error)

	// ListByJob returns every record of a job
	ListByJob(ctx context.Context, jobID kernel.JobID) ([]Application, error)
}

type ViewRepository interface {
	// Replace deletes every view of the pair and inserts view
	Replace(ctx context.Context, view *View) error

	// GetByID retrieves a view by application ID
	GetByID(ctx context.Context, id kernel.ApplicationID) (*View, error)

	// ListByJob retrieves views of one job, newest first
	ListByJob(ctx context.Context, jobID kernel.JobID, pagination kernel.PaginationOptions) (*kernel.Paginated[View], error)
}

// DeliveryQuery answers the joined read shapes
type DeliveryQuery interface {
	// ListByCandidate returns a candidate's records joined with their job, newest first
	ListByCandidate(ctx context.Context, candidateID kernel.CandidateID, offset, limit int) ([]CandidateDelivery, error)

	// CountByCandidate counts the candidate's records whose job still exists
	CountByCandidate(ctx context.Context, candidateID kernel.CandidateID) (int64, error)

	// ListAll returns records joined with both candidate and job, newest first.
	// Rows missing either side are dropped before the limit applies.
	ListAll(ctx context.Context, limit int) ([]DeliveryRow, error)

	// Export returns records matching filter, oldest first. Job filters apply inside the join.
	Export(ctx context.Context, filter ExportFilter) ([]ExportRow, error)
}

// SubmitGuard rejects a second submission of the same pair within a short window
type SubmitGuard interface {
	Acquire(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) (bool, error)
	Release(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) error
}

// ProjectionQueue carries re-projection work to background workers
type ProjectionQueue interface {
	// Enqueue adds a task for immediate processing
	Enqueue(ctx context.Context, task ProjectionTask) error

	// EnqueueDelayed schedules a task for later processing
	EnqueueDelayed(ctx context.Context, task ProjectionTask, delay time.Duration) error

	// Dequeue blocks up to timeout for a task. A nil task means none was available.
	Dequeue(ctx context.Context, timeout time.Duration) (*ProjectionTask, error)

	// MoveDelayedToReady promotes delayed tasks whose time has come
	MoveDelayedToReady(ctx context.Context) (int, error)
}
