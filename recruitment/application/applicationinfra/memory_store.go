package applicationinfra

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
	"github.com/Abraxas-365/hirehub/recruitment/job"
)

// MemoryStore keeps records and views in process memory. A single mutex
// serializes every write, so pair-level atomicity holds trivially.
type MemoryStore struct {
	mu      sync.Mutex
	records map[kernel.ApplicationID]application.Application
	views   map[kernel.ApplicationID]application.View
	clock   func() time.Time
	last    time.Time

	viewWriteErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[kernel.ApplicationID]application.Application),
		views:   make(map[kernel.ApplicationID]application.View),
		clock:   time.Now,
	}
}

// tick returns a strictly increasing timestamp. Caller holds mu.
func (s *MemoryStore) tick() time.Time {
	t := s.clock()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// FailViewWrites makes every view write return err until called with nil.
// Tests use it to simulate an unavailable store.
func (s *MemoryStore) FailViewWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewWriteErr = err
}

// deletePair removes the pair's views and records. Caller holds mu.
func (s *MemoryStore) deletePair(candidateID kernel.CandidateID, jobID kernel.JobID) int {
	for id, v := range s.views {
		if v.CandidateID == candidateID && v.JobID == jobID {
			delete(s.views, id)
		}
	}
	removed := 0
	for id, a := range s.records {
		if a.CandidateID == candidateID && a.JobID == jobID {
			delete(s.records, id)
			removed++
		}
	}
	return removed
}

// snapshotRecords copies the records matching keep, newest first
func (s *MemoryStore) snapshotRecords(keep func(a *application.Application) bool) []application.Application {
	s.mu.Lock()
	out := make([]application.Application, 0)
	for _, a := range s.records {
		if keep(&a) {
			out = append(out, a)
		}
	}
	s.mu.Unlock()

	sortNewestFirst(out)
	return out
}

func sortNewestFirst(apps []application.Application) {
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].CreatedAt.Equal(apps[j].CreatedAt) {
			return apps[i].ID < apps[j].ID
		}
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
}

// ============================================================================
// Records
// ============================================================================

// Applications returns the record repository view of the store
func (s *MemoryStore) Applications() *MemoryApplicationRepository {
	return &MemoryApplicationRepository{store: s}
}

type MemoryApplicationRepository struct {
	store *MemoryStore
}

var _ application.Repository = (*MemoryApplicationRepository)(nil)

func (r *MemoryApplicationRepository) Replace(ctx context.Context, app *application.Application) (int, error) {
	if err := app.Validate(); err != nil {
		return 0, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.deletePair(app.CandidateID, app.JobID)
	now := s.tick()
	app.CreatedAt = now
	app.UpdatedAt = now
	s.records[app.ID] = *app
	return removed, nil
}

func (r *MemoryApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.records[id]
	if !ok {
		return nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}
	return &a, nil
}

func (r *MemoryApplicationRepository) LatestForPair(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) (*application.Application, error) {
	apps := r.store.snapshotRecords(func(a *application.Application) bool {
		return a.CandidateID == candidateID && a.JobID == jobID
	})
	if len(apps) == 0 {
		return nil, application.ErrApplicationNotFound()
	}
	return &apps[0], nil
}

func (r *MemoryApplicationRepository) DeletePair(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletePair(candidateID, jobID), nil
}

func (r *MemoryApplicationRepository) UpdateStatus(ctx context.Context, id kernel.ApplicationID, status application.ApplicationStatus) (*application.Application, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.records[id]
	if !ok {
		return nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}
	a.Status = status
	a.UpdatedAt = s.tick()
	s.records[id] = a

	if v, ok := s.views[id]; ok {
		v.Status = status
		s.views[id] = v
	}
	return &a, nil
}

func (r *MemoryApplicationRepository) ListByCandidate(ctx context.Context, candidateID kernel.CandidateID) ([]application.Application, error) {
	return r.store.snapshotRecords(func(a *application.Application) bool {
		return a.CandidateID == candidateID
	}), nil
}

func (r *MemoryApplicationRepository) ListByJob(ctx context.Context, jobID kernel.JobID) ([]application.Application, error) {
	return r.store.snapshotRecords(func(a *application.Application) bool {
		return a.JobID == jobID
	}), nil
}

// ============================================================================
// Views
// ============================================================================

// Views returns the view repository view of the store
func (s *MemoryStore) Views() *MemoryViewRepository {
	return &MemoryViewRepository{store: s}
}

type MemoryViewRepository struct {
	store *MemoryStore
}

var _ application.ViewRepository = (*MemoryViewRepository)(nil)

func (r *MemoryViewRepository) Replace(ctx context.Context, v *application.View) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.viewWriteErr != nil {
		return application.ErrStoreUnavailable(s.viewWriteErr)
	}
	record, ok := s.records[v.ID]
	if !ok {
		return application.ErrApplicationNotFound().WithDetail("application_id", v.ID.String())
	}
	// status and timestamp always come from the live record
	v.Status = record.Status
	v.CreatedAt = record.CreatedAt

	for id, existing := range s.views {
		if existing.CandidateID == v.CandidateID && existing.JobID == v.JobID {
			delete(s.views, id)
		}
	}
	s.views[v.ID] = *v
	return nil
}

func (r *MemoryViewRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.View, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[id]
	if !ok {
		return nil, application.ErrViewNotFound().WithDetail("application_id", id.String())
	}
	return &v, nil
}

func (r *MemoryViewRepository) ListByJob(ctx context.Context, jobID kernel.JobID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.View], error) {
	s := r.store
	s.mu.Lock()
	views := make([]application.View, 0)
	for _, v := range s.views {
		if v.JobID == jobID {
			views = append(views, v)
		}
	}
	s.mu.Unlock()

	sort.Slice(views, func(i, j int) bool {
		if views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].ID < views[j].ID
		}
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})

	start := min(pagination.Offset(), len(views))
	end := min(start+pagination.PageSize, len(views))
	page := kernel.NewPaginated(views[start:end], pagination, int64(len(views)))
	return &page, nil
}

// ============================================================================
// Delivery queries
// ============================================================================

// Deliveries returns a DeliveryQuery joining the store's records with the
// given candidate and job repositories
func (s *MemoryStore) Deliveries(candidates candidate.Repository, jobs job.Repository) *MemoryDeliveryQuery {
	return &MemoryDeliveryQuery{store: s, candidates: candidates, jobs: jobs}
}

type MemoryDeliveryQuery struct {
	store      *MemoryStore
	candidates candidate.Repository
	jobs       job.Repository
}

var _ application.DeliveryQuery = (*MemoryDeliveryQuery)(nil)

// lookupJob returns nil when the job is gone
func (q *MemoryDeliveryQuery) lookupJob(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	j, err := q.jobs.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, application.ErrStoreUnavailable(err)
	}
	return j, nil
}

// lookupCandidate returns nil when the candidate is gone
func (q *MemoryDeliveryQuery) lookupCandidate(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	c, err := q.candidates.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, application.ErrStoreUnavailable(err)
	}
	return c, nil
}

func (q *MemoryDeliveryQuery) joinedForCandidate(ctx context.Context, candidateID kernel.CandidateID) ([]application.CandidateDelivery, error) {
	apps := q.store.snapshotRecords(func(a *application.Application) bool {
		return a.CandidateID == candidateID
	})

	rows := make([]application.CandidateDelivery, 0, len(apps))
	for i := range apps {
		j, err := q.lookupJob(ctx, apps[i].JobID)
		if err != nil {
			return nil, err
		}
		if j == nil {
			continue
		}
		rows = append(rows, application.CandidateDelivery{
			ApplicationID: apps[i].ID,
			JobID:         apps[i].JobID,
			Status:        apps[i].Status,
			CreatedAt:     apps[i].CreatedAt,
			JobTitle:      j.Title,
			JobType:       j.Type,
			JobDuty:       j.Duty,
			JobImage:      j.ImageURL,
			SalaryRange:   j.SalaryRange,
		})
	}
	return rows, nil
}

func (q *MemoryDeliveryQuery) ListByCandidate(ctx context.Context, candidateID kernel.CandidateID, offset, limit int) ([]application.CandidateDelivery, error) {
	rows, err := q.joinedForCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	start := min(offset, len(rows))
	end := min(start+limit, len(rows))
	return rows[start:end], nil
}

func (q *MemoryDeliveryQuery) CountByCandidate(ctx context.Context, candidateID kernel.CandidateID) (int64, error) {
	rows, err := q.joinedForCandidate(ctx, candidateID)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (q *MemoryDeliveryQuery) ListAll(ctx context.Context, limit int) ([]application.DeliveryRow, error) {
	apps := q.store.snapshotRecords(func(*application.Application) bool { return true })

	rows := make([]application.DeliveryRow, 0, min(limit, len(apps)))
	for i := range apps {
		if len(rows) >= limit {
			break
		}
		c, err := q.lookupCandidate(ctx, apps[i].CandidateID)
		if err != nil {
			return nil, err
		}
		j, err := q.lookupJob(ctx, apps[i].JobID)
		if err != nil {
			return nil, err
		}
		if c == nil || j == nil {
			continue
		}
		rows = append(rows, application.DeliveryRow{
			ApplicationID:     apps[i].ID,
			CreatedAt:         apps[i].CreatedAt,
			Status:            apps[i].Status,
			CandidateID:       apps[i].CandidateID,
			CandidateSnapshot: application.SnapshotOf(c),
			JobID:             j.ID,
			JobStatus:         string(j.Status),
			JobTitle:          j.Title,
			JobType:           j.Type,
			SalaryRange:       j.SalaryRange,
		})
	}
	return rows, nil
}

func (q *MemoryDeliveryQuery) Export(ctx context.Context, filter application.ExportFilter) ([]application.ExportRow, error) {
	start, hasStart := filter.StartTime()
	end, hasEnd := filter.EndTime()

	apps := q.store.snapshotRecords(func(a *application.Application) bool {
		if hasStart && a.CreatedAt.Before(start) {
			return false
		}
		if hasEnd && a.CreatedAt.After(end) {
			return false
		}
		return true
	})
	// oldest first
	for i, j := 0, len(apps)-1; i < j; i, j = i+1, j-1 {
		apps[i], apps[j] = apps[j], apps[i]
	}

	rows := make([]application.ExportRow, 0)
	for i := range apps {
		if len(rows) >= filter.Limit {
			break
		}
		j, err := q.lookupJob(ctx, apps[i].JobID)
		if err != nil {
			return nil, err
		}
		if j == nil {
			continue
		}
		if filter.JobType != "" && string(j.Type) != filter.JobType {
			continue
		}
		if filter.JobTitle != "" && string(j.Title) != filter.JobTitle {
			continue
		}

		row := application.ExportRow{
			ApplicationID: apps[i].ID,
			CreatedAt:     apps[i].CreatedAt,
			Status:        apps[i].Status,
			CandidateID:   apps[i].CandidateID,
			JobID:         j.ID,
			JobStatus:     string(j.Status),
			JobTitle:      j.Title,
			JobType:       j.Type,
			SalaryRange:   j.SalaryRange,
		}
		c, err := q.lookupCandidate(ctx, apps[i].CandidateID)
		if err != nil {
			return nil, err
		}
		if c != nil {
			snap := application.SnapshotOf(c)
			row.Candidate = &snap
		}
		rows = append(rows, row)
	}
	return rows, nil
}
