package candidateinfra

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
)

// MemoryCandidateRepository keeps candidates in process memory
type MemoryCandidateRepository struct {
	mu         sync.RWMutex
	candidates map[kernel.CandidateID]candidate.Candidate
	byOpenID   map[kernel.OpenID]kernel.CandidateID
	now        func() time.Time
}

func NewMemoryCandidateRepository() *MemoryCandidateRepository {
	return &MemoryCandidateRepository{
		candidates: make(map[kernel.CandidateID]candidate.Candidate),
		byOpenID:   make(map[kernel.OpenID]kernel.CandidateID),
		now:        time.Now,
	}
}

var _ candidate.Repository = (*MemoryCandidateRepository)(nil)

func (r *MemoryCandidateRepository) Create(ctx context.Context, c *candidate.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.candidates[c.ID]; dup {
		return candidate.ErrCandidateAlreadyExists()
	}
	if !c.OpenID.IsEmpty() {
		if _, dup := r.byOpenID[c.OpenID]; dup {
			return candidate.ErrCandidateAlreadyExists()
		}
		r.byOpenID[c.OpenID] = c.ID
	}
	r.candidates[c.ID] = *c
	return nil
}

func (r *MemoryCandidateRepository) GetByID(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.candidates[id]
	if !ok {
		return nil, candidate.ErrCandidateNotFound()
	}
	return &c, nil
}

func (r *MemoryCandidateRepository) GetByOpenID(ctx context.Context, openID kernel.OpenID) (*candidate.Candidate, error) {
	r.mu.RLock()
	id, ok := r.byOpenID[openID]
	r.mu.RUnlock()
	if !ok {
		return nil, candidate.ErrCandidateNotFound()
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryCandidateRepository) ApplyUpdate(ctx context.Context, id kernel.CandidateID, update candidate.ProfileUpdate) (*candidate.Candidate, error) {
	if update.IsEmpty() {
		return nil, candidate.ErrEmptyUpdate()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.candidates[id]
	if !ok {
		return nil, candidate.ErrCandidateNotFound().WithDetail("candidate_id", id.String())
	}
	c.Apply(update, r.now())
	r.candidates[id] = c
	return &c, nil
}

func (r *MemoryCandidateRepository) TouchLogin(ctx context.Context, id kernel.CandidateID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.candidates[id]
	if !ok {
		return candidate.ErrCandidateNotFound()
	}
	c.LastLoginAt = &at
	r.candidates[id] = c
	return nil
}

func (r *MemoryCandidateRepository) Exists(ctx context.Context, id kernel.CandidateID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.candidates[id]
	return ok, nil
}

// Delete removes a candidate. Not part of the repository port; tests use it
// to simulate profiles disappearing underneath existing applications.
func (r *MemoryCandidateRepository) Delete(id kernel.CandidateID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.candidates[id]; ok {
		delete(r.byOpenID, c.OpenID)
		delete(r.candidates, id)
	}
}

func (r *MemoryCandidateRepository) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[candidate.Candidate], error) {
	r.mu.RLock()
	all := make([]candidate.Candidate, 0, len(r.candidates))
	for _, c := range r.candidates {
		all = append(all, c)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := min(pagination.Offset(), len(all))
	end := min(start+pagination.PageSize, len(all))
	page := kernel.NewPaginated(all[start:end], pagination, int64(len(all)))
	return &page, nil
}
