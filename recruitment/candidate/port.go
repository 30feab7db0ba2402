package candidate

import (
	"context"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
)

type Repository interface {
	// Create creates a new candidate
	Create(ctx context.Context, candidate *Candidate) error

	// GetByID retrieves a candidate by ID
	GetByID(ctx context.Context, id kernel.CandidateID) (*Candidate, error)

	// GetByOpenID retrieves a candidate by identity provider subject
	GetByOpenID(ctx context.Context, openID kernel.OpenID) (*Candidate, error)

	// ApplyUpdate writes the present fields of update and returns the stored candidate
	ApplyUpdate(ctx context.Context, id kernel.CandidateID, update ProfileUpdate) (*Candidate, error)

	// TouchLogin records a successful login
	TouchLogin(ctx context.Context, id kernel.CandidateID, at time.Time) error

	// Exists checks if a candidate exists by ID
	Exists(ctx context.Context, id kernel.CandidateID) (bool, error)

	// List retrieves candidates, newest first
	List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[Candidate], error)
}

// IdentityProvider exchanges a client login code for a stable subject
type IdentityProvider interface {
	Resolve(ctx context.Context, code string) (kernel.OpenID, error)
}
