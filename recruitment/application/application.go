package application

import (
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
)

// ApplicationStatus is the lifecycle label of an application record
type ApplicationStatus string

const (
	ApplicationStatusSubmitted    ApplicationStatus = "submitted"    // Initial submission and every resubmission
	ApplicationStatusReviewed     ApplicationStatus = "reviewed"     // Seen by an operator
	ApplicationStatusInterviewing ApplicationStatus = "interviewing" // In interview process
	ApplicationStatusRejected     ApplicationStatus = "rejected"
	ApplicationStatusHired        ApplicationStatus = "hired"
)

// IsValid reports whether s is a known status
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusSubmitted, ApplicationStatusReviewed, ApplicationStatusInterviewing,
		ApplicationStatusRejected, ApplicationStatusHired:
		return true
	default:
		return false
	}
}

// Application is the canonical record. At most one exists per (candidate, job).
type Application struct {
	ID          kernel.ApplicationID `db:"id" json:"id"`
	CandidateID kernel.CandidateID   `db:"candidate_id" json:"candidate_id"`
	JobID       kernel.JobID         `db:"job_id" json:"job_id"`
	Status      ApplicationStatus    `db:"status" json:"status"`
	CreatedAt   time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// NewSubmission builds the record inserted by Submit. CreatedAt is assigned by the store.
func NewSubmission(id kernel.ApplicationID, candidateID kernel.CandidateID, jobID kernel.JobID) *Application {
	return &Application{
		ID:          id,
		CandidateID: candidateID,
		JobID:       jobID,
		Status:      ApplicationStatusSubmitted,
	}
}

// Validate checks the pair identifiers
func (a *Application) Validate() error {
	if a.CandidateID.IsEmpty() || a.JobID.IsEmpty() {
		return ErrMissingIdentifier().
			WithDetail("candidate_id", a.CandidateID.String()).
			WithDetail("job_id", a.JobID.String())
	}
	return nil
}

// PairKey identifies the (candidate, job) pair
func (a *Application) PairKey() string {
	return PairKey(a.CandidateID, a.JobID)
}

// PairKey identifies a (candidate, job) pair
func PairKey(candidateID kernel.CandidateID, jobID kernel.JobID) string {
	return candidateID.String() + ":" + jobID.String()
}

// ============================================================================
// Applicant status as seen from a job page
// ============================================================================

// ApplicantStatus is what a job page shows about the viewer's own application
type ApplicantStatus string

const (
	ApplicantNotAuthenticated ApplicantStatus = "not_authenticated"
	ApplicantNotApplied       ApplicantStatus = "not_applied"
	// ApplicantApplied is shown when the latest record carries no status label
	ApplicantApplied ApplicantStatus = "applied"
)

// ApplicantStatusOf maps the latest record of a pair to its display status
func ApplicantStatusOf(latest *Application) ApplicantStatus {
	if latest == nil {
		return ApplicantNotApplied
	}
	if latest.Status == "" {
		return ApplicantApplied
	}
	return ApplicantStatus(latest.Status)
}
