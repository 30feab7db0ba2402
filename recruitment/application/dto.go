package application

import (
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
)

// ============================================================================
// Write DTOs
// ============================================================================

// SubmitRequest - DTO for a candidate applying to a job
type SubmitRequest struct {
	JobID kernel.JobID `json:"job_id" validate:"required"`
}

// SubmitResult is returned by Submit and Apply
type SubmitResult struct {
	ApplicationID   kernel.ApplicationID `json:"application_id"`
	WasResubmission bool                 `json:"was_resubmission"`
	CreatedAt       time.Time            `json:"created_at"`
	// Projected is false when the view could not be written yet
	Projected bool `json:"projected"`
}

// Message is the user-facing confirmation for a submission
func (r SubmitResult) Message() string {
	if r.WasResubmission {
		return "Application resubmitted"
	}
	return "Application submitted"
}

// UpdateStatusRequest - DTO for an operator changing an application's status
type UpdateStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required"`
}

// ============================================================================
// Read DTOs
// ============================================================================

// CandidateDelivery is one row of a candidate's own application listing
type CandidateDelivery struct {
	ApplicationID kernel.ApplicationID `db:"application_id" json:"application_id"`
	JobID         kernel.JobID         `db:"job_id" json:"job_id"`
	Status        ApplicationStatus    `db:"status" json:"status"`
	CreatedAt     time.Time            `db:"created_at" json:"created_at"`
	JobTitle      kernel.JobTitle      `db:"job_title" json:"job_title"`
	JobType       kernel.JobType       `db:"job_type" json:"job_type"`
	JobDuty       kernel.JobDuty       `db:"job_duty" json:"job_duty"`
	JobImage      string               `db:"job_image" json:"job_image"`
	SalaryRange   kernel.SalaryRange   `db:"salary_range" json:"salary_range"`
}

// CandidateDeliveryPage is a page of a candidate's applications
type CandidateDeliveryPage struct {
	Rows     []CandidateDelivery `json:"rows"`
	Total    int64               `json:"total"`
	HasMore  bool                `json:"has_more"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}

// DeliveryRow is one row of the operator listing: the application with
// flattened candidate and job fields
type DeliveryRow struct {
	ApplicationID kernel.ApplicationID `json:"application_id"`
	CreatedAt     time.Time            `json:"created_at"`
	Status        ApplicationStatus    `json:"status"`
	CandidateID   kernel.CandidateID   `json:"candidate_id"`
	CandidateSnapshot
	JobID       kernel.JobID       `json:"job_id"`
	JobStatus   string             `json:"job_status"`
	JobTitle    kernel.JobTitle    `json:"job_title"`
	JobType     kernel.JobType     `json:"job_type"`
	SalaryRange kernel.SalaryRange `json:"salary_range"`
}

// ExportFilter narrows an export. Bounds are epoch milliseconds, inclusive,
// each optional on its own. JobType and JobTitle are exact matches.
type ExportFilter struct {
	Start    *int64 `json:"start,omitempty" query:"start"`
	End      *int64 `json:"end,omitempty" query:"end"`
	JobType  string `json:"job_type,omitempty" query:"job_type"`
	JobTitle string `json:"job_title,omitempty" query:"job_title"`
	Limit    int    `json:"limit,omitempty" query:"limit"`
}

// StartTime returns the lower bound, if any
func (f ExportFilter) StartTime() (time.Time, bool) {
	if f.Start == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*f.Start), true
}

// EndTime returns the upper bound, if any
func (f ExportFilter) EndTime() (time.Time, bool) {
	if f.End == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*f.End), true
}

// ExportRow is one exported application. Candidate is nil when the
// applicant's profile no longer exists.
type ExportRow struct {
	ApplicationID kernel.ApplicationID `json:"application_id"`
	CreatedAt     time.Time            `json:"created_at"`
	Status        ApplicationStatus    `json:"status"`
	CandidateID   kernel.CandidateID   `json:"candidate_id"`
	Candidate     *CandidateSnapshot   `json:"candidate"`
	JobID         kernel.JobID         `json:"job_id"`
	JobStatus     string               `json:"job_status"`
	JobTitle      kernel.JobTitle      `json:"job_title"`
	JobType       kernel.JobType       `json:"job_type"`
	SalaryRange   kernel.SalaryRange   `json:"salary_range"`
}

// StatusResolution is what a job page needs about the job and the viewer
type StatusResolution struct {
	JobID               kernel.JobID          `json:"job_id"`
	JobStatus           string                `json:"job_status"`
	ApplicantStatus     ApplicantStatus       `json:"applicant_status"`
	LatestApplicationID *kernel.ApplicationID `json:"latest_application_id,omitempty"`
	HasHistory          bool                  `json:"has_history"`
}

// ============================================================================
// Projection tasks
// ============================================================================

// TaskKind selects what a projection task re-projects
type TaskKind string

const (
	TaskProjectApplication TaskKind = "application"
	TaskRefreshCandidate   TaskKind = "candidate"
	TaskRefreshJob         TaskKind = "job"
)

// ProjectionTask is the payload carried by the projection queue
type ProjectionTask struct {
	Kind       TaskKind  `json:"kind"`
	ID         string    `json:"id"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
