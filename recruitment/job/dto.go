package job

import (
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
)

// CreateJobRequest - DTO for creating a new job
type CreateJobRequest struct {
	Title         kernel.JobTitle         `json:"title" validate:"required,max=128"`
	Type          kernel.JobType          `json:"type" validate:"required,max=64"`
	SalaryRange   kernel.SalaryRange      `json:"salary_range" validate:"required"`
	Duty          kernel.JobDuty          `json:"duty"`
	Qualification kernel.JobQualification `json:"qualification"`
	ImageURL      string                  `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdateJobRequest - DTO for updating an existing job
type UpdateJobRequest struct {
	Title         *kernel.JobTitle         `json:"title,omitempty" validate:"omitempty,min=1,max=128"`
	Type          *kernel.JobType          `json:"type,omitempty" validate:"omitempty,min=1,max=64"`
	SalaryRange   *kernel.SalaryRange      `json:"salary_range,omitempty"`
	Duty          *kernel.JobDuty          `json:"duty,omitempty"`
	Qualification *kernel.JobQualification `json:"qualification,omitempty"`
	ImageURL      *string                  `json:"image_url,omitempty" validate:"omitempty,url"`
}

// Response type alias for paginated jobs
type PaginatedJobsResponse = kernel.Paginated[JobResponse]

// JobResponse - DTO for returning job data
type JobResponse struct {
	ID            kernel.JobID            `json:"id"`
	Title         kernel.JobTitle         `json:"title"`
	Type          kernel.JobType          `json:"type"`
	SalaryRange   kernel.SalaryRange      `json:"salary_range"`
	Duty          kernel.JobDuty          `json:"duty"`
	Qualification kernel.JobQualification `json:"qualification"`
	ImageURL      string                  `json:"image_url"`
	Status        JobStatus               `json:"status"`
	ClosedAt      *time.Time              `json:"closed_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// JobGroup is one job type with its newest open postings
type JobGroup struct {
	Type kernel.JobType `json:"type"`
	Jobs []JobResponse  `json:"jobs"`
}

// ToResponse converts the entity into its API shape
func (j *Job) ToResponse() JobResponse {
	return JobResponse{
		ID:            j.ID,
		Title:         j.Title,
		Type:          j.Type,
		SalaryRange:   j.SalaryRange,
		Duty:          j.Duty,
		Qualification: j.Qualification,
		ImageURL:      j.ImageURL,
		Status:        j.Status,
		ClosedAt:      j.ClosedAt,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}
