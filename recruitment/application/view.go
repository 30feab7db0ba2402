package application

import (
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
	"github.com/Abraxas-365/hirehub/recruitment/job"
)

// CandidateSnapshot is the applicant part of a view, copied by value at projection time
type CandidateSnapshot struct {
	Name           string           `json:"name"`
	Age            int              `json:"age"`
	Education      kernel.Education `json:"education"`
	Gender         kernel.Gender    `json:"gender"`
	GraduationDate string           `json:"graduation_date"`
	IsFullTime     bool             `json:"is_full_time"`
	Major          string           `json:"major"`
	Phone          kernel.Phone     `json:"phone"`
	Region         string           `json:"region"`
	SchoolName     string           `json:"school_name"`
	ResumeFileID   kernel.FileID    `json:"resume_file_id"`
}

// JobSnapshot is the job part of a view
type JobSnapshot struct {
	Title       kernel.JobTitle    `json:"title"`
	Type        kernel.JobType     `json:"type"`
	SalaryRange kernel.SalaryRange `json:"salary_range"`
}

// View is the flattened, point-in-time projection of an application. Its ID
// always equals the ID of the record it was projected from.
type View struct {
	ID          kernel.ApplicationID `json:"id"`
	CandidateID kernel.CandidateID   `json:"candidate_id"`
	JobID       kernel.JobID         `json:"job_id"`
	Status      ApplicationStatus    `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	ProjectedAt time.Time            `json:"projected_at"`
	Candidate   CandidateSnapshot    `json:"candidate"`
	Job         JobSnapshot          `json:"job"`
}

// PairKey identifies the (candidate, job) pair of the view
func (v *View) PairKey() string {
	return PairKey(v.CandidateID, v.JobID)
}

// SnapshotOf copies the projected candidate fields
func SnapshotOf(c *candidate.Candidate) CandidateSnapshot {
	return CandidateSnapshot{
		Name:           c.Name,
		Age:            c.Age,
		Education:      c.Education,
		Gender:         c.Gender,
		GraduationDate: c.GraduationDate,
		IsFullTime:     c.IsFullTime,
		Major:          c.Major,
		Phone:          c.Phone,
		Region:         c.Region,
		SchoolName:     c.SchoolName,
		ResumeFileID:   c.ResumeFileID,
	}
}

// JobSnapshotOf copies the projected job fields
func JobSnapshotOf(j *job.Job) JobSnapshot {
	return JobSnapshot{
		Title:       j.Title,
		Type:        j.Type,
		SalaryRange: j.SalaryRange,
	}
}

// NewView builds the view of app from its candidate and job
func NewView(app *Application, c *candidate.Candidate, j *job.Job, projectedAt time.Time) *View {
	return &View{
		ID:          app.ID,
		CandidateID: app.CandidateID,
		JobID:       app.JobID,
		Status:      app.Status,
		CreatedAt:   app.CreatedAt,
		ProjectedAt: projectedAt,
		Candidate:   SnapshotOf(c),
		Job:         JobSnapshotOf(j),
	}
}
