package job

import (
	"sort"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
)

// JobStatus represents the status of a job posting
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"   // Accepting applications
	JobStatusClosed JobStatus = "closed" // No longer accepting applications
)

type Job struct {
	ID            kernel.JobID            `db:"id" json:"id"`
	Title         kernel.JobTitle         `db:"title" json:"title"`
	Type          kernel.JobType          `db:"type" json:"type"`
	SalaryRange   kernel.SalaryRange      `db:"salary_range" json:"salary_range"`
	Duty          kernel.JobDuty          `db:"duty" json:"duty"`
	Qualification kernel.JobQualification `db:"qualification" json:"qualification"`
	ImageURL      string                  `db:"image_url" json:"image_url"`
	Status        JobStatus               `db:"status" json:"status"`
	PostedBy      kernel.UserID           `db:"posted_by" json:"posted_by"`
	ClosedAt      *time.Time              `db:"closed_at" json:"closed_at,omitempty"`
	CreatedAt     time.Time               `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time               `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsOpen checks if the job accepts applications
func (j *Job) IsOpen() bool {
	return j.Status == JobStatusOpen
}

// Close stops accepting applications
func (j *Job) Close() error {
	if !j.IsOpen() {
		return ErrJobAlreadyClosed()
	}

	now := time.Now()
	j.Status = JobStatusClosed
	j.ClosedAt = &now
	j.UpdatedAt = now
	return nil
}

// Reopen starts accepting applications again
func (j *Job) Reopen() error {
	if j.IsOpen() {
		return ErrJobAlreadyOpen()
	}

	j.Status = JobStatusOpen
	j.ClosedAt = nil
	j.UpdatedAt = time.Now()
	return nil
}

// ApplyUpdate writes the provided fields and reports whether a field copied
// into application views changed
func (j *Job) ApplyUpdate(req UpdateJobRequest) (snapshotChanged bool) {
	if req.Title != nil && *req.Title != j.Title {
		j.Title = *req.Title
		snapshotChanged = true
	}
	if req.Type != nil && *req.Type != j.Type {
		j.Type = *req.Type
		snapshotChanged = true
	}
	if req.SalaryRange != nil && *req.SalaryRange != j.SalaryRange {
		j.SalaryRange = *req.SalaryRange
		snapshotChanged = true
	}
	if req.Duty != nil {
		j.Duty = *req.Duty
	}
	if req.Qualification != nil {
		j.Qualification = *req.Qualification
	}
	if req.ImageURL != nil {
		j.ImageURL = *req.ImageURL
	}
	j.UpdatedAt = time.Now()
	return snapshotChanged
}

// GroupByType buckets jobs by type, keeping the input order inside each
// bucket and at most perGroup jobs per type. Groups are sorted by type.
func GroupByType(jobs []Job, perGroup int) []JobGroup {
	index := make(map[kernel.JobType]int)
	groups := make([]JobGroup, 0)
	for i := range jobs {
		j := &jobs[i]
		idx, ok := index[j.Type]
		if !ok {
			idx = len(groups)
			index[j.Type] = idx
			groups = append(groups, JobGroup{Type: j.Type, Jobs: []JobResponse{}})
		}
		if perGroup > 0 && len(groups[idx].Jobs) >= perGroup {
			continue
		}
		groups[idx].Jobs = append(groups[idx].Jobs, j.ToResponse())
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].Type < groups[b].Type })
	return groups
}
