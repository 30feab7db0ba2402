package jobinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/job"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresJobRepository implements job.Repository using PostgreSQL
type PostgresJobRepository struct {
	db *sqlx.DB
}

// NewPostgresJobRepository creates a new PostgreSQL job repository
func NewPostgresJobRepository(db *sqlx.DB) *PostgresJobRepository {
	return &PostgresJobRepository{
		db: db,
	}
}

var _ job.Repository = (*PostgresJobRepository)(nil)

// ============================================================================
// Database Model
// ============================================================================

type jobModel struct {
	ID            string         `db:"id"`
	Title         string         `db:"title"`
	Type          string         `db:"type"`
	SalaryRange   string         `db:"salary_range"`
	Duty          sql.NullString `db:"duty"`
	Qualification sql.NullString `db:"qualification"`
	ImageURL      sql.NullString `db:"image_url"`
	Status        string         `db:"status"`
	PostedBy      sql.NullString `db:"posted_by"`
	ClosedAt      *time.Time     `db:"closed_at"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

const jobColumns = `
	id, title, type, salary_range, duty, qualification, image_url,
	status, posted_by, closed_at, created_at, updated_at`

// toEntity converts database model to domain entity
func (m *jobModel) toEntity() *job.Job {
	return &job.Job{
		ID:            kernel.JobID(m.ID),
		Title:         kernel.JobTitle(m.Title),
		Type:          kernel.JobType(m.Type),
		SalaryRange:   kernel.SalaryRange(m.SalaryRange),
		Duty:          kernel.JobDuty(m.Duty.String),
		Qualification: kernel.JobQualification(m.Qualification.String),
		ImageURL:      m.ImageURL.String,
		Status:        job.JobStatus(m.Status),
		PostedBy:      kernel.UserID(m.PostedBy.String),
		ClosedAt:      m.ClosedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// fromEntity converts domain entity to database model
func fromEntity(j *job.Job) *jobModel {
	return &jobModel{
		ID:            j.ID.String(),
		Title:         string(j.Title),
		Type:          string(j.Type),
		SalaryRange:   string(j.SalaryRange),
		Duty:          nullString(string(j.Duty)),
		Qualification: nullString(string(j.Qualification)),
		ImageURL:      nullString(j.ImageURL),
		Status:        string(j.Status),
		PostedBy:      nullString(string(j.PostedBy)),
		ClosedAt:      j.ClosedAt,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new job
func (r *PostgresJobRepository) Create(ctx context.Context, jobEntity *job.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES (
			:id, :title, :type, :salary_range, :duty, :qualification, :image_url,
			:status, :posted_by, :closed_at, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, fromEntity(jobEntity)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return job.ErrJobAlreadyExists()
		}
		return job.ErrStoreUnavailable(fmt.Errorf("create job: %w", err))
	}
	return nil
}

// Update updates an existing job
func (r *PostgresJobRepository) Update(ctx context.Context, jobEntity *job.Job) error {
	query := `
		UPDATE jobs SET
			title = :title,
			type = :type,
			salary_range = :salary_range,
			duty = :duty,
			qualification = :qualification,
			image_url = :image_url,
			status = :status,
			closed_at = :closed_at,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, fromEntity(jobEntity))
	if err != nil {
		return job.ErrStoreUnavailable(fmt.Errorf("update job: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return job.ErrStoreUnavailable(err)
	}
	if rows == 0 {
		return job.ErrJobNotFound().WithDetail("job_id", jobEntity.ID.String())
	}
	return nil
}

// GetByID retrieves a job by ID
func (r *PostgresJobRepository) GetByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	var m jobModel
	if err := r.db.GetContext(ctx, &m, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		return nil, job.ErrStoreUnavailable(err)
	}
	return m.toEntity(), nil
}

// ListOpen retrieves open jobs, newest first
func (r *PostgresJobRepository) ListOpen(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM jobs WHERE status = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, string(job.JobStatusOpen)); err != nil {
		return nil, job.ErrStoreUnavailable(fmt.Errorf("count open jobs: %w", err))
	}

	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE status = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	var models []jobModel
	if err := r.db.SelectContext(ctx, &models, query, string(job.JobStatusOpen), pagination.PageSize, pagination.Offset()); err != nil {
		return nil, job.ErrStoreUnavailable(fmt.Errorf("list open jobs: %w", err))
	}

	jobs := make([]job.Job, 0, len(models))
	for i := range models {
		jobs = append(jobs, *models[i].toEntity())
	}

	page := kernel.NewPaginated(jobs, pagination, total)
	return &page, nil
}

// ListOpenGroupedByType returns the newest perGroup open jobs of every type
func (r *PostgresJobRepository) ListOpenGroupedByType(ctx context.Context, perGroup int) ([]job.JobGroup, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM (
			SELECT *, ROW_NUMBER() OVER (PARTITION BY type ORDER BY created_at DESC, id) AS rn
			FROM jobs
			WHERE status = $1
		) ranked
		WHERE rn <= $2
		ORDER BY type, created_at DESC, id`

	var models []jobModel
	if err := r.db.SelectContext(ctx, &models, query, string(job.JobStatusOpen), perGroup); err != nil {
		return nil, job.ErrStoreUnavailable(fmt.Errorf("list grouped jobs: %w", err))
	}

	jobs := make([]job.Job, 0, len(models))
	for i := range models {
		jobs = append(jobs, *models[i].toEntity())
	}
	return job.GroupByType(jobs, perGroup), nil
}
