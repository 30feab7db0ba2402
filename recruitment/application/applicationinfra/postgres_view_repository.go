package applicationinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/jmoiron/sqlx"
)

// PostgresViewRepository implements application.ViewRepository using PostgreSQL
type PostgresViewRepository struct {
	db *sqlx.DB
}

func NewPostgresViewRepository(db *sqlx.DB) *PostgresViewRepository {
	return &PostgresViewRepository{db: db}
}

var _ application.ViewRepository = (*PostgresViewRepository)(nil)

// viewModel is the flat row of application_views
type viewModel struct {
	ID                      string    `db:"id"`
	CandidateID             string    `db:"candidate_id"`
	JobID                   string    `db:"job_id"`
	Status                  string    `db:"status"`
	CreatedAt               time.Time `db:"created_at"`
	ProjectedAt             time.Time `db:"projected_at"`
	CandidateName           string    `db:"candidate_name"`
	CandidateAge            int       `db:"candidate_age"`
	CandidateEducation      string    `db:"candidate_education"`
	CandidateGender         string    `db:"candidate_gender"`
	CandidateGraduationDate string    `db:"candidate_graduation_date"`
	CandidateIsFullTime     bool      `db:"candidate_is_full_time"`
	CandidateMajor          string    `db:"candidate_major"`
	CandidatePhone          string    `db:"candidate_phone"`
	CandidateRegion         string    `db:"candidate_region"`
	CandidateSchoolName     string    `db:"candidate_school_name"`
	CandidateResumeFileID   string    `db:"candidate_resume_file_id"`
	JobTitle                string    `db:"job_title"`
	JobType                 string    `db:"job_type"`
	JobSalaryRange          string    `db:"job_salary_range"`
}

const viewColumns = `
	id, candidate_id, job_id, status, created_at, projected_at,
	candidate_name, candidate_age, candidate_education, candidate_gender,
	candidate_graduation_date, candidate_is_full_time, candidate_major,
	candidate_phone, candidate_region, candidate_school_name, candidate_resume_file_id,
	job_title, job_type, job_salary_range`

func (m *viewModel) toEntity() *application.View {
	return &application.View{
		ID:          kernel.ApplicationID(m.ID),
		CandidateID: kernel.CandidateID(m.CandidateID),
		JobID:       kernel.JobID(m.JobID),
		Status:      application.ApplicationStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		ProjectedAt: m.ProjectedAt,
		Candidate: application.CandidateSnapshot{
			Name:           m.CandidateName,
			Age:            m.CandidateAge,
			Education:      kernel.Education(m.CandidateEducation),
			Gender:         kernel.Gender(m.CandidateGender),
			GraduationDate: m.CandidateGraduationDate,
			IsFullTime:     m.CandidateIsFullTime,
			Major:          m.CandidateMajor,
			Phone:          kernel.Phone(m.CandidatePhone),
			Region:         m.CandidateRegion,
			SchoolName:     m.CandidateSchoolName,
			ResumeFileID:   kernel.FileID(m.CandidateResumeFileID),
		},
		Job: application.JobSnapshot{
			Title:       kernel.JobTitle(m.JobTitle),
			Type:        kernel.JobType(m.JobType),
			SalaryRange: kernel.SalaryRange(m.JobSalaryRange),
		},
	}
}

func viewFromEntity(v *application.View) *viewModel {
	return &viewModel{
		ID:                      v.ID.String(),
		CandidateID:             v.CandidateID.String(),
		JobID:                   v.JobID.String(),
		Status:                  string(v.Status),
		CreatedAt:               v.CreatedAt,
		ProjectedAt:             v.ProjectedAt,
		CandidateName:           v.Candidate.Name,
		CandidateAge:            v.Candidate.Age,
		CandidateEducation:      string(v.Candidate.Education),
		CandidateGender:         string(v.Candidate.Gender),
		CandidateGraduationDate: v.Candidate.GraduationDate,
		CandidateIsFullTime:     v.Candidate.IsFullTime,
		CandidateMajor:          v.Candidate.Major,
		CandidatePhone:          string(v.Candidate.Phone),
		CandidateRegion:         v.Candidate.Region,
		CandidateSchoolName:     v.Candidate.SchoolName,
		CandidateResumeFileID:   string(v.Candidate.ResumeFileID),
		JobTitle:                string(v.Job.Title),
		JobType:                 string(v.Job.Type),
		JobSalaryRange:          string(v.Job.SalaryRange),
	}
}

// Replace deletes the pair's views and inserts v. The insert only happens
// while the record v was projected from still exists; a projection that lost
// the race against a resubmission returns ApplicationNotFound and writes nothing.
// Status and created_at are read from the live record inside the transaction,
// and v is updated to match.
func (r *PostgresViewRepository) Replace(ctx context.Context, v *application.View) error {
	return withPairLock(ctx, r.db, v.PairKey(), func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM application_views WHERE candidate_id = $1 AND job_id = $2`,
			v.CandidateID.String(), v.JobID.String(),
		); err != nil {
			return application.ErrStoreUnavailable(fmt.Errorf("delete views: %w", err))
		}

		query := `
			INSERT INTO application_views (` + viewColumns + `)
			SELECT
				a.id, a.candidate_id, a.job_id, a.status, a.created_at, CAST(:projected_at AS timestamptz),
				:candidate_name, CAST(:candidate_age AS integer), :candidate_education, :candidate_gender,
				:candidate_graduation_date, CAST(:candidate_is_full_time AS boolean), :candidate_major,
				:candidate_phone, :candidate_region, :candidate_school_name, :candidate_resume_file_id,
				:job_title, :job_type, :job_salary_range
			FROM applications a
			WHERE a.id = :id
			RETURNING status, created_at`

		stmt, err := tx.PrepareNamedContext(ctx, query)
		if err != nil {
			return application.ErrStoreUnavailable(fmt.Errorf("prepare view insert: %w", err))
		}
		defer stmt.Close()

		var live struct {
			Status    string    `db:"status"`
			CreatedAt time.Time `db:"created_at"`
		}
		if err := stmt.GetContext(ctx, &live, viewFromEntity(v)); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return application.ErrApplicationNotFound().WithDetail("application_id", v.ID.String())
			}
			return application.ErrStoreUnavailable(fmt.Errorf("insert view: %w", err))
		}
		v.Status = application.ApplicationStatus(live.Status)
		v.CreatedAt = live.CreatedAt
		return nil
	})
}

// GetByID retrieves a view by application ID
func (r *PostgresViewRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.View, error) {
	query := `SELECT ` + viewColumns + ` FROM application_views WHERE id = $1`

	var m viewModel
	if err := r.db.GetContext(ctx, &m, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrViewNotFound().WithDetail("application_id", id.String())
		}
		return nil, application.ErrStoreUnavailable(err)
	}
	return m.toEntity(), nil
}

// ListByJob retrieves views of one job, newest first
func (r *PostgresViewRepository) ListByJob(ctx context.Context, jobID kernel.JobID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.View], error) {
	var total int64
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM application_views WHERE job_id = $1`, jobID.String(),
	); err != nil {
		return nil, application.ErrStoreUnavailable(fmt.Errorf("count views: %w", err))
	}

	query := `
		SELECT ` + viewColumns + `
		FROM application_views
		WHERE job_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	var models []viewModel
	if err := r.db.SelectContext(ctx, &models, query, jobID.String(), pagination.PageSize, pagination.Offset()); err != nil {
		return nil, application.ErrStoreUnavailable(fmt.Errorf("list views: %w", err))
	}

	views := make([]application.View, 0, len(models))
	for i := range models {
		views = append(views, *models[i].toEntity())
	}
	page := kernel.NewPaginated(views, pagination, total)
	return &page, nil
}
