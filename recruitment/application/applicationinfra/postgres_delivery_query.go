package applicationinfra

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/jmoiron/sqlx"
)

// PostgresDeliveryQuery implements application.DeliveryQuery with joins over
// applications, candidates and jobs
type PostgresDeliveryQuery struct {
	db *sqlx.DB
}

func NewPostgresDeliveryQuery(db *sqlx.DB) *PostgresDeliveryQuery {
	return &PostgresDeliveryQuery{db: db}
}

var _ application.DeliveryQuery = (*PostgresDeliveryQuery)(nil)

// ============================================================================
// Row Models
// ============================================================================

// deliveryRowModel is an application joined with its job and, possibly, its
// candidate. Candidate columns are nullable because exports left-join them.
type deliveryRowModel struct {
	ApplicationID  string         `db:"application_id"`
	CreatedAt      time.Time      `db:"created_at"`
	Status         string         `db:"status"`
	CandidateID    string         `db:"candidate_id"`
	CandidateFound bool           `db:"candidate_found"`
	Name           sql.NullString `db:"name"`
	Age            sql.NullInt64  `db:"age"`
	Education      sql.NullString `db:"education"`
	Gender         sql.NullString `db:"gender"`
	GraduationDate sql.NullString `db:"graduation_date"`
	IsFullTime     sql.NullBool   `db:"is_full_time"`
	Major          sql.NullString `db:"major"`
	Phone          sql.NullString `db:"phone"`
	Region         sql.NullString `db:"region"`
	SchoolName     sql.NullString `db:"school_name"`
	ResumeFileID   sql.NullString `db:"resume_file_id"`
	JobID          string         `db:"job_id"`
	JobStatus      string         `db:"job_status"`
	JobTitle       string         `db:"job_title"`
	JobType        string         `db:"job_type"`
	SalaryRange    string         `db:"salary_range"`
}

const deliverySelect = `
	SELECT
		a.id AS application_id, a.created_at, a.status, a.candidate_id,
		c.id IS NOT NULL AS candidate_found,
		c.name, c.age, c.education, c.gender, c.graduation_date, c.is_full_time,
		c.major, c.phone, c.region, c.school_name, c.resume_file_id,
		j.id AS job_id, j.status AS job_status, j.title AS job_title,
		j.type AS job_type, j.salary_range`

func (m *deliveryRowModel) snapshot() application.CandidateSnapshot {
	return application.CandidateSnapshot{
		Name:           m.Name.String,
		Age:            int(m.Age.Int64),
		Education:      kernel.Education(m.Education.String),
		Gender:         kernel.Gender(m.Gender.String),
		GraduationDate: m.GraduationDate.String,
		IsFullTime:     m.IsFullTime.Bool,
		Major:          m.Major.String,
		Phone:          kernel.Phone(m.Phone.String),
		Region:         m.Region.String,
		SchoolName:     m.SchoolName.String,
		ResumeFileID:   kernel.FileID(m.ResumeFileID.String),
	}
}

func (m *deliveryRowModel) toDeliveryRow() application.DeliveryRow {
	return application.DeliveryRow{
		ApplicationID:     kernel.ApplicationID(m.ApplicationID),
		CreatedAt:         m.CreatedAt,
		Status:            application.ApplicationStatus(m.Status),
		CandidateID:       kernel.CandidateID(m.CandidateID),
		CandidateSnapshot: m.snapshot(),
		JobID:             kernel.JobID(m.JobID),
		JobStatus:         m.JobStatus,
		JobTitle:          kernel.JobTitle(m.JobTitle),
		JobType:           kernel.JobType(m.JobType),
		SalaryRange:       kernel.SalaryRange(m.SalaryRange),
	}
}

func (m *deliveryRowModel) toExportRow() application.ExportRow {
	row := application.ExportRow{
		ApplicationID: kernel.ApplicationID(m.ApplicationID),
		CreatedAt:     m.CreatedAt,
		Status:        application.ApplicationStatus(m.Status),
		CandidateID:   kernel.CandidateID(m.CandidateID),
		JobID:         kernel.JobID(m.JobID),
		JobStatus:     m.JobStatus,
		JobTitle:      kernel.JobTitle(m.JobTitle),
		JobType:       kernel.JobType(m.JobType),
		SalaryRange:   kernel.SalaryRange(m.SalaryRange),
	}
	if m.CandidateFound {
		snap := m.snapshot()
		row.Candidate = &snap
	}
	return row
}

// ============================================================================
// Candidate listing
// ============================================================================

// ListByCandidate pages a candidate's applications whose job still exists
func (q *PostgresDeliveryQuery) ListByCandidate(ctx context.Context, candidateID kernel.CandidateID, offset, limit int) ([]application.CandidateDelivery, error) {
	query := `
		SELECT
			a.id AS application_id, a.job_id, a.status, a.created_at,
			j.title AS job_title, j.type AS job_type,
			COALESCE(j.duty, '') AS job_duty,
			COALESCE(j.image_url, '') AS job_image,
			j.salary_range
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.candidate_id = $1
		ORDER BY a.created_at DESC, a.id
		LIMIT $2 OFFSET $3`

	rows := []application.CandidateDelivery{}
	if err := q.db.SelectContext(ctx, &rows, query, candidateID.String(), limit, offset); err != nil {
		return nil, application.ErrStoreUnavailable(fmt.Errorf("list candidate deliveries: %w", err))
	}
	return rows, nil
}

// CountByCandidate counts the rows ListByCandidate can return
func (q *PostgresDeliveryQuery) CountByCandidate(ctx context.Context, candidateID kernel.CandidateID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.candidate_id = $1`

	var total int64
	if err := q.db.GetContext(ctx, &total, query, candidateID.String()); err != nil {
		return 0, application.ErrStoreUnavailable(fmt.Errorf("count candidate deliveries: %w", err))
	}
	return total, nil
}

// ============================================================================
// Operator listing
// ============================================================================

// ListAll returns the newest applications that have both a candidate and a job
func (q *PostgresDeliveryQuery) ListAll(ctx context.Context, limit int) ([]application.DeliveryRow, error) {
	query := deliverySelect + `
		FROM applications a
		JOIN candidates c ON c.id = a.candidate_id
		JOIN jobs j ON j.id = a.job_id
		ORDER BY a.created_at DESC, a.id
		LIMIT $1`

	var models []deliveryRowModel
	if err := q.db.SelectContext(ctx, &models, query, limit); err != nil {
		return nil, application.ErrStoreUnavailable(fmt.Errorf("list deliveries: %w", err))
	}

	rows := make([]application.DeliveryRow, 0, len(models))
	for i := range models {
		rows = append(rows, models[i].toDeliveryRow())
	}
	return rows, nil
}

// ============================================================================
// Export
// ============================================================================

// buildExportQuery renders the export statement. Job filters belong to the
// inner join so that a non-matching job drops the row instead of surviving
// with empty job fields.
func buildExportQuery(filter application.ExportFilter, limit int) (string, []any) {
	var (
		args     []any
		jobConds []string
		where    []string
	)
	bind := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.JobType != "" {
		jobConds = append(jobConds, "j.type = "+bind(filter.JobType))
	}
	if filter.JobTitle != "" {
		jobConds = append(jobConds, "j.title = "+bind(filter.JobTitle))
	}
	if start, ok := filter.StartTime(); ok {
		where = append(where, "a.created_at >= "+bind(start))
	}
	if end, ok := filter.EndTime(); ok {
		where = append(where, "a.created_at <= "+bind(end))
	}

	var sb strings.Builder
	sb.WriteString(deliverySelect)
	sb.WriteString("\n\tFROM applications a\n\tJOIN jobs j ON j.id = a.job_id")
	for _, c := range jobConds {
		sb.WriteString(" AND ")
		sb.WriteString(c)
	}
	sb.WriteString("\n\tLEFT JOIN candidates c ON c.id = a.candidate_id")
	if len(where) > 0 {
		sb.WriteString("\n\tWHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString("\n\tORDER BY a.created_at ASC, a.id\n\tLIMIT ")
	sb.WriteString(bind(limit))

	return sb.String(), args
}

// Export returns applications matching filter, oldest first
func (q *PostgresDeliveryQuery) Export(ctx context.Context, filter application.ExportFilter) ([]application.ExportRow, error) {
	query, args := buildExportQuery(filter, filter.Limit)

	var models []deliveryRowModel
	if err := q.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, application.ErrStoreUnavailable(fmt.Errorf("export deliveries: %w", err))
	}

	rows := make([]application.ExportRow, 0, len(models))
	for i := range models {
		rows = append(rows, models[i].toExportRow())
	}
	return rows, nil
}
