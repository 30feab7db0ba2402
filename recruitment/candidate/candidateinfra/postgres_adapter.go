package candidateinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresCandidateRepository struct {
	db *sqlx.DB
}

func NewPostgresCandidateRepository(db *sqlx.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

var _ candidate.Repository = (*PostgresCandidateRepository)(nil)

// ============================================================================
// Database Models
// ============================================================================

type candidateModel struct {
	ID             string         `db:"id"`
	OpenID         string         `db:"open_id"`
	Name           string         `db:"name"`
	AvatarURL      sql.NullString `db:"avatar_url"`
	Phone          sql.NullString `db:"phone"`
	Gender         sql.NullString `db:"gender"`
	Age            int            `db:"age"`
	Region         sql.NullString `db:"region"`
	Education      sql.NullString `db:"education"`
	IsFullTime     bool           `db:"is_full_time"`
	SchoolName     sql.NullString `db:"school_name"`
	Major          sql.NullString `db:"major"`
	GraduationDate sql.NullString `db:"graduation_date"`
	ResumeFileID   sql.NullString `db:"resume_file_id"`
	LastLoginAt    *time.Time     `db:"last_login_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

const candidateColumns = `
	id, open_id, name, avatar_url, phone, gender, age, region, education,
	is_full_time, school_name, major, graduation_date, resume_file_id,
	last_login_at, created_at, updated_at`

func (m *candidateModel) toEntity() *candidate.Candidate {
	return &candidate.Candidate{
		ID:             kernel.CandidateID(m.ID),
		OpenID:         kernel.OpenID(m.OpenID),
		Name:           m.Name,
		AvatarURL:      m.AvatarURL.String,
		Phone:          kernel.Phone(m.Phone.String),
		Gender:         kernel.Gender(m.Gender.String),
		Age:            m.Age,
		Region:         m.Region.String,
		Education:      kernel.Education(m.Education.String),
		IsFullTime:     m.IsFullTime,
		SchoolName:     m.SchoolName.String,
		Major:          m.Major.String,
		GraduationDate: m.GraduationDate.String,
		ResumeFileID:   kernel.FileID(m.ResumeFileID.String),
		LastLoginAt:    m.LastLoginAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func fromEntity(c *candidate.Candidate) *candidateModel {
	return &candidateModel{
		ID:             c.ID.String(),
		OpenID:         c.OpenID.String(),
		Name:           c.Name,
		AvatarURL:      nullString(c.AvatarURL),
		Phone:          nullString(string(c.Phone)),
		Gender:         nullString(string(c.Gender)),
		Age:            c.Age,
		Region:         nullString(c.Region),
		Education:      nullString(string(c.Education)),
		IsFullTime:     c.IsFullTime,
		SchoolName:     nullString(c.SchoolName),
		Major:          nullString(c.Major),
		GraduationDate: nullString(c.GraduationDate),
		ResumeFileID:   nullString(string(c.ResumeFileID)),
		LastLoginAt:    c.LastLoginAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new candidate
func (r *PostgresCandidateRepository) Create(ctx context.Context, c *candidate.Candidate) error {
	query := `
		INSERT INTO candidates (` + candidateColumns + `)
		VALUES (
			:id, :open_id, :name, :avatar_url, :phone, :gender, :age, :region, :education,
			:is_full_time, :school_name, :major, :graduation_date, :resume_file_id,
			:last_login_at, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, fromEntity(c)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return candidate.ErrCandidateAlreadyExists()
		}
		return candidate.ErrStoreUnavailable(fmt.Errorf("create candidate: %w", err))
	}
	return nil
}

func (r *PostgresCandidateRepository) getOne(ctx context.Context, where string, arg any) (*candidate.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE ` + where

	var m candidateModel
	if err := r.db.GetContext(ctx, &m, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, candidate.ErrCandidateNotFound()
		}
		return nil, candidate.ErrStoreUnavailable(err)
	}
	return m.toEntity(), nil
}

// GetByID retrieves a candidate by ID
func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	return r.getOne(ctx, "id = $1", id.String())
}

// GetByOpenID retrieves a candidate by identity subject
func (r *PostgresCandidateRepository) GetByOpenID(ctx context.Context, openID kernel.OpenID) (*candidate.Candidate, error) {
	return r.getOne(ctx, "open_id = $1", openID.String())
}

// buildUpdate renders an UPDATE for the present fields in a stable column order
func buildUpdate(id kernel.CandidateID, update candidate.ProfileUpdate) (string, []any) {
	fields := update.Fields()
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+1)
	for _, col := range cols {
		args = append(args, fields[col])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id.String())

	query := fmt.Sprintf(`UPDATE candidates SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), candidateColumns)
	return query, args
}

// ApplyUpdate writes the present fields of update
func (r *PostgresCandidateRepository) ApplyUpdate(ctx context.Context, id kernel.CandidateID, update candidate.ProfileUpdate) (*candidate.Candidate, error) {
	if update.IsEmpty() {
		return nil, candidate.ErrEmptyUpdate()
	}

	query, args := buildUpdate(id, update)
	var m candidateModel
	if err := r.db.GetContext(ctx, &m, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, candidate.ErrCandidateNotFound().WithDetail("candidate_id", id.String())
		}
		return nil, candidate.ErrStoreUnavailable(err)
	}
	return m.toEntity(), nil
}

// TouchLogin records a successful login
func (r *PostgresCandidateRepository) TouchLogin(ctx context.Context, id kernel.CandidateID, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE candidates SET last_login_at = $2 WHERE id = $1`, id.String(), at)
	if err != nil {
		return candidate.ErrStoreUnavailable(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return candidate.ErrStoreUnavailable(err)
	}
	if rows == 0 {
		return candidate.ErrCandidateNotFound()
	}
	return nil
}

// Exists checks if a candidate exists by ID
func (r *PostgresCandidateRepository) Exists(ctx context.Context, id kernel.CandidateID) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM candidates WHERE id = $1)`, id.String()); err != nil {
		return false, candidate.ErrStoreUnavailable(err)
	}
	return exists, nil
}

// List retrieves candidates, newest first
func (r *PostgresCandidateRepository) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[candidate.Candidate], error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM candidates`); err != nil {
		return nil, candidate.ErrStoreUnavailable(err)
	}

	query := `SELECT ` + candidateColumns + ` FROM candidates ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	var models []candidateModel
	if err := r.db.SelectContext(ctx, &models, query, pagination.PageSize, pagination.Offset()); err != nil {
		return nil, candidate.ErrStoreUnavailable(err)
	}

	items := make([]candidate.Candidate, 0, len(models))
	for i := range models {
		items = append(items, *models[i].toEntity())
	}
	page := kernel.NewPaginated(items, pagination, total)
	return &page, nil
}
