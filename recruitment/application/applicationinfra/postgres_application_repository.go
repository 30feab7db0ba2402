package applicationinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/jmoiron/sqlx"
)

// PostgresApplicationRepository implements application.Repository using PostgreSQL
type PostgresApplicationRepository struct {
	db *sqlx.DB
}

// NewPostgresApplicationRepository creates a new PostgreSQL application repository
func NewPostgresApplicationRepository(db *sqlx.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{
		db: db,
	}
}

var _ application.Repository = (*PostgresApplicationRepository)(nil)

// ============================================================================
// Database Models
// ============================================================================

type applicationModel struct {
	ID          string    `db:"id"`
	CandidateID string    `db:"candidate_id"`
	JobID       string    `db:"job_id"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const applicationColumns = `id, candidate_id, job_id, status, created_at, updated_at`

// toEntity converts database model to domain entity
func (m *applicationModel) toEntity() *application.Application {
	return &application.Application{
		ID:          kernel.ApplicationID(m.ID),
		CandidateID: kernel.CandidateID(m.CandidateID),
		JobID:       kernel.JobID(m.JobID),
		Status:      application.ApplicationStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ============================================================================
// Transactions
// ============================================================================

// withPairLock runs fn in a transaction holding the advisory lock of the pair.
// Concurrent writers of the same pair queue up behind each other; other
// pairs are unaffected.
func withPairLock(ctx context.Context, db *sqlx.DB, pairKey string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return application.ErrStoreUnavailable(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logx.Warnf("Rollback for pair %s failed: %v", pairKey, rbErr)
		}
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, pairKey); err != nil {
		return application.ErrStoreUnavailable(fmt.Errorf("lock pair %s: %w", pairKey, err))
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return application.ErrStoreUnavailable(fmt.Errorf("commit: %w", err))
	}
	return nil
}

// deletePair removes the views and records of a pair inside tx
func deletePair(ctx context.Context, tx *sqlx.Tx, candidateID kernel.CandidateID, jobID kernel.JobID) (int, error) {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM application_views WHERE candidate_id = $1 AND job_id = $2`,
		candidateID.String(), jobID.String(),
	); err != nil {
		return 0, application.ErrStoreUnavailable(fmt.Errorf("delete views: %w", err))
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM applications WHERE candidate_id = $1 AND job_id = $2`,
		candidateID.String(), jobID.String(),
	)
	if err != nil {
		return 0, application.ErrStoreUnavailable(fmt.Errorf("delete records: %w", err))
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, application.ErrStoreUnavailable(err)
	}
	return int(removed), nil
}

// ============================================================================
// Repository Implementation
// ============================================================================

// Replace deletes the pair's records and views and inserts app in one transaction
func (r *PostgresApplicationRepository) Replace(ctx context.Context, app *application.Application) (int, error) {
	if err := app.Validate(); err != nil {
		return 0, err
	}

	var removed int
	err := withPairLock(ctx, r.db, app.PairKey(), func(tx *sqlx.Tx) error {
		var err error
		removed, err = deletePair(ctx, tx, app.CandidateID, app.JobID)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO applications (id, candidate_id, job_id, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, clock_timestamp(), clock_timestamp())
			RETURNING created_at, updated_at`

		row := tx.QueryRowxContext(ctx, query,
			app.ID.String(), app.CandidateID.String(), app.JobID.String(), string(app.Status))
		if err := row.Scan(&app.CreatedAt, &app.UpdatedAt); err != nil {
			return application.ErrStoreUnavailable(fmt.Errorf("insert record: %w", err))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// GetByID retrieves an application by ID
func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	var m applicationModel
	if err := r.db.GetContext(ctx, &m, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
		}
		return nil, application.ErrStoreUnavailable(err)
	}
	return m.toEntity(), nil
}

// LatestForPair returns the newest record of the pair
func (r *PostgresApplicationRepository) LatestForPair(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) (*application.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE candidate_id = $1 AND job_id = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var m applicationModel
	if err := r.db.GetContext(ctx, &m, query, candidateID.String(), jobID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrApplicationNotFound()
		}
		return nil, application.ErrStoreUnavailable(err)
	}
	return m.toEntity(), nil
}

// DeletePair removes every record and view of the pair
func (r *PostgresApplicationRepository) DeletePair(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) (int, error) {
	var removed int
	err := withPairLock(ctx, r.db, application.PairKey(candidateID, jobID), func(tx *sqlx.Tx) error {
		var err error
		removed, err = deletePair(ctx, tx, candidateID, jobID)
		return err
	})
	return removed, err
}

// UpdateStatus changes the status of a record and its view in one transaction,
// holding the pair lock so a concurrent projection cannot interleave
func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id kernel.ApplicationID, status application.ApplicationStatus) (*application.Application, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var m applicationModel
	err = withPairLock(ctx, r.db, current.PairKey(), func(tx *sqlx.Tx) error {
		query := `
			UPDATE applications SET status = $2, updated_at = clock_timestamp()
			WHERE id = $1
			RETURNING ` + applicationColumns

		if err := tx.GetContext(ctx, &m, query, id.String(), string(status)); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// replaced or withdrawn between the lookup and the lock
				return application.ErrApplicationNotFound().WithDetail("application_id", id.String())
			}
			return application.ErrStoreUnavailable(fmt.Errorf("update status: %w", err))
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE application_views SET status = $2 WHERE id = $1`,
			id.String(), string(status),
		); err != nil {
			return application.ErrStoreUnavailable(fmt.Errorf("update view status: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m.toEntity(), nil
}

func (r *PostgresApplicationRepository) list(ctx context.Context, where string, arg string) ([]application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE ` + where + ` ORDER BY created_at DESC`

	var models []applicationModel
	if err := r.db.SelectContext(ctx, &models, query, arg); err != nil {
		return nil, application.ErrStoreUnavailable(err)
	}

	apps := make([]application.Application, 0, len(models))
	for i := range models {
		apps = append(apps, *models[i].toEntity())
	}
	return apps, nil
}

// ListByCandidate returns every record of a candidate, newest first
func (r *PostgresApplicationRepository) ListByCandidate(ctx context.Context, candidateID kernel.CandidateID) ([]application.Application, error) {
	return r.list(ctx, "candidate_id = $1", candidateID.String())
}

// ListByJob returns every record of a job, newest first
func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID kernel.JobID) ([]application.Application, error) {
	return r.list(ctx, "job_id = $1", jobID.String())
}
