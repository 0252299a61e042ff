package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-course-registration/internal/models"
)

// SubmissionSchema creates the submission table when it is missing.
const SubmissionSchema = `CREATE TABLE IF NOT EXISTS course_submissions (
	id BIGSERIAL PRIMARY KEY,
	student_id TEXT NOT NULL,
	student_name TEXT NOT NULL DEFAULT '',
	grade_level TEXT NOT NULL DEFAULT '',
	subject_title TEXT NOT NULL DEFAULT '',
	credits INTEGER NOT NULL DEFAULT 0,
	term TEXT NOT NULL DEFAULT '',
	subject_area TEXT NOT NULL DEFAULT '',
	track_type TEXT NOT NULL DEFAULT '',
	is_major BOOLEAN NOT NULL DEFAULT FALSE,
	submitted_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_course_submissions_key ON course_submissions (btrim(student_id), grade_level)`

const (
	selectSubmissions      = `SELECT student_id, student_name, grade_level, subject_title, credits, term, subject_area, track_type, is_major, submitted_at FROM course_submissions ORDER BY id`
	deleteSubmissionsByKey = `DELETE FROM course_submissions WHERE btrim(student_id) = btrim($1) AND grade_level = $2`
	deleteAllSubmissions   = `DELETE FROM course_submissions`
	insertSubmission       = `INSERT INTO course_submissions (student_id, student_name, grade_level, subject_title, credits, term, subject_area, track_type, is_major, submitted_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
)

// PostgresSubmissionRepository stores submission rows in PostgreSQL. Upserts run in one transaction,
// so a failed write leaves the previous rows in place.
type PostgresSubmissionRepository struct {
	db *sqlx.DB
}

// NewPostgresSubmissionRepository constructs the repository.
func NewPostgresSubmissionRepository(db *sqlx.DB) *PostgresSubmissionRepository {
	return &PostgresSubmissionRepository{db: db}
}

// EnsureSchema creates the submission table if needed.
func (r *PostgresSubmissionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, SubmissionSchema); err != nil {
		return fmt.Errorf("ensure submission schema: %w", err)
	}
	return nil
}

// LoadAll returns every row in insertion order.
func (r *PostgresSubmissionRepository) LoadAll(ctx context.Context) ([]models.SubmissionRecord, error) {
	records := []models.SubmissionRecord{}
	if err := r.db.SelectContext(ctx, &records, selectSubmissions); err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	return records, nil
}

// Upsert replaces the rows stored for key.
func (r *PostgresSubmissionRepository) Upsert(ctx context.Context, key models.SubmissionKey, records []models.SubmissionRecord) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteSubmissionsByKey, key.StudentID, key.GradeLevel); err != nil {
			return fmt.Errorf("delete previous submission: %w", err)
		}
		return insertRecords(ctx, tx, records)
	})
}

// ReplaceAll swaps the full table contents for records.
func (r *PostgresSubmissionRepository) ReplaceAll(ctx context.Context, records []models.SubmissionRecord) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteAllSubmissions); err != nil {
			return fmt.Errorf("clear submissions: %w", err)
		}
		return insertRecords(ctx, tx, records)
	})
}

func (r *PostgresSubmissionRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertRecords(ctx context.Context, tx *sqlx.Tx, records []models.SubmissionRecord) error {
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, insertSubmission,
			rec.StudentID, rec.StudentName, rec.GradeLevel, rec.SubjectTitle, rec.Credits,
			rec.Term, rec.SubjectArea, rec.TrackType, rec.IsMajor, rec.SubmittedAt,
		); err != nil {
			return fmt.Errorf("insert submission row: %w", err)
		}
	}
	return nil
}
