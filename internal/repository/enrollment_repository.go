package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yoestudio/enroll-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollment requests.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create persists a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = now
	}
	enrollment.UpdatedAt = now
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusPending
	}
	const query = `INSERT INTO enrollments (id, public_code, student_name, guardian_name, phone, group_id, status, proof_path, created_at, updated_at)
        VALUES (:id, :public_code, :student_name, :guardian_name, :phone, :group_id, :status, :proof_path, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// FindByID returns an enrollment by its internal ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	const query = `SELECT id, public_code, student_name, guardian_name, phone, group_id, status, proof_path, created_at, updated_at
        FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindDetailByCode returns an enrollment joined with its group, looked up
// by the public code applicants receive on submission.
func (r *EnrollmentRepository) FindDetailByCode(ctx context.Context, code string) (*models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.public_code, e.student_name, e.guardian_name, e.phone, e.group_id, e.status, e.proof_path, e.created_at, e.updated_at,
        g.course_name, g.start_date, g.schedule_label
        FROM enrollments e
        JOIN groups g ON g.id = e.group_id
        WHERE e.public_code = $1`
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, code); err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns the full ledger, newest first.
func (r *EnrollmentRepository) List(ctx context.Context) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.public_code, e.student_name, e.guardian_name, e.phone, e.group_id, e.status, e.proof_path, e.created_at, e.updated_at,
        g.course_name, g.start_date, g.schedule_label
        FROM enrollments e
        JOIN groups g ON g.id = e.group_id
        ORDER BY e.created_at DESC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// UpdateStatus updates the status for an enrollment.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error {
	const query = `UPDATE enrollments SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	return nil
}
