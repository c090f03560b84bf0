package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-attend-api/internal/models"
)

// EnrollmentRepository handles persistence of the student-course relation.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Exists reports whether the (course, student) pair is already enrolled.
func (r *EnrollmentRepository) Exists(ctx context.Context, courseID, studentID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, courseID, studentID); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

// Create inserts an enrollment row. The composite primary key rejects
// concurrent duplicates; callers must map unique violations.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	const query = `INSERT INTO enrollments (course_id, student_id, midterm_grade, final_grade, total_grade, gpa, enrolled_at)
VALUES (:course_id, :student_id, :midterm_grade, :final_grade, :total_grade, :gpa, :enrolled_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// ListByCourse returns enrollments for a course joined with student names.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.course_id, e.student_id, e.midterm_grade, e.final_grade, e.total_grade, e.gpa, e.enrolled_at, c.name AS course_name, u.first_name, u.last_name
FROM enrollments e
JOIN courses c ON c.id = e.course_id
JOIN students s ON s.student_id = e.student_id
JOIN users u ON u.id = s.user_id
WHERE e.course_id = $1
ORDER BY e.student_id`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, courseID); err != nil {
		return nil, fmt.Errorf("list course enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByStudent returns a student's enrollments joined with course names.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.course_id, e.student_id, e.midterm_grade, e.final_grade, e.total_grade, e.gpa, e.enrolled_at, c.name AS course_name, u.first_name, u.last_name
FROM enrollments e
JOIN courses c ON c.id = e.course_id
JOIN students s ON s.student_id = e.student_id
JOIN users u ON u.id = s.user_id
WHERE e.student_id = $1
ORDER BY c.name`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return enrollments, nil
}

// StudentIDsByCourse returns the ids of all students enrolled in the course.
// Session creation seeds one Absent row per returned id.
func (r *EnrollmentRepository) StudentIDsByCourse(ctx context.Context, courseID string) ([]string, error) {
	const query = `SELECT student_id FROM enrollments WHERE course_id = $1 ORDER BY student_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, courseID); err != nil {
		return nil, fmt.Errorf("list enrolled student ids: %w", err)
	}
	return ids, nil
}
