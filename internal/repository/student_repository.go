package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-attend-api/internal/models"
)

// StudentRepository provides database access for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns the joined roster view with filters and total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	base := `FROM students s
JOIN users u ON u.id = s.user_id
JOIN programs p ON p.id = s.program_id
JOIN sections sec ON sec.id = s.section_id`
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.ProgramID != "" {
		conditions = append(conditions, fmt.Sprintf("s.program_id = $%d", len(args)+1))
		args = append(args, filter.ProgramID)
	}
	if filter.Level != nil {
		conditions = append(conditions, fmt.Sprintf("s.level = $%d", len(args)+1))
		args = append(args, *filter.Level)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf(`SELECT s.student_id, u.first_name, u.last_name, u.username, p.name AS program_name, sec.name AS section_name, s.level, s.status %s%s ORDER BY s.student_id LIMIT %d OFFSET %d`, base, clause, pageSize, offset)

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", base, clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	return students, total, nil
}

// FindByID returns the joined roster view for one student.
func (r *StudentRepository) FindByID(ctx context.Context, studentID string) (*models.StudentDetail, error) {
	const query = `SELECT s.student_id, u.first_name, u.last_name, u.username, p.name AS program_name, sec.name AS section_name, s.level, s.status
FROM students s
JOIN users u ON u.id = s.user_id
JOIN programs p ON p.id = s.program_id
JOIN sections sec ON sec.id = s.section_id
WHERE s.student_id = $1 LIMIT 1`
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student detail: %w", err)
	}
	return &detail, nil
}

// FindRecord returns the raw student row.
func (r *StudentRepository) FindRecord(ctx context.Context, studentID string) (*models.Student, error) {
	const query = `SELECT student_id, user_id, program_id, section_id, gpa, gpax, credits, level, course_count, status FROM students WHERE student_id = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// Update rewrites the student placement and the linked user profile in one
// transaction (admin roster edit touches both tables).
func (r *StudentRepository) Update(ctx context.Context, student *models.Student, firstName, lastName, username string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student update tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `UPDATE students SET program_id = $2, section_id = $3, level = $4, status = $5 WHERE student_id = $1`, student.StudentID, student.ProgramID, student.SectionID, student.Level, student.Status); err != nil {
		return fmt.Errorf("update student: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE users SET first_name = $2, last_name = $3, username = $4, updated_at = $5 WHERE id = $1`, student.UserID, firstName, lastName, username, time.Now().UTC()); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("update student user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit student update tx: %w", err)
	}
	return nil
}

// Delete removes the student together with its dependent rows and user.
func (r *StudentRepository) Delete(ctx context.Context, studentID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student delete tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var userID string
	if err := tx.GetContext(ctx, &userID, `SELECT user_id FROM students WHERE student_id = $1`, studentID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("load student user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM student_attendance WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("delete student scan rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("delete student enrollments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM students WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("delete student user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit student delete tx: %w", err)
	}
	return nil
}
