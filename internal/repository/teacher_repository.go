package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-attend-api/internal/models"
)

// TeacherRepository provides database access for teacher records.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs the repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns all teachers joined with their user rows.
func (r *TeacherRepository) List(ctx context.Context) ([]models.TeacherDetail, error) {
	const query = `SELECT t.teacher_id, u.first_name, u.last_name, u.username, t.title, t.course_count
FROM teachers t
JOIN users u ON u.id = t.user_id
ORDER BY t.teacher_id`
	var teachers []models.TeacherDetail
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID returns a teacher with its user row.
func (r *TeacherRepository) FindByID(ctx context.Context, teacherID string) (*models.TeacherDetail, error) {
	const query = `SELECT t.teacher_id, u.first_name, u.last_name, u.username, t.title, t.course_count
FROM teachers t
JOIN users u ON u.id = t.user_id
WHERE t.teacher_id = $1 LIMIT 1`
	var teacher models.TeacherDetail
	if err := r.db.GetContext(ctx, &teacher, query, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher: %w", err)
	}
	return &teacher, nil
}

// FindRecord returns the raw teacher row.
func (r *TeacherRepository) FindRecord(ctx context.Context, teacherID string) (*models.Teacher, error) {
	const query = `SELECT teacher_id, user_id, title, course_count FROM teachers WHERE teacher_id = $1 LIMIT 1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher record: %w", err)
	}
	return &teacher, nil
}

// Delete removes a teacher and its user row; sections supervised by the
// teacher keep their reference and must be reassigned first.
func (r *TeacherRepository) Delete(ctx context.Context, teacherID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin teacher delete tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var userID string
	if err := tx.GetContext(ctx, &userID, `SELECT user_id FROM teachers WHERE teacher_id = $1`, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("load teacher user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM teachers WHERE teacher_id = $1`, teacherID); err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("delete teacher user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit teacher delete tx: %w", err)
	}
	return nil
}
