package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-attend-api/internal/models"
)

// Advisory lock keys serialising sequential ID generation per role scope.
const (
	studentSeqLockKey = "uni_attend_student_id_seq"
	teacherSeqLockKey = "uni_attend_teacher_id_seq"
)

// RegistrationRepository creates user accounts together with their
// role-specific rows. Each Create* call is one transaction: the user insert,
// the last-issued-ID read and the role row insert commit or roll back
// together, so a failure never leaves a user without its role record.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// CreateStudent inserts the user and student rows. nextID receives the
// lexicographically maximal existing student_id (empty when none) and
// returns the identifier to assign. The read happens under a per-scope
// advisory lock so concurrent registrations serialize; the student_id
// primary key is the backstop.
func (r *RegistrationRepository) CreateStudent(ctx context.Context, user *models.User, student *models.Student, nextID func(last string) (string, error)) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		last, err := lastIssuedID(ctx, tx, studentSeqLockKey, `SELECT student_id FROM students ORDER BY student_id DESC LIMIT 1`)
		if err != nil {
			return err
		}
		id, err := nextID(last)
		if err != nil {
			return err
		}
		student.StudentID = id
		student.UserID = user.ID
		const query = `INSERT INTO students (student_id, user_id, program_id, section_id, gpa, gpax, credits, level, course_count, status)
VALUES (:student_id, :user_id, :program_id, :section_id, :gpa, :gpax, :credits, :level, :course_count, :status)`
		if _, err := tx.NamedExecContext(ctx, query, student); err != nil {
			if IsUniqueViolation(err) {
				return err
			}
			return fmt.Errorf("create student: %w", err)
		}
		return nil
	})
}

// CreateTeacher inserts the user and teacher rows under the teacher ID scope.
func (r *RegistrationRepository) CreateTeacher(ctx context.Context, user *models.User, teacher *models.Teacher, nextID func(last string) (string, error)) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		last, err := lastIssuedID(ctx, tx, teacherSeqLockKey, `SELECT teacher_id FROM teachers ORDER BY teacher_id DESC LIMIT 1`)
		if err != nil {
			return err
		}
		id, err := nextID(last)
		if err != nil {
			return err
		}
		teacher.TeacherID = id
		teacher.UserID = user.ID
		const query = `INSERT INTO teachers (teacher_id, user_id, title, course_count)
VALUES (:teacher_id, :user_id, :title, :course_count)`
		if _, err := tx.NamedExecContext(ctx, query, teacher); err != nil {
			if IsUniqueViolation(err) {
				return err
			}
			return fmt.Errorf("create teacher: %w", err)
		}
		return nil
	})
}

// CreateAdmin inserts the user and admin rows. Admin IDs reuse the user UUID.
func (r *RegistrationRepository) CreateAdmin(ctx context.Context, user *models.User) (*models.Admin, error) {
	admin := &models.Admin{}
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		admin.AdminID = user.ID
		admin.UserID = user.ID
		const query = `INSERT INTO admins (admin_id, user_id) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, admin.AdminID, admin.UserID); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *RegistrationRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin registration tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit registration tx: %w", err)
	}
	return nil
}

func insertUser(ctx context.Context, tx *sqlx.Tx, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	const query = `INSERT INTO users (id, first_name, last_name, role, username, password_hash, created_at, updated_at)
VALUES (:id, :first_name, :last_name, :role, :username, :password_hash, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, user); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func lastIssuedID(ctx context.Context, tx *sqlx.Tx, lockKey, query string) (string, error) {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return "", fmt.Errorf("acquire sequence lock: %w", err)
	}
	var last string
	if err := tx.GetContext(ctx, &last, query); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("read last issued id: %w", err)
	}
	return last, nil
}
