package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-attend-api/internal/models"
)

// AttendanceRepository persists attendance sessions and per-student scan rows.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// CreateSession inserts the session row and seeds one Absent status row per
// enrolled student in a single transaction. A failure rolls everything back
// so a session never exists without its seed rows.
func (r *AttendanceRepository) CreateSession(ctx context.Context, session *models.AttendanceSession, studentIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const sessionQuery = `INSERT INTO attendance_sessions (id, code, qr_image, course_id, time_start, time_end, active)
VALUES (:id, :code, :qr_image, :course_id, :time_start, :time_end, :active)`
	if _, err := tx.NamedExecContext(ctx, sessionQuery, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	const seedQuery = `INSERT INTO student_attendance (attendance_id, student_id, status) VALUES ($1, $2, $3)`
	for _, studentID := range studentIDs {
		if _, err := tx.ExecContext(ctx, seedQuery, session.ID, studentID, models.ScanStatusAbsent); err != nil {
			return fmt.Errorf("seed scan row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session tx: %w", err)
	}
	return nil
}

// FindSessionByID returns a session by identifier.
func (r *AttendanceRepository) FindSessionByID(ctx context.Context, id string) (*models.AttendanceSession, error) {
	const query = `SELECT id, code, qr_image, course_id, time_start, time_end, active FROM attendance_sessions WHERE id = $1 LIMIT 1`
	var session models.AttendanceSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &session, nil
}

// FindScan returns the status row for one student within a session.
func (r *AttendanceRepository) FindScan(ctx context.Context, attendanceID, studentID string) (*models.StudentAttendance, error) {
	const query = `SELECT attendance_id, student_id, status, time_scanned FROM student_attendance WHERE attendance_id = $1 AND student_id = $2 LIMIT 1`
	var scan models.StudentAttendance
	if err := r.db.GetContext(ctx, &scan, query, attendanceID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find scan row: %w", err)
	}
	return &scan, nil
}

// MarkScanned transitions a seeded Absent row to its terminal status. The
// status guard makes the transition happen at most once: a row already
// Present or Late is left untouched and false is returned, so concurrent
// duplicate scans resolve to exactly one terminal state.
func (r *AttendanceRepository) MarkScanned(ctx context.Context, attendanceID, studentID string, status models.ScanStatus, scannedAt time.Time) (bool, error) {
	const query = `UPDATE student_attendance SET status = $3, time_scanned = $4 WHERE attendance_id = $1 AND student_id = $2 AND status = $5`
	res, err := r.db.ExecContext(ctx, query, attendanceID, studentID, status, scannedAt, models.ScanStatusAbsent)
	if err != nil {
		return false, fmt.Errorf("mark scan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark scan result: %w", err)
	}
	return affected == 1, nil
}

// ListScans returns all status rows of a session joined with student names.
func (r *AttendanceRepository) ListScans(ctx context.Context, attendanceID string) ([]models.SessionScanRow, error) {
	const query = `SELECT sa.student_id, u.first_name, u.last_name, sa.status, sa.time_scanned
FROM student_attendance sa
JOIN students s ON s.student_id = sa.student_id
JOIN users u ON u.id = s.user_id
WHERE sa.attendance_id = $1
ORDER BY sa.student_id`
	var rows []models.SessionScanRow
	if err := r.db.SelectContext(ctx, &rows, query, attendanceID); err != nil {
		return nil, fmt.Errorf("list session scans: %w", err)
	}
	return rows, nil
}
