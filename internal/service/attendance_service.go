package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-attend-api/internal/models"
	"github.com/noah-isme/uni-attend-api/pkg/config"
	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
)

type attendanceRepository interface {
	CreateSession(ctx context.Context, session *models.AttendanceSession, studentIDs []string) error
	FindSessionByID(ctx context.Context, id string) (*models.AttendanceSession, error)
	FindScan(ctx context.Context, attendanceID, studentID string) (*models.StudentAttendance, error)
	MarkScanned(ctx context.Context, attendanceID, studentID string, status models.ScanStatus, scannedAt time.Time) (bool, error)
	ListScans(ctx context.Context, attendanceID string) ([]models.SessionScanRow, error)
}

type attendanceCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type attendanceEnrollmentRepository interface {
	StudentIDsByCourse(ctx context.Context, courseID string) ([]string, error)
}

type attendanceStudentRepository interface {
	FindRecord(ctx context.Context, studentID string) (*models.Student, error)
}

type qrRenderer interface {
	DataURI(payload string) (string, error)
}

// AttendanceService opens scan windows and evaluates student scans
// against them.
type AttendanceService struct {
	repo        attendanceRepository
	courses     attendanceCourseRepository
	enrollments attendanceEnrollmentRepository
	students    attendanceStudentRepository
	qr          qrRenderer
	validator   *validator.Validate
	logger      *zap.Logger
	grace       time.Duration
	now         func() time.Time
}

// NewAttendanceService constructs an AttendanceService instance.
func NewAttendanceService(repo attendanceRepository, courses attendanceCourseRepository, enrollments attendanceEnrollmentRepository, students attendanceStudentRepository, renderer qrRenderer, validate *validator.Validate, logger *zap.Logger, cfg config.AttendanceConfig) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{
		repo:        repo,
		courses:     courses,
		enrollments: enrollments,
		students:    students,
		qr:          renderer,
		validator:   validate,
		logger:      logger,
		grace:       cfg.GraceWindow,
		now:         time.Now,
	}
}

// CreateSession opens a scan window for a course. The session row and one
// Absent row per enrolled student commit in a single transaction.
func (s *AttendanceService) CreateSession(ctx context.Context, req models.CreateAttendanceSessionRequest) (*models.AttendanceSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	now := s.now().UTC()
	if !req.TimeEnd.After(now) {
		return nil, appErrors.Clone(appErrors.ErrInvalidWindow, "")
	}
	if !req.TimeStart.IsZero() && !req.TimeStart.Before(req.TimeEnd) {
		return nil, appErrors.Clone(appErrors.ErrInvalidWindow, "time_start must be before time_end")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	studentIDs, err := s.enrollments.StudentIDsByCourse(ctx, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course roster")
	}

	timeStart := req.TimeStart
	if timeStart.IsZero() {
		timeStart = now
	}

	code := uuid.NewString()
	image, err := s.qr.DataURI(code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render qr image")
	}

	session := &models.AttendanceSession{
		ID:        uuid.NewString(),
		Code:      code,
		QRImage:   image,
		CourseID:  req.CourseID,
		TimeStart: timeStart.UTC(),
		TimeEnd:   req.TimeEnd.UTC(),
		Active:    true,
	}

	if err := s.repo.CreateSession(ctx, session, studentIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}

	s.logger.Info("attendance session opened",
		zap.String("attendance_id", session.ID),
		zap.String("course_id", session.CourseID),
		zap.Int("seeded_rows", len(studentIDs)),
		zap.Time("time_end", session.TimeEnd),
	)

	return session, nil
}

// GetSession returns a session with its QR image.
func (s *AttendanceService) GetSession(ctx context.Context, id string) (*models.AttendanceSession, error) {
	session, err := s.repo.FindSessionByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

// Scan records one student's scan against a session. On-time scans record
// Present, scans within the grace window record Late. A scan after end of
// grace marks the row Late once but still fails with EXPIRED_WINDOW; any
// later attempt fails with ALREADY_SCANNED. Each row transitions away from
// Absent at most once. Student tokens may only scan for their own record.
func (s *AttendanceService) Scan(ctx context.Context, req models.ScanRequest, actorUserID string, actorRole models.UserRole) (*models.StudentAttendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scan payload")
	}

	if actorRole == models.RoleStudent {
		record, err := s.students.FindRecord(ctx, req.StudentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student record")
		}
		if record.UserID != actorUserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "students may only scan their own attendance")
		}
	}

	session, err := s.repo.FindSessionByID(ctx, req.AttendanceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	if _, err := s.repo.FindScan(ctx, req.AttendanceID, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student is not enrolled in this session")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scan row")
	}

	now := s.now().UTC()
	status, expired := s.evaluateWindow(session, now)

	transitioned, err := s.repo.MarkScanned(ctx, req.AttendanceID, req.StudentID, status, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record scan")
	}
	if !transitioned {
		return nil, appErrors.Clone(appErrors.ErrAlreadyScanned, "")
	}

	if expired {
		s.logger.Info("expired scan recorded as late",
			zap.String("attendance_id", req.AttendanceID),
			zap.String("student_id", req.StudentID),
		)
		return nil, appErrors.Clone(appErrors.ErrExpiredWindow, "")
	}

	s.logger.Info("scan recorded",
		zap.String("attendance_id", req.AttendanceID),
		zap.String("student_id", req.StudentID),
		zap.String("status", string(status)),
	)

	return &models.StudentAttendance{
		AttendanceID: req.AttendanceID,
		StudentID:    req.StudentID,
		Status:       status,
		TimeScanned:  &now,
	}, nil
}

// RemainingTime reports the seconds left before the window closes.
func (s *AttendanceService) RemainingTime(ctx context.Context, id string) (*models.RemainingTime, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	remaining := session.TimeEnd.Sub(s.now().UTC())
	if remaining <= 0 {
		return nil, appErrors.Clone(appErrors.ErrExpiredWindow, "attendance window already closed")
	}

	return &models.RemainingTime{AttendanceID: session.ID, Seconds: int64(remaining.Seconds())}, nil
}

// ListScans returns the per-student status table of a session.
func (s *AttendanceService) ListScans(ctx context.Context, id string) ([]models.SessionScanRow, error) {
	if _, err := s.GetSession(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListScans(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session scans")
	}
	return rows, nil
}

// evaluateWindow maps the scan instant onto a terminal status. The second
// return value reports whether the grace window had already closed.
func (s *AttendanceService) evaluateWindow(session *models.AttendanceSession, at time.Time) (models.ScanStatus, bool) {
	switch {
	case !at.After(session.TimeEnd):
		return models.ScanStatusPresent, false
	case !at.After(session.TimeEnd.Add(s.grace)):
		return models.ScanStatusLate, false
	default:
		return models.ScanStatusLate, true
	}
}
