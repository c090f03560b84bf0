package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-attend-api/internal/models"
	"github.com/noah-isme/uni-attend-api/pkg/config"
	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
)

type mockAttendanceRepo struct {
	session   *models.AttendanceSession
	scans     map[string]*models.StudentAttendance
	seeded    []string
	createErr error
}

func (m *mockAttendanceRepo) CreateSession(ctx context.Context, session *models.AttendanceSession, studentIDs []string) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.session = session
	m.seeded = studentIDs
	if m.scans == nil {
		m.scans = make(map[string]*models.StudentAttendance)
	}
	for _, id := range studentIDs {
		m.scans[id] = &models.StudentAttendance{AttendanceID: session.ID, StudentID: id, Status: models.ScanStatusAbsent}
	}
	return nil
}

func (m *mockAttendanceRepo) FindSessionByID(ctx context.Context, id string) (*models.AttendanceSession, error) {
	if m.session == nil || m.session.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.session, nil
}

func (m *mockAttendanceRepo) FindScan(ctx context.Context, attendanceID, studentID string) (*models.StudentAttendance, error) {
	scan, ok := m.scans[studentID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return scan, nil
}

func (m *mockAttendanceRepo) MarkScanned(ctx context.Context, attendanceID, studentID string, status models.ScanStatus, scannedAt time.Time) (bool, error) {
	scan, ok := m.scans[studentID]
	if !ok || scan.Status != models.ScanStatusAbsent {
		return false, nil
	}
	scan.Status = status
	scan.TimeScanned = &scannedAt
	return true, nil
}

func (m *mockAttendanceRepo) ListScans(ctx context.Context, attendanceID string) ([]models.SessionScanRow, error) {
	rows := make([]models.SessionScanRow, 0, len(m.scans))
	for _, scan := range m.scans {
		rows = append(rows, models.SessionScanRow{StudentID: scan.StudentID, Status: scan.Status, TimeScanned: scan.TimeScanned})
	}
	return rows, nil
}

type mockCourseFinder struct {
	course *models.Course
}

func (m *mockCourseFinder) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if m.course == nil || m.course.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.course, nil
}

type mockRoster struct {
	ids []string
}

func (m *mockRoster) StudentIDsByCourse(ctx context.Context, courseID string) ([]string, error) {
	return m.ids, nil
}

type mockStudentRecords struct {
	owners map[string]string
}

func (m *mockStudentRecords) FindRecord(ctx context.Context, studentID string) (*models.Student, error) {
	userID, ok := m.owners[studentID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.Student{StudentID: studentID, UserID: userID}, nil
}

type stubRenderer struct{}

func (stubRenderer) DataURI(payload string) (string, error) {
	return "data:image/png;base64,stub", nil
}

func newAttendanceFixture(t *testing.T, now time.Time) (*AttendanceService, *mockAttendanceRepo) {
	t.Helper()
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(
		repo,
		&mockCourseFinder{course: &models.Course{ID: "c-1", Name: "Databases", Active: true}},
		&mockRoster{ids: []string{"2509001", "2509002"}},
		&mockStudentRecords{owners: map[string]string{"2509001": "u-1", "2509002": "u-2"}},
		stubRenderer{},
		nil,
		nil,
		config.AttendanceConfig{GraceWindow: 30 * time.Minute},
	)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func openSession(t *testing.T, svc *AttendanceService, now time.Time) *models.AttendanceSession {
	t.Helper()
	session, err := svc.CreateSession(context.Background(), models.CreateAttendanceSessionRequest{
		CourseID: "c-1",
		TimeEnd:  now.Add(15 * time.Minute),
	})
	require.NoError(t, err)
	return session
}

func TestCreateSessionSeedsRoster(t *testing.T) {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc, repo := newAttendanceFixture(t, now)

	session := openSession(t, svc, now)

	assert.NotEmpty(t, session.ID)
	assert.NotEmpty(t, session.Code)
	assert.Contains(t, session.QRImage, "data:image/png;base64,")
	assert.Equal(t, now, session.TimeStart)
	assert.ElementsMatch(t, []string{"2509001", "2509002"}, repo.seeded)
}

func TestCreateSessionRejectsPastWindow(t *testing.T) {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc, repo := newAttendanceFixture(t, now)

	_, err := svc.CreateSession(context.Background(), models.CreateAttendanceSessionRequest{
		CourseID: "c-1",
		TimeEnd:  now.Add(-time.Minute),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidWindow.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.session, "nothing may be written on a rejected window")
}

func TestCreateSessionRejectsInvertedWindow(t *testing.T) {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc, repo := newAttendanceFixture(t, now)

	_, err := svc.CreateSession(context.Background(), models.CreateAttendanceSessionRequest{
		CourseID:  "c-1",
		TimeStart: now.Add(2 * time.Hour),
		TimeEnd:   now.Add(time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidWindow.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.session, "nothing may be written on a rejected window")
}

func TestCreateSessionUnknownCourse(t *testing.T) {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newAttendanceFixture(t, now)

	_, err := svc.CreateSession(context.Background(), models.CreateAttendanceSessionRequest{
		CourseID: "c-missing",
		TimeEnd:  now.Add(15 * time.Minute),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScanOnTimeRecordsPresent(t *testing.T) {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc, repo := newAttendanceFixture(t, now)
	session := openSession(t, svc, now)

	svc.now = func() time.Time { return now.Add(10 * time.Minute) }
	scan, err := svc.Scan(context.Background(), models.ScanRequest{AttendanceID: session.ID, StudentID: "2509001"}, "u-staff", models.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, models.ScanStatusPresent, scan.Status)
	assert.Equal(t, models.ScanStatusPresent, repo.scans["2509001"].Status)
}

func TestScanWithinGraceRecordsLate(t *testing.T) {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc, repo := newAttendanceFixture(t, now)
	session := openSession(t, svc, now)

	svc.now = func() time.Time { return now.Add(25 * time.Minute) }
	scan, err := svc.Scan(context.Background(), models.ScanRequest{AttendanceID: session.ID, StudentID: "2509001"}, "u-staff", models.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, models.ScanStatusLate, scan.Status)
	assert.Equal(t, models.ScanStatusLate, repo.scans["2509001"].Status)
}

func TestScanAfterGraceMarksLateAndFails(t *testing.T) {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc, repo := newAttendanceFixture(t, now)
	session := openSession(t, svc, now)

	svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err := svc.Scan(context.Background(), models.ScanRequest{AttendanceID: session.ID, StudentID: "2509001"}, "u-staff", models.RoleTeacher)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrExpiredWindow.Code, appErrors.FromError(err).Code)
	assert.Equal(t, models.ScanStatusLate, repo.scans["2509001"].Status, "first expired attempt still records late")

	_, err = svc.Scan(context.Background(), models.ScanRequest{AttendanceID: session.ID, StudentID: "2509001"}, "u-staff", models.RoleTeacher)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyScanned.Code, appErrors.FromError(err).Code)
}

func TestScanDuplicateRejected(t *testing.T) {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newAttendanceFixture(t, now)
	session := openSession(t, svc, now)

	svc.now = func() time.Time { return now.Add(5 * time.Minute) }
	_, err := svc.Scan(context.Background(), models.ScanRequest{AttendanceID: session.ID, StudentID: "2509001"}, "u-staff", models.RoleTeacher)
	require.NoError(t, err)

	_, err = svc.Scan(context.Background(), models.ScanRequest{AttendanceID: session.ID, StudentID: "2509001"}, "u-staff", models.RoleTeacher)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyScanned.Code, appErrors.FromError(err).Code)
}

func TestScanStudentTokenScansOwnRecord(t *testing.T) {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc, repo := newAttendanceFixture(t, now)
	session := openSession(t, svc, now)

	svc.now = func() time.Time { return now.Add(5 * time.Minute) }
	scan, err := svc.Scan(context.Background(), models.ScanRequest{AttendanceID: session.ID, StudentID: "2509001"}, "u-1", models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, models.ScanStatusPresent, scan.Status)
	assert.Equal(t, models.ScanStatusPresent, repo.scans["2509001"].Status)
}

func TestScanStudentTokenCannotScanForAnother(t *testing.T) {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc, repo := newAttendanceFixture(t, now)
	session := openSession(t, svc, now)

	svc.now = func() time.Time { return now.Add(5 * time.Minute) }
	_, err := svc.Scan(context.Background(), models.ScanRequest{AttendanceID: session.ID, StudentID: "2509002"}, "u-1", models.RoleStudent)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Equal(t, models.ScanStatusAbsent, repo.scans["2509002"].Status, "rejected scan must not mark the row")
}

func TestScanUnenrolledStudent(t *testing.T) {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newAttendanceFixture(t, now)
	session := openSession(t, svc, now)

	_, err := svc.Scan(context.Background(), models.ScanRequest{AttendanceID: session.ID, StudentID: "2509099"}, "u-staff", models.RoleTeacher)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScanUnknownSession(t *testing.T) {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newAttendanceFixture(t, now)

	_, err := svc.Scan(context.Background(), models.ScanRequest{AttendanceID: "missing", StudentID: "2509001"}, "u-staff", models.RoleTeacher)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRemainingTime(t *testing.T) {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newAttendanceFixture(t, now)
	session := openSession(t, svc, now)

	svc.now = func() time.Time { return now.Add(5 * time.Minute) }
	remaining, err := svc.RemainingTime(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(600), remaining.Seconds)

	svc.now = func() time.Time { return now.Add(time.Hour) }
	_, err = svc.RemainingTime(context.Background(), session.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrExpiredWindow.Code, appErrors.FromError(err).Code)
}

func TestListScans(t *testing.T) {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newAttendanceFixture(t, now)
	session := openSession(t, svc, now)

	rows, err := svc.ListScans(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, models.ScanStatusAbsent, row.Status)
	}
}
