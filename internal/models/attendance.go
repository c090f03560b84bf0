package models

import "time"

// ScanStatus is the per-student outcome recorded against a session.
type ScanStatus string

const (
	ScanStatusPresent ScanStatus = "Present"
	ScanStatusLate    ScanStatus = "Late"
	ScanStatusAbsent  ScanStatus = "Absent"
)

// AttendanceSession is a time-boxed QR attendance window tied to a course.
// Code is the opaque payload encoded into the QR image; QRImage holds the
// rendered PNG data URI.
type AttendanceSession struct {
	ID        string    `db:"id" json:"attendance_id"`
	Code      string    `db:"code" json:"qr_name"`
	QRImage   string    `db:"qr_image" json:"qr_png"`
	CourseID  string    `db:"course_id" json:"course_id"`
	TimeStart time.Time `db:"time_start" json:"time_start"`
	TimeEnd   time.Time `db:"time_end" json:"time_end"`
	Active    bool      `db:"active" json:"attendance_status"`
}

// StudentAttendance is one student's status row within a session. One row
// per (attendance_id, student_id), seeded Absent at session creation.
type StudentAttendance struct {
	AttendanceID string     `db:"attendance_id" json:"attendance_id"`
	StudentID    string     `db:"student_id" json:"student_id"`
	Status       ScanStatus `db:"status" json:"status"`
	TimeScanned  *time.Time `db:"time_scanned" json:"time_scanned,omitempty"`
}

// SessionScanRow joins a status row with the student's name for reports.
type SessionScanRow struct {
	StudentID   string     `db:"student_id" json:"student_id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	Status      ScanStatus `db:"status" json:"status"`
	TimeScanned *time.Time `db:"time_scanned" json:"time_scanned,omitempty"`
}

// CreateAttendanceSessionRequest opens a scan window for a course.
type CreateAttendanceSessionRequest struct {
	CourseID  string    `json:"course_id" validate:"required"`
	TimeStart time.Time `json:"time_start"`
	TimeEnd   time.Time `json:"time_end" validate:"required"`
}

// ScanRequest records one student's scan against a session.
type ScanRequest struct {
	AttendanceID string `json:"attendance_id" validate:"required"`
	StudentID    string `json:"student_id" validate:"required"`
}

// RemainingTime reports seconds left before a session's window closes.
type RemainingTime struct {
	AttendanceID string `json:"attendance_id"`
	Seconds      int64  `json:"remaining_seconds"`
}

// CreateReportRequest queues an export of a session's scan table.
type CreateReportRequest struct {
	Format ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
}
