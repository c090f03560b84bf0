package models

import "time"

// AdminStats aggregates headline counts for the admin dashboard.
type AdminStats struct {
	TotalStudents int            `json:"total_students"`
	TotalTeachers int            `json:"total_teachers"`
	TotalCourses  int            `json:"total_courses"`
	ScanTotals    map[string]int `json:"scan_totals"`
	GeneratedAt   time.Time      `json:"generated_at"`
}
