package models

import "time"

// Enrollment binds a student to a course for grading purposes.
// The (course_id, student_id) pair is the primary key; grade fields start
// at zero and are filled in over the term.
type Enrollment struct {
	CourseID     string    `db:"course_id" json:"course_id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	MidtermGrade float64   `db:"midterm_grade" json:"midterm_grade"`
	FinalGrade   float64   `db:"final_grade" json:"final_grade"`
	TotalGrade   float64   `db:"total_grade" json:"total_grade"`
	GPA          float64   `db:"gpa" json:"gpa"`
	EnrolledAt   time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// EnrollmentDetail joins an enrollment with course and student names.
type EnrollmentDetail struct {
	Enrollment
	CourseName string `db:"course_name" json:"course_name"`
	FirstName  string `db:"first_name" json:"first_name"`
	LastName   string `db:"last_name" json:"last_name"`
}

// CreateEnrollmentRequest binds a student to a course.
type CreateEnrollmentRequest struct {
	CourseID  string `json:"course_id" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
}
