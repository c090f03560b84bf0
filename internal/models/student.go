package models

// StudentStatus enumerates the lifecycle states of a student record.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "Active"
	StudentStatusInactive  StudentStatus = "Inactive"
	StudentStatusGraduated StudentStatus = "Graduated"
	StudentStatusSuspended StudentStatus = "Suspended"
	StudentStatusExpelled  StudentStatus = "Expelled"
)

// Valid reports whether the status belongs to the known set.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentStatusActive, StudentStatusInactive, StudentStatusGraduated, StudentStatusSuspended, StudentStatusExpelled:
		return true
	}
	return false
}

// Student represents the role-specific record linked 1:1 to a user.
// StudentID carries the human-readable sequential identifier (YYMM + 3 digits).
type Student struct {
	StudentID   string        `db:"student_id" json:"student_id"`
	UserID      string        `db:"user_id" json:"user_id"`
	ProgramID   string        `db:"program_id" json:"program_id"`
	SectionID   string        `db:"section_id" json:"section_id"`
	GPA         float64       `db:"gpa" json:"gpa"`
	GPAX        float64       `db:"gpax" json:"gpax"`
	Credits     float64       `db:"credits" json:"credits"`
	Level       int           `db:"level" json:"level"`
	CourseCount int           `db:"course_count" json:"course_count"`
	Status      StudentStatus `db:"status" json:"status"`
}

// StudentDetail joins the student with its user, program and section rows
// for the admin roster view.
type StudentDetail struct {
	StudentID   string        `db:"student_id" json:"student_id"`
	FirstName   string        `db:"first_name" json:"first_name"`
	LastName    string        `db:"last_name" json:"last_name"`
	Username    string        `db:"username" json:"username"`
	ProgramName string        `db:"program_name" json:"program"`
	SectionName string        `db:"section_name" json:"section"`
	Level       int           `db:"level" json:"year_level"`
	Status      StudentStatus `db:"status" json:"status"`
}

// StudentFilter captures filtering criteria for the admin roster.
type StudentFilter struct {
	Status    string
	ProgramID string
	Level     *int
	Page      int
	PageSize  int
}
