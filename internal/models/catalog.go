package models

import "time"

// Program is an academic program (degree track) offered by the school.
type Program struct {
	ID              string    `db:"id" json:"program_id"`
	Name            string    `db:"name" json:"program_name"`
	Details         string    `db:"details" json:"program_details"`
	RequiredCredits int       `db:"required_credits" json:"req_credits"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// SectionName enumerates the allowed section labels.
type SectionName string

const (
	SectionA SectionName = "A"
	SectionB SectionName = "B"
	SectionC SectionName = "C"
)

// Section groups students of a program under a supervising teacher.
type Section struct {
	ID           string      `db:"id" json:"section_id"`
	Name         SectionName `db:"name" json:"section_name"`
	ProgramID    string      `db:"program_id" json:"program_id"`
	TeacherID    string      `db:"teacher_id" json:"teacher_id"`
	StudentCount int         `db:"student_count" json:"current_student"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// CreateProgramRequest carries the payload for adding a program.
type CreateProgramRequest struct {
	Name            string `json:"program_name" validate:"required"`
	Details         string `json:"program_details"`
	RequiredCredits int    `json:"req_credits" validate:"gte=0"`
}

// CreateSectionRequest carries the payload for adding a section.
type CreateSectionRequest struct {
	Name      SectionName `json:"section_name" validate:"required,oneof=A B C"`
	ProgramID string      `json:"program_id" validate:"required"`
	TeacherID string      `json:"teacher_id" validate:"required"`
}

// UpdateSectionRequest edits a section. Nil fields are left unchanged.
type UpdateSectionRequest struct {
	Name      *SectionName `json:"section_name,omitempty" validate:"omitempty,oneof=A B C"`
	ProgramID *string      `json:"program_id,omitempty"`
	TeacherID *string      `json:"teacher_id,omitempty"`
}

// Course is a unit of study students enroll into.
type Course struct {
	ID           string    `db:"id" json:"course_id"`
	Name         string    `db:"name" json:"course_name"`
	Prerequisite string    `db:"prerequisite" json:"pre_requisite"`
	Units        float64   `db:"units" json:"units"`
	Detail       string    `db:"detail" json:"course_detail"`
	Active       bool      `db:"active" json:"course_status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CreateCourseRequest carries the payload for adding a course.
type CreateCourseRequest struct {
	Name         string  `json:"course_name" validate:"required"`
	Prerequisite string  `json:"pre_requisite"`
	Units        float64 `json:"units" validate:"gte=0"`
	Detail       string  `json:"course_detail"`
	Active       bool    `json:"course_status"`
}

// UpdateCourseRequest edits a course. Nil fields are left unchanged.
type UpdateCourseRequest struct {
	Name         *string  `json:"course_name,omitempty"`
	Prerequisite *string  `json:"pre_requisite,omitempty"`
	Units        *float64 `json:"units,omitempty" validate:"omitempty,gte=0"`
	Detail       *string  `json:"course_detail,omitempty"`
	Active       *bool    `json:"course_status,omitempty"`
}
