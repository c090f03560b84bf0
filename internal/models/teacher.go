package models

// Teacher represents the role-specific record linked 1:1 to a user.
// TeacherID carries the human-readable sequential identifier (YYYY-NNNN).
type Teacher struct {
	TeacherID   string `db:"teacher_id" json:"teacher_id"`
	UserID      string `db:"user_id" json:"user_id"`
	Title       string `db:"title" json:"title"`
	CourseCount int    `db:"course_count" json:"course_count"`
}

// TeacherDetail joins the teacher with its user row.
type TeacherDetail struct {
	TeacherID   string `db:"teacher_id" json:"teacher_id"`
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	Username    string `db:"username" json:"username"`
	Title       string `db:"title" json:"title"`
	CourseCount int    `db:"course_count" json:"course_count"`
}

// Admin represents the role-specific record linked 1:1 to a user.
// The original system issues no sequential admin IDs; the user UUID is reused.
type Admin struct {
	AdminID string `db:"admin_id" json:"admin_id"`
	UserID  string `db:"user_id" json:"user_id"`
}
