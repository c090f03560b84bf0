package models

// RegisterStudentRequest carries the payload for creating a student account.
// The sequential student ID is assigned server-side.
type RegisterStudentRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Username  string `json:"username" validate:"required,min=3"`
	Password  string `json:"password" validate:"required,min=8"`
	ProgramID string `json:"program_id" validate:"required"`
	SectionID string `json:"section_id" validate:"required"`
	Level     int    `json:"year_level" validate:"gte=1,lte=8"`
}

// RegisterTeacherRequest carries the payload for creating a teacher account.
type RegisterTeacherRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Username  string `json:"username" validate:"required,min=3"`
	Password  string `json:"password" validate:"required,min=8"`
	Title     string `json:"title"`
}

// RegisterAdminRequest carries the payload for creating an admin account.
type RegisterAdminRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Username  string `json:"username" validate:"required,min=3"`
	Password  string `json:"password" validate:"required,min=8"`
}

// RegisteredStudent pairs the created account with its role record.
type RegisteredStudent struct {
	User    *User    `json:"user"`
	Student *Student `json:"student"`
}

// RegisteredTeacher pairs the created account with its role record.
type RegisteredTeacher struct {
	User    *User    `json:"user"`
	Teacher *Teacher `json:"teacher"`
}

// RegisteredAdmin pairs the created account with its role record.
type RegisteredAdmin struct {
	User  *User  `json:"user"`
	Admin *Admin `json:"admin"`
}

// UpdateStudentRequest carries the admin edit of a student's placement and
// profile. Nil fields are left unchanged.
type UpdateStudentRequest struct {
	FirstName *string        `json:"first_name,omitempty"`
	LastName  *string        `json:"last_name,omitempty"`
	Username  *string        `json:"username,omitempty" validate:"omitempty,min=3"`
	ProgramID *string        `json:"program_id,omitempty"`
	SectionID *string        `json:"section_id,omitempty"`
	Level     *int           `json:"year_level,omitempty" validate:"omitempty,gte=1,lte=8"`
	Status    *StudentStatus `json:"status,omitempty"`
}
