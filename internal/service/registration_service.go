package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/uni-attend-api/internal/models"
	"github.com/noah-isme/uni-attend-api/internal/repository"
	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
)

type registrationRepository interface {
	CreateStudent(ctx context.Context, user *models.User, student *models.Student, nextID func(last string) (string, error)) error
	CreateTeacher(ctx context.Context, user *models.User, teacher *models.Teacher, nextID func(last string) (string, error)) error
	CreateAdmin(ctx context.Context, user *models.User) (*models.Admin, error)
}

type registrationUserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// statsInvalidator drops cached aggregate counts after a write that
// changes them. A nil invalidator is a no-op.
type statsInvalidator interface {
	Invalidate(ctx context.Context)
}

// RegistrationService creates accounts with their role records and
// sequential identifiers.
type RegistrationService struct {
	repo        registrationRepository
	users       registrationUserRepository
	idGen       *IDGenerator
	invalidator statsInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(repo registrationRepository, users registrationUserRepository, idGen *IDGenerator, invalidator statsInvalidator, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if idGen == nil {
		idGen = NewIDGenerator()
	}
	return &RegistrationService{repo: repo, users: users, idGen: idGen, invalidator: invalidator, validator: validate, logger: logger}
}

// RegisterStudent creates the user and student rows, assigning the next
// sequential student ID inside the registration transaction.
func (s *RegistrationService) RegisterStudent(ctx context.Context, req models.RegisterStudentRequest) (*models.RegisteredStudent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student registration payload")
	}

	user, err := s.newUser(ctx, req.FirstName, req.LastName, req.Username, req.Password, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		ProgramID: req.ProgramID,
		SectionID: req.SectionID,
		Level:     req.Level,
		Status:    models.StudentStatusActive,
	}
	if student.Level == 0 {
		student.Level = 1
	}

	if err := s.repo.CreateStudent(ctx, user, student, s.idGen.NextStudentID); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username or student id already taken")
		}
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("student registered",
		zap.String("student_id", student.StudentID),
		zap.String("user_id", user.ID),
	)
	s.invalidate(ctx)

	return &models.RegisteredStudent{User: user, Student: student}, nil
}

// RegisterTeacher creates the user and teacher rows, assigning the next
// sequential teacher ID inside the registration transaction.
func (s *RegistrationService) RegisterTeacher(ctx context.Context, req models.RegisterTeacherRequest) (*models.RegisteredTeacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher registration payload")
	}

	user, err := s.newUser(ctx, req.FirstName, req.LastName, req.Username, req.Password, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	teacher := &models.Teacher{Title: req.Title}

	if err := s.repo.CreateTeacher(ctx, user, teacher, s.idGen.NextTeacherID); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username or teacher id already taken")
		}
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("teacher registered",
		zap.String("teacher_id", teacher.TeacherID),
		zap.String("user_id", user.ID),
	)
	s.invalidate(ctx)

	return &models.RegisteredTeacher{User: user, Teacher: teacher}, nil
}

// RegisterAdmin creates the user and admin rows. Admins reuse the user UUID
// as their identifier.
func (s *RegistrationService) RegisterAdmin(ctx context.Context, req models.RegisterAdminRequest) (*models.RegisteredAdmin, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin registration payload")
	}

	user, err := s.newUser(ctx, req.FirstName, req.LastName, req.Username, req.Password, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	admin, err := s.repo.CreateAdmin(ctx, user)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username already taken")
		}
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("admin registered", zap.String("user_id", user.ID))

	return &models.RegisteredAdmin{User: user, Admin: admin}, nil
}

func (s *RegistrationService) newUser(ctx context.Context, firstName, lastName, username, password string, role models.UserRole) (*models.User, error) {
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	return &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		Username:     username,
		PasswordHash: string(hash),
	}, nil
}

func (s *RegistrationService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
}
