package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-attend-api/internal/models"
	"github.com/noah-isme/uni-attend-api/internal/repository"
	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, studentID string) (*models.StudentDetail, error)
	FindRecord(ctx context.Context, studentID string) (*models.Student, error)
	Update(ctx context.Context, student *models.Student, firstName, lastName, username string) error
	Delete(ctx context.Context, studentID string) error
}

type studentUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// StudentService serves the admin roster: listing, inspection, edits and
// removal of student records.
type StudentService struct {
	repo        studentRepository
	users       studentUserRepository
	invalidator statsInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(repo studentRepository, users studentUserRepository, invalidator statsInvalidator, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, users: users, invalidator: invalidator, validator: validate, logger: logger}
}

// List returns the filtered roster with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	if filter.Status != "" && !models.StudentStatus(filter.Status).Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown student status filter")
	}

	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	return students, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one student's roster view.
func (s *StudentService) Get(ctx context.Context, studentID string) (*models.StudentDetail, error) {
	detail, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return detail, nil
}

// Update applies an admin edit to the student's placement and profile.
func (s *StudentService) Update(ctx context.Context, studentID string, req models.UpdateStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student update payload")
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown student status")
	}

	student, err := s.repo.FindRecord(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	user, err := s.users.FindByID(ctx, student.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student user")
	}

	if req.ProgramID != nil {
		student.ProgramID = *req.ProgramID
	}
	if req.SectionID != nil {
		student.SectionID = *req.SectionID
	}
	if req.Level != nil {
		student.Level = *req.Level
	}
	if req.Status != nil {
		student.Status = *req.Status
	}
	firstName := user.FirstName
	if req.FirstName != nil {
		firstName = *req.FirstName
	}
	lastName := user.LastName
	if req.LastName != nil {
		lastName = *req.LastName
	}
	username := user.Username
	if req.Username != nil {
		username = *req.Username
	}

	if err := s.repo.Update(ctx, student, firstName, lastName, username); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username already taken")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	s.logger.Info("student updated", zap.String("student_id", studentID))
	return s.Get(ctx, studentID)
}

// Delete removes the student with its dependent rows and user account.
func (s *StudentService) Delete(ctx context.Context, studentID string) error {
	if err := s.repo.Delete(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}

	s.logger.Info("student deleted", zap.String("student_id", studentID))
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
	return nil
}
