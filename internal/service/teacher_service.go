package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/uni-attend-api/internal/models"
	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context) ([]models.TeacherDetail, error)
	FindByID(ctx context.Context, teacherID string) (*models.TeacherDetail, error)
	Delete(ctx context.Context, teacherID string) error
}

// TeacherService serves the admin view of teacher records.
type TeacherService struct {
	repo        teacherRepository
	invalidator statsInvalidator
	logger      *zap.Logger
}

// NewTeacherService constructs a TeacherService instance.
func NewTeacherService(repo teacherRepository, invalidator statsInvalidator, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, invalidator: invalidator, logger: logger}
}

// List returns all teachers with their user profiles.
func (s *TeacherService) List(ctx context.Context) ([]models.TeacherDetail, error) {
	teachers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}

// Get returns one teacher's detail view.
func (s *TeacherService) Get(ctx context.Context, teacherID string) (*models.TeacherDetail, error) {
	detail, err := s.repo.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return detail, nil
}

// Delete removes the teacher together with its user account.
func (s *TeacherService) Delete(ctx context.Context, teacherID string) error {
	if err := s.repo.Delete(ctx, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}

	s.logger.Info("teacher deleted", zap.String("teacher_id", teacherID))
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
	return nil
}
