package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-attend-api/internal/models"
	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
)

type programRepository interface {
	Create(ctx context.Context, program *models.Program) error
	List(ctx context.Context) ([]models.Program, error)
	FindByID(ctx context.Context, id string) (*models.Program, error)
}

type sectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	List(ctx context.Context) ([]models.Section, error)
	FindByID(ctx context.Context, id string) (*models.Section, error)
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id string) error
}

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type catalogTeacherRepository interface {
	FindRecord(ctx context.Context, teacherID string) (*models.Teacher, error)
}

// CatalogService manages programs, sections and courses.
type CatalogService struct {
	programs    programRepository
	sections    sectionRepository
	courses     courseRepository
	teachers    catalogTeacherRepository
	invalidator statsInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCatalogService constructs a CatalogService instance.
func NewCatalogService(programs programRepository, sections sectionRepository, courses courseRepository, teachers catalogTeacherRepository, invalidator statsInvalidator, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CatalogService{programs: programs, sections: sections, courses: courses, teachers: teachers, invalidator: invalidator, validator: validate, logger: logger}
}

// CreateProgram adds an academic program.
func (s *CatalogService) CreateProgram(ctx context.Context, req models.CreateProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}

	program := &models.Program{
		Name:            req.Name,
		Details:         req.Details,
		RequiredCredits: req.RequiredCredits,
	}
	if err := s.programs.Create(ctx, program); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create program")
	}

	s.logger.Info("program created", zap.String("program_id", program.ID))
	return program, nil
}

// ListPrograms returns all programs.
func (s *CatalogService) ListPrograms(ctx context.Context) ([]models.Program, error) {
	programs, err := s.programs.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	return programs, nil
}

// CreateSection adds a section after checking its program and supervising
// teacher exist.
func (s *CatalogService) CreateSection(ctx context.Context, req models.CreateSectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}

	if _, err := s.programs.FindByID(ctx, req.ProgramID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	if _, err := s.teachers.FindRecord(ctx, req.TeacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	section := &models.Section{
		Name:      req.Name,
		ProgramID: req.ProgramID,
		TeacherID: req.TeacherID,
	}
	if err := s.sections.Create(ctx, section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create section")
	}

	s.logger.Info("section created", zap.String("section_id", section.ID))
	return section, nil
}

// ListSections returns all sections.
func (s *CatalogService) ListSections(ctx context.Context) ([]models.Section, error) {
	sections, err := s.sections.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	return sections, nil
}

// UpdateSection edits a section. Nil request fields keep current values.
func (s *CatalogService) UpdateSection(ctx context.Context, id string, req models.UpdateSectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}

	section, err := s.sections.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}

	if req.Name != nil {
		section.Name = *req.Name
	}
	if req.ProgramID != nil {
		section.ProgramID = *req.ProgramID
	}
	if req.TeacherID != nil {
		section.TeacherID = *req.TeacherID
	}

	if err := s.sections.Update(ctx, section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update section")
	}
	return section, nil
}

// DeleteSection removes a section.
func (s *CatalogService) DeleteSection(ctx context.Context, id string) error {
	if _, err := s.sections.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	if err := s.sections.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete section")
	}
	return nil
}

// CreateCourse adds a course.
func (s *CatalogService) CreateCourse(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course := &models.Course{
		Name:         req.Name,
		Prerequisite: req.Prerequisite,
		Units:        req.Units,
		Detail:       req.Detail,
		Active:       req.Active,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.logger.Info("course created", zap.String("course_id", course.ID))
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
	return course, nil
}

// ListCourses returns all courses.
func (s *CatalogService) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// GetCourse returns a course by identifier.
func (s *CatalogService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// UpdateCourse edits a course. Nil request fields keep current values.
func (s *CatalogService) UpdateCourse(ctx context.Context, id string, req models.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Prerequisite != nil {
		course.Prerequisite = *req.Prerequisite
	}
	if req.Units != nil {
		course.Units = *req.Units
	}
	if req.Detail != nil {
		course.Detail = *req.Detail
	}
	if req.Active != nil {
		course.Active = *req.Active
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// DeleteCourse removes a course together with its enrollments.
func (s *CatalogService) DeleteCourse(ctx context.Context, id string) error {
	if _, err := s.GetCourse(ctx, id); err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}

	s.logger.Info("course deleted", zap.String("course_id", id))
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
	return nil
}
