package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-attend-api/internal/models"
	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
)

type mockProgramRepo struct {
	programs map[string]*models.Program
}

func (m *mockProgramRepo) Create(ctx context.Context, program *models.Program) error {
	if program.ID == "" {
		program.ID = "p-2"
	}
	if m.programs == nil {
		m.programs = make(map[string]*models.Program)
	}
	m.programs[program.ID] = program
	return nil
}

func (m *mockProgramRepo) List(ctx context.Context) ([]models.Program, error) {
	var out []models.Program
	for _, p := range m.programs {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProgramRepo) FindByID(ctx context.Context, id string) (*models.Program, error) {
	p, ok := m.programs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

type mockSectionRepo struct {
	sections map[string]*models.Section
}

func (m *mockSectionRepo) Create(ctx context.Context, section *models.Section) error {
	if section.ID == "" {
		section.ID = "s-1"
	}
	if m.sections == nil {
		m.sections = make(map[string]*models.Section)
	}
	m.sections[section.ID] = section
	return nil
}

func (m *mockSectionRepo) List(ctx context.Context) ([]models.Section, error) {
	var out []models.Section
	for _, s := range m.sections {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockSectionRepo) FindByID(ctx context.Context, id string) (*models.Section, error) {
	s, ok := m.sections[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (m *mockSectionRepo) Update(ctx context.Context, section *models.Section) error {
	m.sections[section.ID] = section
	return nil
}

func (m *mockSectionRepo) Delete(ctx context.Context, id string) error {
	delete(m.sections, id)
	return nil
}

type mockCourseRepo struct {
	courses map[string]*models.Course
	deleted []string
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = "c-1"
	}
	if m.courses == nil {
		m.courses = make(map[string]*models.Course)
	}
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	for _, c := range m.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	delete(m.courses, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockTeacherFinder struct {
	teacher *models.Teacher
}

func (m *mockTeacherFinder) FindRecord(ctx context.Context, teacherID string) (*models.Teacher, error) {
	if m.teacher == nil || m.teacher.TeacherID != teacherID {
		return nil, sql.ErrNoRows
	}
	return m.teacher, nil
}

func newCatalogFixture() (*CatalogService, *mockProgramRepo, *mockSectionRepo, *mockCourseRepo) {
	programs := &mockProgramRepo{programs: map[string]*models.Program{"p-1": {ID: "p-1", Name: "CS"}}}
	sections := &mockSectionRepo{}
	courses := &mockCourseRepo{}
	teachers := &mockTeacherFinder{teacher: &models.Teacher{TeacherID: "2025-0100"}}
	return NewCatalogService(programs, sections, courses, teachers, nil, nil, nil), programs, sections, courses
}

func TestCreateProgramValidation(t *testing.T) {
	svc, programs, _, _ := newCatalogFixture()

	_, err := svc.CreateProgram(context.Background(), models.CreateProgramRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	program, err := svc.CreateProgram(context.Background(), models.CreateProgramRequest{Name: "SE", RequiredCredits: 120})
	require.NoError(t, err)
	assert.NotEmpty(t, program.ID)
	assert.Len(t, programs.programs, 2)
}

func TestCreateSectionChecksReferences(t *testing.T) {
	svc, _, _, _ := newCatalogFixture()

	_, err := svc.CreateSection(context.Background(), models.CreateSectionRequest{Name: "D", ProgramID: "p-1", TeacherID: "2025-0100"})
	require.Error(t, err, "section name outside A/B/C must fail validation")

	_, err = svc.CreateSection(context.Background(), models.CreateSectionRequest{Name: models.SectionA, ProgramID: "p-missing", TeacherID: "2025-0100"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.CreateSection(context.Background(), models.CreateSectionRequest{Name: models.SectionA, ProgramID: "p-1", TeacherID: "2025-9999"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	section, err := svc.CreateSection(context.Background(), models.CreateSectionRequest{Name: models.SectionA, ProgramID: "p-1", TeacherID: "2025-0100"})
	require.NoError(t, err)
	assert.Equal(t, models.SectionA, section.Name)
}

func TestUpdateSectionPartial(t *testing.T) {
	svc, _, sections, _ := newCatalogFixture()
	sections.sections = map[string]*models.Section{"s-1": {ID: "s-1", Name: models.SectionA, ProgramID: "p-1", TeacherID: "2025-0100"}}

	name := models.SectionB
	updated, err := svc.UpdateSection(context.Background(), "s-1", models.UpdateSectionRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, models.SectionB, updated.Name)
	assert.Equal(t, "p-1", updated.ProgramID, "unset fields keep their values")
}

func TestCourseLifecycle(t *testing.T) {
	svc, _, _, courses := newCatalogFixture()

	course, err := svc.CreateCourse(context.Background(), models.CreateCourseRequest{Name: "Databases", Units: 3, Active: true})
	require.NoError(t, err)

	got, err := svc.GetCourse(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Databases", got.Name)

	inactive := false
	updated, err := svc.UpdateCourse(context.Background(), course.ID, models.UpdateCourseRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	require.NoError(t, svc.DeleteCourse(context.Background(), course.ID))
	assert.Contains(t, courses.deleted, course.ID)

	_, err = svc.GetCourse(context.Background(), course.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
