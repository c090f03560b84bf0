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

type mockTeacherRosterRepo struct {
	teachers map[string]models.TeacherDetail
	deleted  []string
}

func (m *mockTeacherRosterRepo) List(context.Context) ([]models.TeacherDetail, error) {
	out := make([]models.TeacherDetail, 0, len(m.teachers))
	for _, teacher := range m.teachers {
		out = append(out, teacher)
	}
	return out, nil
}

func (m *mockTeacherRosterRepo) FindByID(_ context.Context, teacherID string) (*models.TeacherDetail, error) {
	teacher, ok := m.teachers[teacherID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &teacher, nil
}

func (m *mockTeacherRosterRepo) Delete(_ context.Context, teacherID string) error {
	if _, ok := m.teachers[teacherID]; !ok {
		return sql.ErrNoRows
	}
	delete(m.teachers, teacherID)
	m.deleted = append(m.deleted, teacherID)
	return nil
}

func TestTeacherListAndGet(t *testing.T) {
	repo := &mockTeacherRosterRepo{teachers: map[string]models.TeacherDetail{
		"2025-0100": {TeacherID: "2025-0100", FirstName: "Alan", LastName: "Turing", Title: "Dr."},
	}}
	svc := NewTeacherService(repo, nil, nil)

	teachers, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, teachers, 1)

	teacher, err := svc.Get(context.Background(), "2025-0100")
	require.NoError(t, err)
	assert.Equal(t, "Alan", teacher.FirstName)

	_, err = svc.Get(context.Background(), "2025-9999")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTeacherDeleteInvalidatesStats(t *testing.T) {
	repo := &mockTeacherRosterRepo{teachers: map[string]models.TeacherDetail{
		"2025-0100": {TeacherID: "2025-0100"},
	}}
	invalidator := &recordingInvalidator{}
	svc := NewTeacherService(repo, invalidator, nil)

	require.NoError(t, svc.Delete(context.Background(), "2025-0100"))
	assert.Equal(t, []string{"2025-0100"}, repo.deleted)
	assert.Equal(t, 1, invalidator.calls)

	err := svc.Delete(context.Background(), "2025-0100")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
