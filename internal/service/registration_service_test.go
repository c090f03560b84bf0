package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/uni-attend-api/internal/models"
	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
)

type mockRegistrationRepo struct {
	mu          sync.Mutex
	lastStudent string
	lastTeacher string
	students    []*models.Student
	teachers    []*models.Teacher
	createErr   error
}

func (m *mockRegistrationRepo) CreateStudent(ctx context.Context, user *models.User, student *models.Student, nextID func(last string) (string, error)) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := nextID(m.lastStudent)
	if err != nil {
		return err
	}
	student.StudentID = id
	student.UserID = "u-" + id
	user.ID = student.UserID
	m.lastStudent = id
	m.students = append(m.students, student)
	return nil
}

func (m *mockRegistrationRepo) CreateTeacher(ctx context.Context, user *models.User, teacher *models.Teacher, nextID func(last string) (string, error)) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := nextID(m.lastTeacher)
	if err != nil {
		return err
	}
	teacher.TeacherID = id
	teacher.UserID = "u-" + id
	user.ID = teacher.UserID
	m.lastTeacher = id
	m.teachers = append(m.teachers, teacher)
	return nil
}

func (m *mockRegistrationRepo) CreateAdmin(ctx context.Context, user *models.User) (*models.Admin, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	user.ID = "u-admin"
	return &models.Admin{AdminID: user.ID, UserID: user.ID}, nil
}

type mockUserExists struct {
	taken map[string]bool
	err   error
}

func (m *mockUserExists) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.taken[username], nil
}

type recordingInvalidator struct{ calls int }

func (r *recordingInvalidator) Invalidate(ctx context.Context) { r.calls++ }

func studentRequest(username string) models.RegisterStudentRequest {
	return models.RegisterStudentRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Username:  username,
		Password:  "password123",
		ProgramID: "p-1",
		SectionID: "s-1",
		Level:     1,
	}
}

func TestRegisterStudentAssignsSequentialIDs(t *testing.T) {
	repo := &mockRegistrationRepo{}
	inv := &recordingInvalidator{}
	gen := NewIDGeneratorWithClock(fixedClock(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)))
	svc := NewRegistrationService(repo, &mockUserExists{}, gen, inv, nil, nil)

	first, err := svc.RegisterStudent(context.Background(), studentRequest("grace"))
	require.NoError(t, err)
	second, err := svc.RegisterStudent(context.Background(), studentRequest("grace2"))
	require.NoError(t, err)

	assert.Equal(t, "2509001", first.Student.StudentID)
	assert.Equal(t, "2509002", second.Student.StudentID)
	assert.Equal(t, models.StudentStatusActive, first.Student.Status)
	assert.Equal(t, 2, inv.calls)

	hashErr := bcrypt.CompareHashAndPassword([]byte(first.User.PasswordHash), []byte("password123"))
	assert.NoError(t, hashErr)
}

func TestRegisterStudentTakenUsername(t *testing.T) {
	svc := NewRegistrationService(&mockRegistrationRepo{}, &mockUserExists{taken: map[string]bool{"grace": true}}, NewIDGenerator(), nil, nil, nil)

	_, err := svc.RegisterStudent(context.Background(), studentRequest("grace"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRegisterStudentUniqueViolationMapsToConflict(t *testing.T) {
	repo := &mockRegistrationRepo{createErr: &pq.Error{Code: "23505"}}
	svc := NewRegistrationService(repo, &mockUserExists{}, NewIDGenerator(), nil, nil, nil)

	_, err := svc.RegisterStudent(context.Background(), studentRequest("grace"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRegisterStudentValidation(t *testing.T) {
	svc := NewRegistrationService(&mockRegistrationRepo{}, &mockUserExists{}, NewIDGenerator(), nil, nil, nil)

	req := studentRequest("grace")
	req.Password = "short"
	_, err := svc.RegisterStudent(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRegisterTeacherStartsAt0100(t *testing.T) {
	repo := &mockRegistrationRepo{}
	gen := NewIDGeneratorWithClock(fixedClock(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))
	svc := NewRegistrationService(repo, &mockUserExists{}, gen, nil, nil, nil)

	resp, err := svc.RegisterTeacher(context.Background(), models.RegisterTeacherRequest{
		FirstName: "Alan",
		LastName:  "Turing",
		Username:  "alan",
		Password:  "password123",
		Title:     "Dr.",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-0100", resp.Teacher.TeacherID)
	assert.Equal(t, "Dr.", resp.Teacher.Title)
}

func TestRegisterAdminReusesUserID(t *testing.T) {
	svc := NewRegistrationService(&mockRegistrationRepo{}, &mockUserExists{}, NewIDGenerator(), nil, nil, nil)

	resp, err := svc.RegisterAdmin(context.Background(), models.RegisterAdminRequest{
		FirstName: "Root",
		LastName:  "Admin",
		Username:  "root",
		Password:  "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, resp.Admin.AdminID)
}

func TestRegisterStudentConcurrentAssignsDistinctIDs(t *testing.T) {
	repo := &mockRegistrationRepo{}
	gen := NewIDGeneratorWithClock(fixedClock(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)))
	svc := NewRegistrationService(repo, &mockUserExists{}, gen, nil, nil, nil)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.RegisterStudent(context.Background(), studentRequest(string(rune('a'+i))+"user"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, st := range repo.students {
		assert.False(t, seen[st.StudentID], "duplicate id %s", st.StudentID)
		seen[st.StudentID] = true
	}
	assert.Len(t, seen, n)
}
