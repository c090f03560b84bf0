package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-attend-api/internal/models"
)

func TestEnrollmentExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2)")).
		WithArgs("c1", "2501001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.Exists(context.Background(), "c1", "2501001")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO enrollments").WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &models.Enrollment{CourseID: "c1", StudentID: "2501001", EnrolledAt: time.Now()})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentStudentIDsByCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"student_id"}).AddRow("2501001").AddRow("2501002")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id FROM enrollments WHERE course_id = $1 ORDER BY student_id")).
		WithArgs("c1").
		WillReturnRows(rows)

	ids, err := repo.StudentIDsByCourse(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2501001", "2501002"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
