package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noor-academy/student-portal-api/internal/models"
)

func TestStudentRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newLookupMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	confirmed := true
	mock.ExpectQuery(`FROM students WHERE 1=1 AND grade_level = \$1 AND is_confirmed = \$2 ORDER BY created_at DESC LIMIT 20 OFFSET 0`).
		WithArgs("Grade 4", true).
		WillReturnRows(sqlmock.NewRows(studentColumns()).
			AddRow(1, "G4001", "أحمد", "Grade 4", "شهري", nil, nil, true, nil, now, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students WHERE 1=1 AND grade_level = \$1 AND is_confirmed = \$2`).
		WithArgs("Grade 4", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), StudentFilter{GradeLevel: "Grade 4", Confirmed: &confirmed})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCountByGrade(t *testing.T) {
	db, mock, cleanup := newLookupMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students WHERE grade_level = \$1`).
		WithArgs("Prep 1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountByGrade(context.Background(), "Prep 1")
	require.NoError(t, err)
	assert.Equal(t, 12, count)
}

func TestStudentRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newLookupMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`INSERT INTO students`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(99))

	student := &models.StudentRow{StudentCode: "G4013", FullNameArabic: "Test", GradeLevel: "Grade 4"}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.Equal(t, int64(99), student.ID)
	assert.False(t, student.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newLookupMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(`UPDATE students SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.StudentRow{ID: 7, StudentCode: "G4001", FullNameArabic: "New", GradeLevel: "Grade 4"}
	err := repo.Update(context.Background(), student)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
