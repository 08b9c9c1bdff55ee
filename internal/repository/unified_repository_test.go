package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noor-academy/student-portal-api/internal/models"
)

func newLookupMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func unifiedColumns() []string {
	return []string{"id", "student_code", "name", "full_name_arabic", "grade_level", "is_confirmed",
		"september", "october", "november", "december"}
}

func TestUnifiedRepositoryFindByCode(t *testing.T) {
	db, mock, cleanup := newLookupMock(t)
	defer cleanup()
	repo := NewUnifiedRepository(db)

	september := []byte(`{"session1_attended": true, "session1_perf": "ممتاز", "session1_quiz": 8}`)
	rows := sqlmock.NewRows(unifiedColumns()).
		AddRow(1, "G4001", "أحمد", nil, "G4", true, september, nil, nil, nil)
	mock.ExpectQuery(`SELECT id, student_code, name, full_name_arabic, grade_level, is_confirmed`).
		WithArgs("G4001").
		WillReturnRows(rows)

	record, err := repo.FindByCode(context.Background(), "G4001")
	require.NoError(t, err)
	assert.Equal(t, "G4001", record.StudentCode)
	assert.Equal(t, "أحمد", record.DisplayName)
	assert.Equal(t, models.GradeG4, record.GradeLevel)
	assert.True(t, record.PaymentVerified)
	require.Len(t, record.Performance, 1)
	assert.Equal(t, "september", record.Performance[0].Month)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnifiedRepositoryPrefersArabicName(t *testing.T) {
	db, mock, cleanup := newLookupMock(t)
	defer cleanup()
	repo := NewUnifiedRepository(db)

	rows := sqlmock.NewRows(unifiedColumns()).
		AddRow(1, "G5012", "transliterated", "محمد علي", "G5", false, nil, nil, nil, nil)
	mock.ExpectQuery(`FROM students_unified`).WithArgs("G5012").WillReturnRows(rows)

	record, err := repo.FindByCode(context.Background(), "G5012")
	require.NoError(t, err)
	assert.Equal(t, "محمد علي", record.DisplayName)
	assert.False(t, record.PaymentVerified)
	assert.Empty(t, record.Performance)
}

func TestUnifiedRepositoryMissPassesThrough(t *testing.T) {
	db, mock, cleanup := newLookupMock(t)
	defer cleanup()
	repo := NewUnifiedRepository(db)

	mock.ExpectQuery(`FROM students_unified`).WithArgs("G4999").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByCode(context.Background(), "G4999")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
