package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noor-academy/student-portal-api/internal/models"
)

func legacyColumns() []string {
	return []string{"id", "name", "student_code", "is_confirmed", "september", "october", "november", "december"}
}

func TestLegacyRepositoryQueriesGradeTable(t *testing.T) {
	db, mock, cleanup := newLookupMock(t)
	defer cleanup()
	repo := NewLegacyRepository(db)

	october := []byte(`{"session2_attended": true, "session2_quiz": "7", "final_evaluation": "جيد"}`)
	rows := sqlmock.NewRows(legacyColumns()).
		AddRow(3, "سارة", "p1007", true, nil, october, nil, nil)
	mock.ExpectQuery(`FROM p1 WHERE`).WithArgs("P1007").WillReturnRows(rows)

	record, err := repo.FindByCode(context.Background(), models.GradeP1, "P1007")
	require.NoError(t, err)
	assert.Equal(t, "P1007", record.StudentCode, "stored lowercase codes are normalized on the way out")
	assert.Equal(t, models.GradeP1, record.GradeLevel)
	require.Len(t, record.Performance, 1)
	assert.Equal(t, "october", record.Performance[0].Month)
	assert.Equal(t, 7, record.Performance[0].Sessions[1].Quiz)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLegacyRepositoryMissPassesThrough(t *testing.T) {
	db, mock, cleanup := newLookupMock(t)
	defer cleanup()
	repo := NewLegacyRepository(db)

	mock.ExpectQuery(`FROM g4 WHERE`).WithArgs("G4999").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByCode(context.Background(), models.GradeG4, "G4999")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
