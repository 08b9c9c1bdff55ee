package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noor-academy/student-portal-api/internal/models"
	"github.com/noor-academy/student-portal-api/internal/repository"
	appErrors "github.com/noor-academy/student-portal-api/pkg/errors"
)

type mockStudentRepo struct {
	students   map[int64]models.StudentRow
	gradeCount int
	lastFilter repository.StudentFilter
	created    []models.StudentRow
	updated    []models.StudentRow
	err        error
}

func (m *mockStudentRepo) List(ctx context.Context, filter repository.StudentFilter) ([]models.StudentRow, int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	rows := make([]models.StudentRow, 0, len(m.students))
	for _, s := range m.students {
		rows = append(rows, s)
	}
	return rows, len(rows), nil
}

func (m *mockStudentRepo) CountByGrade(ctx context.Context, gradeLabel string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.gradeCount, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.StudentRow) error {
	student.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *student)
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.StudentRow) error {
	m.updated = append(m.updated, *student)
	return nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.StudentRow, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

type mockInvalidator struct {
	patterns []string
}

func (m *mockInvalidator) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

func TestStudentServiceCreateAssignsNextCode(t *testing.T) {
	repo := &mockStudentRepo{gradeCount: 11}
	svc := NewStudentService(repo, nil, validator.New(), zap.NewNop())

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		FullNameArabic:   "أحمد محمد",
		GradeLevel:       "Grade 4",
		SubscriptionType: "شهري",
	})
	require.NoError(t, err)
	assert.Equal(t, "G4012", student.StudentCode)
	assert.Equal(t, "Grade 4", student.GradeLevel)
	require.Len(t, repo.created, 1)
}

func TestStudentServiceCreateRejectsUnknownGrade(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		FullNameArabic:   "Test",
		GradeLevel:       "Grade 9",
		SubscriptionType: "شهري",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestStudentServiceCreateRejectsMissingName(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		GradeLevel:       "Grade 4",
		SubscriptionType: "شهري",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestStudentServiceUpdateInvalidatesLookupCache(t *testing.T) {
	repo := &mockStudentRepo{students: map[int64]models.StudentRow{
		7: {ID: 7, StudentCode: "G4001", FullNameArabic: "Old", GradeLevel: "Grade 4", SubscriptionType: "شهري"},
	}}
	invalidator := &mockInvalidator{}
	svc := NewStudentService(repo, invalidator, validator.New(), zap.NewNop())

	student, err := svc.Update(context.Background(), 7, UpdateStudentRequest{
		FullNameArabic:   "New",
		GradeLevel:       "Grade 4",
		SubscriptionType: "شهري",
		IsConfirmed:      true,
	})
	require.NoError(t, err)
	assert.True(t, student.IsConfirmed)
	assert.Equal(t, []string{"lookup:G4001"}, invalidator.patterns)
	require.Len(t, repo.updated, 1)
}

func TestStudentServiceUpdateMissingStudent(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), 99, UpdateStudentRequest{
		FullNameArabic:   "New",
		GradeLevel:       "Grade 4",
		SubscriptionType: "شهري",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestStudentServiceListDefaultsPagination(t *testing.T) {
	repo := &mockStudentRepo{students: map[int64]models.StudentRow{1: {ID: 1, StudentCode: "G4001"}}}
	svc := NewStudentService(repo, nil, validator.New(), zap.NewNop())

	_, pagination, err := svc.List(context.Background(), repository.StudentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}
