package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noor-academy/student-portal-api/internal/models"
	"github.com/noor-academy/student-portal-api/internal/repository"
	appErrors "github.com/noor-academy/student-portal-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter repository.StudentFilter) ([]models.StudentRow, int, error)
	CountByGrade(ctx context.Context, gradeLabel string) (int, error)
	Create(ctx context.Context, student *models.StudentRow) error
	Update(ctx context.Context, student *models.StudentRow) error
	FindByID(ctx context.Context, id int64) (*models.StudentRow, error)
}

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateStudentRequest holds payload for registering students.
type CreateStudentRequest struct {
	FullNameArabic   string `json:"full_name_arabic" validate:"required,max=200"`
	GradeLevel       string `json:"grade_level" validate:"required"`
	SubscriptionType string `json:"subscription_type" validate:"required,max=50"`
	WhatsappPhone    string `json:"whatsapp_phone" validate:"max=20"`
	TransferPhone    string `json:"transfer_phone" validate:"max=20"`
	EnrollmentDate   string `json:"enrollment_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateStudentRequest holds payload for updating students.
type UpdateStudentRequest struct {
	FullNameArabic   string `json:"full_name_arabic" validate:"required,max=200"`
	GradeLevel       string `json:"grade_level" validate:"required"`
	SubscriptionType string `json:"subscription_type" validate:"required,max=50"`
	WhatsappPhone    string `json:"whatsapp_phone" validate:"max=20"`
	TransferPhone    string `json:"transfer_phone" validate:"max=20"`
	EnrollmentDate   string `json:"enrollment_date" validate:"omitempty,datetime=2006-01-02"`
	IsConfirmed      bool   `json:"is_confirmed"`
}

// StudentService handles admin-side registration use-cases. The public
// lookup path is served by LookupService; this service is the only writer.
type StudentService struct {
	repo      studentRepository
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service. cache may be nil.
func NewStudentService(repo studentRepository, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter repository.StudentFilter) ([]models.StudentRow, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return students, pagination, nil
}

// Create registers a new student and assigns the next code for the grade.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.StudentRow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	grade, ok := models.GradeFromLabel(req.GradeLevel)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown grade level")
	}

	count, err := s.repo.CountByGrade(ctx, grade.Label())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate student code")
	}
	code := fmt.Sprintf("%s%03d", grade, count+1)

	student := &models.StudentRow{
		StudentCode:      code,
		FullNameArabic:   req.FullNameArabic,
		GradeLevel:       grade.Label(),
		SubscriptionType: req.SubscriptionType,
	}
	if req.WhatsappPhone != "" {
		student.WhatsappPhone = &req.WhatsappPhone
	}
	if req.TransferPhone != "" {
		student.TransferPhone = &req.TransferPhone
	}
	enrollment := time.Now().UTC()
	if req.EnrollmentDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.EnrollmentDate); err == nil {
			enrollment = parsed
		}
	}
	student.EnrollmentDate = &enrollment

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.logger.Info("student registered", zap.String("code", student.StudentCode), zap.String("grade", student.GradeLevel))
	return student, nil
}

// Update modifies an existing student and invalidates any cached lookup.
func (s *StudentService) Update(ctx context.Context, id int64, req UpdateStudentRequest) (*models.StudentRow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	grade, ok := models.GradeFromLabel(req.GradeLevel)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown grade level")
	}

	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	student.FullNameArabic = req.FullNameArabic
	student.GradeLevel = grade.Label()
	student.SubscriptionType = req.SubscriptionType
	student.IsConfirmed = req.IsConfirmed
	student.WhatsappPhone = optional(req.WhatsappPhone)
	student.TransferPhone = optional(req.TransferPhone)
	if req.EnrollmentDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.EnrollmentDate); err == nil {
			student.EnrollmentDate = &parsed
		}
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, lookupCacheKey(student.StudentCode)); err != nil {
			s.logger.Warn("lookup cache invalidation failed", zap.String("code", student.StudentCode), zap.Error(err))
		}
	}
	return student, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
