package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noor-academy/student-portal-api/internal/models"
)

// StudentFilter narrows admin student listings.
type StudentFilter struct {
	GradeLevel string
	Confirmed  *bool
	Page       int
	PageSize   int
}

// StudentSummaryRow is the slim projection used by registration analytics.
type StudentSummaryRow struct {
	GradeLevel       string    `db:"grade_level"`
	SubscriptionType string    `db:"subscription_type"`
	IsConfirmed      bool      `db:"is_confirmed"`
	CreatedAt        time.Time `db:"created_at"`
}

// StudentRepository manages admin-side persistence on the relational
// students table. The lookup path never writes; these operations back the
// registration endpoints only.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters, newest first.
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter) ([]models.StudentRow, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.GradeLevel != "" {
		conditions = append(conditions, fmt.Sprintf("grade_level = $%d", len(args)+1))
		args = append(args, filter.GradeLevel)
	}
	if filter.Confirmed != nil {
		conditions = append(conditions, fmt.Sprintf("is_confirmed = $%d", len(args)+1))
		args = append(args, *filter.Confirmed)
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, student_code, full_name_arabic, grade_level, subscription_type,
        transfer_phone, whatsapp_phone, is_confirmed, enrollment_date, created_at, updated_at
        FROM students WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, where, size, offset)

	var students []models.StudentRow
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM students WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// CountByGrade returns how many students are registered for a grade label.
// New codes are the grade prefix plus this count, one-based, zero-padded.
func (r *StudentRepository) CountByGrade(ctx context.Context, gradeLabel string) (int, error) {
	const query = `SELECT COUNT(*) FROM students WHERE grade_level = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, gradeLabel); err != nil {
		return 0, fmt.Errorf("count grade %s: %w", gradeLabel, err)
	}
	return count, nil
}

// Create inserts a new student row and fills in generated columns.
func (r *StudentRepository) Create(ctx context.Context, student *models.StudentRow) error {
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (student_code, full_name_arabic, grade_level, subscription_type,
        transfer_phone, whatsapp_phone, is_confirmed, enrollment_date, created_at, updated_at)
        VALUES (:student_code, :full_name_arabic, :grade_level, :subscription_type,
        :transfer_phone, :whatsapp_phone, :is_confirmed, :enrollment_date, :created_at, :updated_at)
        RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	if rows.Next() {
		if err := rows.Scan(&student.ID); err != nil {
			return fmt.Errorf("scan student id: %w", err)
		}
	}
	return nil
}

// Update modifies the mutable columns of an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.StudentRow) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET full_name_arabic = :full_name_arabic, grade_level = :grade_level,
        subscription_type = :subscription_type, transfer_phone = :transfer_phone,
        whatsapp_phone = :whatsapp_phone, is_confirmed = :is_confirmed,
        enrollment_date = :enrollment_date, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// FindByID fetches a student row by primary key.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.StudentRow, error) {
	const query = `SELECT id, student_code, full_name_arabic, grade_level, subscription_type,
        transfer_phone, whatsapp_phone, is_confirmed, enrollment_date, created_at, updated_at
        FROM students WHERE id = $1`
	var student models.StudentRow
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// All returns every student row, ordered by code, for roster exports.
func (r *StudentRepository) All(ctx context.Context) ([]models.StudentRow, error) {
	const query = `SELECT id, student_code, full_name_arabic, grade_level, subscription_type,
        transfer_phone, whatsapp_phone, is_confirmed, enrollment_date, created_at, updated_at
        FROM students ORDER BY student_code`
	var students []models.StudentRow
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("load all students: %w", err)
	}
	return students, nil
}

// Summary streams the slim projection that registration analytics aggregates.
func (r *StudentRepository) Summary(ctx context.Context) ([]StudentSummaryRow, error) {
	const query = `SELECT grade_level, subscription_type, is_confirmed, created_at FROM students`
	var rows []StudentSummaryRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("load student summary: %w", err)
	}
	return rows, nil
}
